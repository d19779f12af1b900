package builder

import (
	"github.com/posline/escpos-engine/internal/layout"
	"github.com/posline/escpos-engine/pkg/receipt"
)

// FromData lowers a structured receipt template into the content
// sequence. The block order is fixed: header, metadata, items header,
// item rows, totals, payment, footer, trailing feed and cut. Each block
// is skipped entirely when its input is absent.
func (b *Builder) FromData(data *receipt.Data) *Builder {
	if data == nil {
		return b
	}

	if data.Currency != nil {
		b.currency = *data.Currency
	}

	if h := data.Header; h != nil {
		if h.Logo != "" {
			b.Image(h.Logo)
		}
		if h.Title != "" {
			b.Title(h.Title)
		}
		if h.Subtitle != "" {
			b.Subtitle(h.Subtitle)
		}
		for _, line := range h.Address {
			b.CenteredText(line)
		}
		if h.Phone != "" {
			b.CenteredText(h.Phone)
		}
		b.Line()
	}

	if m := data.Meta; m != nil {
		if m.OrderNumber != "" {
			b.LabelValue("Order", m.OrderNumber)
		}
		if m.Date != nil {
			b.LabelValue("Date", layout.FormatDate(*m.Date, m.DateFormat))
		}
		if m.Cashier != "" {
			b.LabelValue("Cashier", m.Cashier)
		}
		if m.Customer != "" {
			b.LabelValue("Customer", m.Customer)
		}
		b.Line()
	}

	b.TableRow([]receipt.TableColumn{
		{Text: "Item", Width: "50%", Bold: true},
		{Text: "Qty", Width: "15%", Bold: true},
		{Text: "Price", Width: "35%", Bold: true},
	})
	b.DashedLine()

	for _, item := range data.Items {
		b.ItemRow(item.Name, item.Quantity, item.Price)
	}

	b.Line()

	if t := data.Totals; t != nil {
		if t.Subtotal != nil {
			b.LabelValue("Subtotal", layout.FormatCurrency(*t.Subtotal, b.currency))
		}
		if t.Tax != nil {
			b.LabelValue("Tax", layout.FormatCurrency(*t.Tax, b.currency))
		}
		if t.Discount > 0 {
			b.LabelValue("Discount", layout.FormatCurrency(-t.Discount, b.currency))
		}
		b.DoubleLine()
		b.TotalRow("TOTAL", t.Total)
	}

	if p := data.Payment; p != nil {
		b.Feed(1)
		b.LabelValue("Payment", p.Method)
		b.LabelValue("Amount", layout.FormatCurrency(p.Amount, b.currency))
		if p.Change > 0 {
			b.LabelValue("Change", layout.FormatCurrency(p.Change, b.currency))
		}
	}

	if len(data.Footer) > 0 {
		b.Feed(1)
		b.Line()
		for _, line := range data.Footer {
			b.CenteredText(line)
		}
	}

	b.Feed(3)
	b.Cut()

	return b
}

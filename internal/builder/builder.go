// Package builder accumulates receipt content items in print order
package builder

import (
	"strconv"

	"github.com/posline/escpos-engine/internal/layout"
	"github.com/posline/escpos-engine/pkg/receipt"
)

// Builder owns one content sequence under construction. Every append
// returns the builder itself so receipts can be chained together. A
// builder is meant for single owner use; it is not safe for concurrent
// mutation.
type Builder struct {
	items    []receipt.Item
	paper    receipt.PaperWidth
	currency receipt.CurrencyFormat
}

// New creates a builder for the given paper width
func New(paper receipt.PaperWidth) *Builder {
	return &Builder{paper: paper}
}

// WithCurrency sets the currency format used by ItemRow, TotalRow and
// the template lowering
func (b *Builder) WithCurrency(format receipt.CurrencyFormat) *Builder {
	b.currency = format
	return b
}

// Paper returns the paper width the builder renders for
func (b *Builder) Paper() receipt.PaperWidth {
	return b.paper
}

// Items returns the accumulated content sequence in print order. The
// sequence is read-only once handed to an encoder.
func (b *Builder) Items() []receipt.Item {
	return b.items
}

// Document wraps the accumulated sequence in a serializable document
func (b *Builder) Document(name string) *receipt.Document {
	currency := b.currency
	return &receipt.Document{
		Version:    receipt.Version,
		Name:       name,
		PaperWidth: b.paper,
		Currency:   &currency,
		Items:      b.items,
	}
}

// Reset clears the accumulated sequence. The sequence is never cleared
// implicitly.
func (b *Builder) Reset() *Builder {
	b.items = nil
	return b
}

// Append adds a fully specified item to the sequence
func (b *Builder) Append(item receipt.Item) *Builder {
	b.items = append(b.items, item)
	return b
}

// Text appends a plain left aligned text line
func (b *Builder) Text(value string) *Builder {
	return b.StyledText(value, receipt.Style{})
}

// StyledText appends a text line with explicit style attributes
func (b *Builder) StyledText(value string, style receipt.Style) *Builder {
	return b.Append(receipt.Item{Type: receipt.TypeText, Value: value, Style: style})
}

// CenteredText appends a centered text line
func (b *Builder) CenteredText(value string) *Builder {
	return b.StyledText(value, receipt.Style{Align: receipt.AlignCenter})
}

// RightText appends a right aligned text line
func (b *Builder) RightText(value string) *Builder {
	return b.StyledText(value, receipt.Style{Align: receipt.AlignRight})
}

// BoldText appends a bold text line
func (b *Builder) BoldText(value string) *Builder {
	return b.StyledText(value, receipt.Style{Bold: true})
}

// Title appends a centered, bold, double size line
func (b *Builder) Title(value string) *Builder {
	return b.StyledText(value, receipt.Style{
		Align: receipt.AlignCenter,
		Bold:  true,
		Size:  receipt.SizeDouble,
	})
}

// Subtitle appends a centered bold line at normal size
func (b *Builder) Subtitle(value string) *Builder {
	return b.StyledText(value, receipt.Style{Align: receipt.AlignCenter, Bold: true})
}

// Line appends a full width separator using the default fill character
func (b *Builder) Line() *Builder {
	return b.Append(receipt.Item{Type: receipt.TypeLine})
}

// DashedLine appends a full width dashed separator
func (b *Builder) DashedLine() *Builder {
	return b.Append(receipt.Item{Type: receipt.TypeLine, Char: "-"})
}

// DoubleLine appends a full width "=" separator
func (b *Builder) DoubleLine() *Builder {
	return b.Append(receipt.Item{Type: receipt.TypeLine, Char: "="})
}

// CustomLine appends a full width separator with the given fill character
func (b *Builder) CustomLine(char string) *Builder {
	return b.Append(receipt.Item{Type: receipt.TypeLine, Char: char})
}

// Feed appends a paper feed of the given line count
func (b *Builder) Feed(lines int) *Builder {
	return b.Append(receipt.Item{Type: receipt.TypeFeed, Lines: lines})
}

// Cut appends a full paper cut
func (b *Builder) Cut() *Builder {
	return b.Append(receipt.Item{Type: receipt.TypeCut})
}

// PartialCut appends a partial paper cut
func (b *Builder) PartialCut() *Builder {
	return b.Append(receipt.Item{Type: receipt.TypeCut, Partial: true})
}

// TableRow appends a row of columns. When the last item in the sequence
// is already a table, the row joins that table so the block shares its
// column width computation; any other trailing item starts a new table.
func (b *Builder) TableRow(columns []receipt.TableColumn) *Builder {
	row := receipt.TableRow{Columns: columns}

	if n := len(b.items); n > 0 && b.items[n-1].Type == receipt.TypeTable {
		b.items[n-1].Rows = append(b.items[n-1].Rows, row)
		return b
	}

	return b.Append(receipt.Item{Type: receipt.TypeTable, Rows: []receipt.TableRow{row}})
}

// LabelValue appends a two column row: label left, value right
func (b *Builder) LabelValue(label, value string) *Builder {
	return b.TableRow([]receipt.TableColumn{
		{Text: label},
		{Text: value, Align: receipt.AlignRight},
	})
}

// ItemRow appends a purchase line: name, quantity and formatted price in
// fixed 50/15/35 column proportions
func (b *Builder) ItemRow(name string, quantity int, price float64) *Builder {
	return b.TableRow([]receipt.TableColumn{
		{Text: name, Width: "50%"},
		{Text: strconv.Itoa(quantity), Width: "15%"},
		{Text: layout.FormatCurrency(price, b.currency), Width: "35%", Align: receipt.AlignRight},
	})
}

// TotalRow appends a bold label/amount row
func (b *Builder) TotalRow(label string, amount float64) *Builder {
	return b.TableRow([]receipt.TableColumn{
		{Text: label, Bold: true},
		{Text: layout.FormatCurrency(amount, b.currency), Align: receipt.AlignRight, Bold: true},
	})
}

// Barcode appends a centered barcode with the common defaults: module
// width 2, height 80 dots, readable text below the bars
func (b *Builder) Barcode(value string, symbology receipt.Symbology) *Builder {
	return b.Append(receipt.Item{
		Type:         receipt.TypeBarcode,
		Value:        value,
		Symbology:    symbology,
		Width:        2,
		Height:       80,
		TextPosition: receipt.TextBelow,
		Style:        receipt.Style{Align: receipt.AlignCenter},
	})
}

// QRCode appends a centered QR symbol with size 6 and medium error
// correction
func (b *Builder) QRCode(value string) *Builder {
	return b.Append(receipt.Item{
		Type:            receipt.TypeQRCode,
		Value:           value,
		QRSize:          6,
		ErrorCorrection: receipt.ECMedium,
		Style:           receipt.Style{Align: receipt.AlignCenter},
	})
}

// Image appends an image reference centered on the line
func (b *Builder) Image(source string) *Builder {
	return b.Append(receipt.Item{
		Type:   receipt.TypeImage,
		Source: source,
		Style:  receipt.Style{Align: receipt.AlignCenter},
	})
}

package receipt

import "time"

// Data is a structured receipt template: a higher level record the builder
// lowers into a content sequence in a fixed, deterministic order.
type Data struct {
	Header   *Header         `json:"header,omitempty"`
	Meta     *Meta           `json:"meta,omitempty"`
	Items    []LineItem      `json:"items,omitempty"`
	Totals   *Totals         `json:"totals,omitempty"`
	Payment  *Payment        `json:"payment,omitempty"`
	Footer   []string        `json:"footer,omitempty"`
	Currency *CurrencyFormat `json:"currency,omitempty"`
}

// Header is the store identification block at the top of a receipt
type Header struct {
	Logo     string   `json:"logo,omitempty"` // image source reference
	Title    string   `json:"title,omitempty"`
	Subtitle string   `json:"subtitle,omitempty"`
	Address  []string `json:"address,omitempty"`
	Phone    string   `json:"phone,omitempty"`
}

// Meta carries order level metadata printed as label/value rows
type Meta struct {
	OrderNumber string     `json:"order_number,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	DateFormat  string     `json:"date_format,omitempty"` // default "yyyy-MM-dd HH:mm"
	Cashier     string     `json:"cashier,omitempty"`
	Customer    string     `json:"customer,omitempty"`
}

// LineItem is one purchased item
type LineItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Totals is the amounts block. Subtotal and Tax print when non-nil,
// Discount prints only when greater than zero, Total always prints.
type Totals struct {
	Subtotal *float64 `json:"subtotal,omitempty"`
	Tax      *float64 `json:"tax,omitempty"`
	Discount float64  `json:"discount,omitempty"`
	Total    float64  `json:"total"`
}

// Payment is the tender block. Change prints only when greater than zero.
type Payment struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
	Change float64 `json:"change,omitempty"`
}

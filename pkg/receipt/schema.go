// Package receipt defines the types for the .receipt document format
package receipt

// Version is the document format version this package reads and writes.
const Version = "1.0"

// PaperWidth selects one of the supported thermal paper sizes
type PaperWidth string

const (
	Paper58mm PaperWidth = "58mm"
	Paper80mm PaperWidth = "80mm"
)

// CharsPerLine returns the fixed monospace column count for a paper width.
// The count is a pure function of the width; 80mm is the fallback.
func (w PaperWidth) CharsPerLine() int {
	switch w {
	case Paper58mm:
		return 32
	case Paper80mm:
		return 48
	default:
		return 48
	}
}

// DotWidth returns the printable width in printer dots
func (w PaperWidth) DotWidth() int {
	switch w {
	case Paper58mm:
		return 384
	case Paper80mm:
		return 576
	default:
		return 576
	}
}

// ItemType tags the variant of a content item
type ItemType string

const (
	TypeText    ItemType = "text"
	TypeLine    ItemType = "line"
	TypeTable   ItemType = "table"
	TypeFeed    ItemType = "feed"
	TypeCut     ItemType = "cut"
	TypeBarcode ItemType = "barcode"
	TypeQRCode  ItemType = "qrcode"
	TypeImage   ItemType = "image"
)

// Alignment positions content within the printable line
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// TextSize selects a character cell magnification
type TextSize string

const (
	SizeNormal       TextSize = "normal"
	SizeDoubleHeight TextSize = "double-height"
	SizeDoubleWidth  TextSize = "double-width"
	SizeDouble       TextSize = "double"
)

// Symbology identifies a 1D barcode encoding
type Symbology string

const (
	SymbologyUPCA    Symbology = "UPC_A"
	SymbologyUPCE    Symbology = "UPC_E"
	SymbologyEAN13   Symbology = "EAN13"
	SymbologyEAN8    Symbology = "EAN8"
	SymbologyCODE39  Symbology = "CODE39"
	SymbologyITF     Symbology = "ITF"
	SymbologyCODABAR Symbology = "CODABAR"
	SymbologyCODE93  Symbology = "CODE93"
	SymbologyCODE128 Symbology = "CODE128"
)

// TextPosition places the human readable interpretation around a barcode
type TextPosition string

const (
	TextNone  TextPosition = "none"
	TextAbove TextPosition = "above"
	TextBelow TextPosition = "below"
	TextBoth  TextPosition = "both"
)

// ErrorCorrection is a QR symbol error correction level
type ErrorCorrection string

const (
	ECLow      ErrorCorrection = "L"
	ECMedium   ErrorCorrection = "M"
	ECQuartile ErrorCorrection = "Q"
	ECHigh     ErrorCorrection = "H"
)

// Style holds the optional text attributes of an item. Zero values mean
// the printer defaults: left aligned, normal size, no emphasis.
type Style struct {
	Bold      bool      `json:"bold,omitempty"`
	Underline bool      `json:"underline,omitempty"`
	Align     Alignment `json:"align,omitempty"`
	Size      TextSize  `json:"size,omitempty"`
	Invert    bool      `json:"invert,omitempty"`
}

// TableColumn is one cell of a table row
type TableColumn struct {
	Text  string    `json:"text"`
	Width string    `json:"width,omitempty"` // "12" (chars) or "60%"; empty = flex
	Align Alignment `json:"align,omitempty"`
	Bold  bool      `json:"bold,omitempty"`
}

// TableRow is an ordered sequence of columns printed on one line
type TableRow struct {
	Columns []TableColumn `json:"columns"`
}

// Item represents any receipt content item. The Type tag selects the
// variant; each variant reads only its own fields and ignores the rest.
type Item struct {
	Type ItemType `json:"type"`

	Style

	// Text item
	Value string `json:"value,omitempty"`

	// Line item
	Char string `json:"char,omitempty"`

	// Table item
	Rows []TableRow `json:"rows,omitempty"`

	// Feed item
	Lines int `json:"lines,omitempty"`

	// Cut item
	Partial bool `json:"partial,omitempty"`

	// Barcode item
	Symbology    Symbology    `json:"symbology,omitempty"`
	Width        int          `json:"width,omitempty"`
	Height       int          `json:"height,omitempty"`
	TextPosition TextPosition `json:"text_position,omitempty"`

	// QR code item
	QRSize          int             `json:"qr_size,omitempty"`
	ErrorCorrection ErrorCorrection `json:"error_correction,omitempty"`

	// Image item
	Source string `json:"source,omitempty"`
}

// CurrencyFormat controls amount rendering. Zero values resolve to the
// documented defaults: no symbol, 2 decimals, space thousands separator,
// "." decimal separator, symbol after the amount.
type CurrencyFormat struct {
	Symbol       string `json:"symbol,omitempty"`
	Decimals     int    `json:"decimals,omitempty"`
	ThousandsSep string `json:"thousands_sep,omitempty"`
	DecimalSep   string `json:"decimal_sep,omitempty"`
	Position     string `json:"position,omitempty"` // "before" or "after"
}

// Variable declares a named placeholder items can reference as
// {{name}} in their text fields. Callers supply values at print time;
// Default fills in when they don't.
type Variable struct {
	Name    string `json:"name"`
	Default string `json:"default,omitempty"`
	Prefix  string `json:"prefix,omitempty"`
	Suffix  string `json:"suffix,omitempty"`
}

// Document is the root structure of a .receipt file. CharsPerLine
// overrides the column count derived from the paper width; zero keeps
// the derived count.
type Document struct {
	Version      string          `json:"version"`
	Name         string          `json:"name,omitempty"`
	Description  string          `json:"description,omitempty"`
	PaperWidth   PaperWidth      `json:"paper_width,omitempty"`
	CharsPerLine int             `json:"chars_per_line,omitempty"`
	Currency     *CurrencyFormat `json:"currency,omitempty"`
	Variables    []Variable      `json:"variables,omitempty"`
	Items        []Item          `json:"items"`
}

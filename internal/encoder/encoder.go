// Package encoder translates a content sequence into the ESC/POS byte
// protocol consumed by thermal receipt printers.
package encoder

import (
	"bytes"

	"github.com/posline/escpos-engine/internal/layout"
	"github.com/posline/escpos-engine/pkg/receipt"
)

const (
	defaultLineChar  = "-"
	defaultFeedLines = 3
	defaultBarHeight = 80
)

// Encode converts a content sequence into a single printer ready byte
// buffer for the given paper width. The buffer always begins with the
// initialization command. Encoding is a pure function of its inputs:
// identical inputs produce byte identical output, no state survives
// between calls, and unknown item types encode to nothing.
func Encode(items []receipt.Item, paper receipt.PaperWidth) []byte {
	return EncodeWidth(items, paper, 0)
}

// EncodeWidth is Encode with an explicit chars-per-line override; zero
// or negative derives the count from the paper width.
func EncodeWidth(items []receipt.Item, paper receipt.PaperWidth, chars int) []byte {
	if chars <= 0 {
		chars = paper.CharsPerLine()
	}

	e := &encoder{chars: chars}
	e.buf.Write(cmdInitialize)

	for i := range items {
		e.encodeItem(&items[i])
	}

	return e.buf.Bytes()
}

// EncodeDocument encodes a parsed receipt document using its own paper
// width selection and chars-per-line override.
func EncodeDocument(doc *receipt.Document) []byte {
	return EncodeWidth(doc.Items, doc.PaperWidth, doc.CharsPerLine)
}

type encoder struct {
	buf   bytes.Buffer
	chars int
}

func (e *encoder) encodeItem(item *receipt.Item) {
	switch item.Type {
	case receipt.TypeText:
		e.text(item)
	case receipt.TypeLine:
		e.line(item)
	case receipt.TypeTable:
		e.table(item)
	case receipt.TypeFeed:
		e.feed(item)
	case receipt.TypeCut:
		e.cut(item)
	case receipt.TypeBarcode:
		e.barcode(item)
	case receipt.TypeQRCode:
		e.qrcode(item)
	case receipt.TypeImage:
		// Raster transfer is handled outside the text protocol
	default:
		// Unknown tags encode to nothing
	}
}

// text emits one styled text line. Every attribute that was switched on
// is switched off again afterwards, and alignment is always reset to
// left, so no style state leaks into the next item.
func (e *encoder) text(item *receipt.Item) {
	e.buf.Write(alignCommand(item.Align))

	size := sizeCommand(item.Size)
	if size != nil {
		e.buf.Write(size)
	}
	if item.Bold {
		e.buf.Write(cmdBoldOn)
	}
	if item.Underline {
		e.buf.Write(cmdUnderlineOn)
	}
	if item.Invert {
		e.buf.Write(cmdInvertOn)
	}

	e.buf.WriteString(item.Value)
	e.buf.WriteByte(LF)

	if item.Bold {
		e.buf.Write(cmdBoldOff)
	}
	if item.Underline {
		e.buf.Write(cmdUnderlineOff)
	}
	if item.Invert {
		e.buf.Write(cmdInvertOff)
	}
	if size != nil {
		e.buf.Write(cmdSizeNormal)
	}

	e.buf.Write(cmdAlignLeft)
}

// line emits the fill character repeated across the full printable width
func (e *encoder) line(item *receipt.Item) {
	char := item.Char
	if char == "" {
		char = defaultLineChar
	}

	e.buf.Write(bytes.Repeat([]byte(char), e.chars))
	e.buf.WriteByte(LF)
}

// table composes each row into one fixed width line. Column widths are
// computed per row against the paper width; a row containing any bold
// column prints entirely bold, since per-column emphasis cannot be
// expressed mid-line in this protocol.
func (e *encoder) table(item *receipt.Item) {
	for _, row := range item.Rows {
		widths := layout.ColumnWidths(row.Columns, e.chars)

		var line bytes.Buffer
		bold := false
		for i, col := range row.Columns {
			line.WriteString(layout.Pad(col.Text, widths[i], col.Align))
			if col.Bold {
				bold = true
			}
		}

		if bold {
			e.buf.Write(cmdBoldOn)
		}
		e.buf.Write(line.Bytes())
		e.buf.WriteByte(LF)
		if bold {
			e.buf.Write(cmdBoldOff)
		}
	}
}

// feed emits a feed command for the item's line count, defaulting to 3
// and clamped to the single byte parameter range.
func (e *encoder) feed(item *receipt.Item) {
	lines := item.Lines
	if lines == 0 {
		lines = defaultFeedLines
	}

	e.buf.Write(cmdFeedLines)
	e.buf.WriteByte(byte(clamp(lines, 0, 255)))
}

// cut feeds the paper clear of the print head, then cuts
func (e *encoder) cut(item *receipt.Item) {
	e.buf.Write(cmdFeedLines)
	e.buf.WriteByte(3)

	if item.Partial {
		e.buf.Write(cmdCutPartial)
	} else {
		e.buf.Write(cmdCutFull)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

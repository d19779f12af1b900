package preview

import (
	"bytes"
	"os"
	"strings"

	"github.com/posline/escpos-engine/internal/layout"
	"github.com/posline/escpos-engine/pkg/receipt"
)

const (
	baseFontSize = 24.0
	lineSpacing  = 10.0
	feedHeight   = 20.0
)

// Candidate font paths tried in order; the first that exists wins.
var systemFonts = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationMono-Regular.ttf",
	"/System/Library/Fonts/Menlo.ttc",
	"/System/Library/Fonts/Supplemental/Courier New.ttf",
	"C:\\Windows\\Fonts\\consola.ttf",
}

var systemFontsBold = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationMono-Bold.ttf",
	"/System/Library/Fonts/Supplemental/Courier New Bold.ttf",
	"C:\\Windows\\Fonts\\consolab.ttf",
}

func (r *Renderer) loadFont(bold bool, size float64) {
	candidates := systemFonts
	if bold {
		candidates = append(systemFontsBold, systemFonts...)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := r.ctx.LoadFontFace(path, size); err == nil {
			return
		}
	}
	// No loadable font found; gg falls back to its built-in face
}

func fontSize(size receipt.TextSize) float64 {
	switch size {
	case receipt.SizeDoubleHeight, receipt.SizeDouble:
		return baseFontSize * 2
	default:
		return baseFontSize
	}
}

func (r *Renderer) renderText(item *receipt.Item) error {
	size := fontSize(item.Size)
	r.loadFont(item.Bold, size)

	textWidth, textHeight := r.ctx.MeasureString(item.Value)

	var x float64
	switch item.Align {
	case receipt.AlignCenter:
		x = float64(r.width)/2 - textWidth/2
	case receipt.AlignRight:
		x = float64(r.width) - textWidth - 5
	default:
		x = 5
	}

	r.ensureHeight(int(textHeight) + 20)
	r.ctx.DrawString(item.Value, x, r.y+textHeight)
	if item.Underline {
		r.ctx.SetLineWidth(1)
		r.ctx.DrawLine(x, r.y+textHeight+2, x+textWidth, r.y+textHeight+2)
		r.ctx.Stroke()
	}

	r.y += textHeight + lineSpacing
	return nil
}

func (r *Renderer) renderLine(item *receipt.Item) error {
	char := item.Char
	if char == "" {
		char = "-"
	}

	line := strings.Repeat(char, r.chars)
	return r.renderText(&receipt.Item{Type: receipt.TypeText, Value: line})
}

// renderTable composes each row into one fixed width line, exactly as the
// byte encoder does, then draws it in the monospace face.
func (r *Renderer) renderTable(item *receipt.Item) error {
	for _, row := range item.Rows {
		widths := layout.ColumnWidths(row.Columns, r.chars)

		var line bytes.Buffer
		bold := false
		for i, col := range row.Columns {
			line.WriteString(layout.Pad(col.Text, widths[i], col.Align))
			if col.Bold {
				bold = true
			}
		}

		text := receipt.Item{Type: receipt.TypeText, Value: line.String()}
		text.Bold = bold
		if err := r.renderText(&text); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderFeed(item *receipt.Item) error {
	lines := item.Lines
	if lines == 0 {
		lines = 3
	}

	r.ensureHeight(lines * int(feedHeight))
	r.y += float64(lines) * feedHeight
	return nil
}

// renderCut draws a scissor line so the preview shows where the paper
// would separate.
func (r *Renderer) renderCut(item *receipt.Item) error {
	r.ensureHeight(30)

	y := r.y + 15
	r.ctx.SetLineWidth(1)
	for x := 10.0; x < float64(r.width)-10; x += 12 {
		r.ctx.DrawLine(x, y, x+6, y)
		r.ctx.Stroke()
	}

	r.y += 30
	return nil
}

// Package layout provides the pure text layout functions shared by the
// builder, the ESC/POS encoder, and the preview renderer.
package layout

import (
	"strconv"
	"strings"

	"github.com/posline/escpos-engine/pkg/receipt"
)

// Pad pads or truncates text to exactly width cells. Truncation keeps the
// leading characters. Padding goes trailing for left alignment, leading for
// right, and is split for center with the smaller half leading. Width is
// measured in characters; fixed width fonts are assumed.
func Pad(text string, width int, align receipt.Alignment) string {
	if width <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) >= width {
		return string(runes[:width])
	}

	padding := width - len(runes)

	switch align {
	case receipt.AlignRight:
		return strings.Repeat(" ", padding) + text
	case receipt.AlignCenter:
		leading := padding / 2
		return strings.Repeat(" ", leading) + text + strings.Repeat(" ", padding-leading)
	default:
		return text + strings.Repeat(" ", padding)
	}
}

// WordWrap breaks text into lines of at most maxWidth characters using
// greedy packing. A single word longer than maxWidth is hard split into
// maxWidth sized chunks; the final partial chunk starts the next line.
// No characters are ever dropped.
func WordWrap(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	var lines []string
	var current string

	for _, word := range strings.Fields(text) {
		if len(word) > maxWidth {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			for len(word) > maxWidth {
				lines = append(lines, word[:maxWidth])
				word = word[maxWidth:]
			}
			current = word
			continue
		}

		if current == "" {
			current = word
		} else if len(current)+1+len(word) <= maxWidth {
			current += " " + word
		} else {
			lines = append(lines, current)
			current = word
		}
	}

	if current != "" {
		lines = append(lines, current)
	}

	return lines
}

// ColumnWidths distributes totalWidth over the columns of a table row.
// Explicit widths ("12") and percentages ("60%", floored) are consumed
// first; the remaining width is split evenly among columns with no width.
// The division remainder is dropped, so the returned widths may sum to
// less than totalWidth. Fixed widths exceeding totalWidth are not clamped;
// the caller owns sane width configuration.
func ColumnWidths(columns []receipt.TableColumn, totalWidth int) []int {
	widths := make([]int, len(columns))
	remaining := totalWidth
	var flex []int

	for i, col := range columns {
		switch {
		case col.Width == "":
			flex = append(flex, i)
		case strings.HasSuffix(col.Width, "%"):
			pct, err := strconv.Atoi(strings.TrimSuffix(col.Width, "%"))
			if err != nil || pct < 0 {
				flex = append(flex, i)
				continue
			}
			w := totalWidth * pct / 100
			widths[i] = w
			remaining -= w
		default:
			w, err := strconv.Atoi(col.Width)
			if err != nil || w < 0 {
				flex = append(flex, i)
				continue
			}
			widths[i] = w
			remaining -= w
		}
	}

	if len(flex) > 0 && remaining > 0 {
		each := remaining / len(flex)
		for _, i := range flex {
			widths[i] = each
		}
	}

	return widths
}

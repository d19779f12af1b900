package receipt

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate validates a Document structure
func Validate(d *Document) error {
	if d.Version == "" {
		return fmt.Errorf("version is required")
	}
	if d.Version != Version {
		return fmt.Errorf("unsupported version: %s (expected %s)", d.Version, Version)
	}

	if d.PaperWidth != "" {
		if d.PaperWidth != Paper58mm && d.PaperWidth != Paper80mm {
			return fmt.Errorf("invalid paper_width: %s (must be 58mm or 80mm)", d.PaperWidth)
		}
	}

	if d.CharsPerLine < 0 {
		return fmt.Errorf("chars_per_line must not be negative")
	}

	if d.Currency != nil {
		if err := validateCurrency(d.Currency); err != nil {
			return err
		}
	}

	for i, v := range d.Variables {
		if v.Name == "" {
			return fmt.Errorf("variable[%d]: name is required", i)
		}
	}

	if len(d.Items) == 0 {
		return fmt.Errorf("at least one item is required")
	}

	for i, item := range d.Items {
		if err := validateItem(&item); err != nil {
			return fmt.Errorf("item[%d]: %w", i, err)
		}
	}

	return nil
}

func validateCurrency(f *CurrencyFormat) error {
	if f.Position != "" && f.Position != "before" && f.Position != "after" {
		return fmt.Errorf("invalid currency position '%s' (must be before or after)", f.Position)
	}
	if f.Decimals < 0 {
		return fmt.Errorf("currency decimals must not be negative")
	}
	return nil
}

func validateItem(item *Item) error {
	if item.Type == "" {
		return fmt.Errorf("item type is required")
	}

	if err := validateAlign(item.Align); err != nil {
		return err
	}

	switch item.Type {
	case TypeText:
		return validateTextItem(item)
	case TypeLine:
		if len(item.Char) > 1 {
			return fmt.Errorf("line char must be a single character")
		}
		return nil
	case TypeTable:
		return validateTableItem(item)
	case TypeFeed:
		if item.Lines < 0 {
			return fmt.Errorf("feed lines must not be negative")
		}
		return nil
	case TypeCut:
		return nil
	case TypeBarcode:
		return validateBarcodeItem(item)
	case TypeQRCode:
		return validateQRCodeItem(item)
	case TypeImage:
		if item.Source == "" {
			return fmt.Errorf("image item requires source")
		}
		return nil
	default:
		return fmt.Errorf("unknown item type: %s", item.Type)
	}
}

func validateAlign(align Alignment) error {
	switch align {
	case "", AlignLeft, AlignCenter, AlignRight:
		return nil
	default:
		return fmt.Errorf("invalid align '%s' (must be left, center, or right)", align)
	}
}

func validateTextItem(item *Item) error {
	if item.Value == "" {
		return fmt.Errorf("text item requires value")
	}

	switch item.Size {
	case "", SizeNormal, SizeDoubleHeight, SizeDoubleWidth, SizeDouble:
	default:
		return fmt.Errorf("invalid size '%s'", item.Size)
	}

	return nil
}

func validateTableItem(item *Item) error {
	if len(item.Rows) == 0 {
		return fmt.Errorf("table item requires at least one row")
	}

	for i, row := range item.Rows {
		if len(row.Columns) == 0 {
			return fmt.Errorf("row[%d]: at least one column is required", i)
		}
		for j, col := range row.Columns {
			if err := validateAlign(col.Align); err != nil {
				return fmt.Errorf("row[%d] column[%d]: %w", i, j, err)
			}
			if err := validateColumnWidth(col.Width); err != nil {
				return fmt.Errorf("row[%d] column[%d]: %w", i, j, err)
			}
		}
	}

	return nil
}

// validateColumnWidth accepts "", an absolute count like "12", or a
// percentage like "60%".
func validateColumnWidth(width string) error {
	if width == "" {
		return nil
	}

	numeric := width
	if strings.HasSuffix(width, "%") {
		numeric = strings.TrimSuffix(width, "%")
	}

	n, err := strconv.Atoi(numeric)
	if err != nil {
		return fmt.Errorf("invalid width '%s'", width)
	}
	if n < 0 {
		return fmt.Errorf("width must not be negative")
	}

	return nil
}

func validateBarcodeItem(item *Item) error {
	if item.Value == "" {
		return fmt.Errorf("barcode item requires value")
	}

	switch item.Symbology {
	case "", SymbologyUPCA, SymbologyUPCE, SymbologyEAN13, SymbologyEAN8,
		SymbologyCODE39, SymbologyITF, SymbologyCODABAR, SymbologyCODE93,
		SymbologyCODE128:
	default:
		return fmt.Errorf("invalid barcode symbology '%s'", item.Symbology)
	}

	switch item.TextPosition {
	case "", TextNone, TextAbove, TextBelow, TextBoth:
	default:
		return fmt.Errorf("invalid text_position '%s' (must be none, above, below, or both)", item.TextPosition)
	}

	return nil
}

func validateQRCodeItem(item *Item) error {
	if item.Value == "" {
		return fmt.Errorf("qrcode item requires value")
	}

	switch item.ErrorCorrection {
	case "", ECLow, ECMedium, ECQuartile, ECHigh:
	default:
		return fmt.Errorf("invalid error_correction '%s' (must be L, M, Q, or H)", item.ErrorCorrection)
	}

	return nil
}

package preview

import (
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/codabar"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/code93"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/twooffive"
	"github.com/skip2/go-qrcode"

	"github.com/posline/escpos-engine/pkg/receipt"
)

func generateBarcode(symbology receipt.Symbology, value string) (barcode.Barcode, error) {
	switch symbology {
	case receipt.SymbologyCODE39:
		return code39.Encode(value, false, false)
	case receipt.SymbologyCODE93:
		return code93.Encode(value, false, false)
	case receipt.SymbologyCODABAR:
		return codabar.Encode(value)
	case receipt.SymbologyITF:
		return twooffive.Encode(value, true)
	case receipt.SymbologyEAN8, receipt.SymbologyEAN13, receipt.SymbologyUPCA, receipt.SymbologyUPCE:
		return ean.Encode(value)
	default:
		return code128.Encode(value)
	}
}

func (r *Renderer) renderBarcode(item *receipt.Item) error {
	if item.Value == "" {
		return nil
	}

	height := item.Height
	if height == 0 {
		height = 80
	}

	img, err := generateBarcode(item.Symbology, item.Value)
	if err != nil {
		return err
	}

	targetWidth := r.width - 40
	img, err = barcode.Scale(img, targetWidth, height)
	if err != nil {
		return err
	}

	imgHeight := img.Bounds().Dy()
	r.ensureHeight(imgHeight + 20)

	x := (r.width - img.Bounds().Dx()) / 2
	r.ctx.DrawImage(img, x, int(r.y))
	r.y += float64(imgHeight) + 10

	if item.TextPosition == "" || item.TextPosition == receipt.TextBelow || item.TextPosition == receipt.TextBoth {
		label := receipt.Item{Type: receipt.TypeText, Value: item.Value}
		label.Align = receipt.AlignCenter
		return r.renderText(&label)
	}
	return nil
}

func (r *Renderer) renderQRCode(item *receipt.Item) error {
	if item.Value == "" {
		return nil
	}

	level := qrcode.Medium
	switch item.ErrorCorrection {
	case receipt.ECLow:
		level = qrcode.Low
	case receipt.ECQuartile:
		level = qrcode.High
	case receipt.ECHigh:
		level = qrcode.Highest
	}

	qr, err := qrcode.New(item.Value, level)
	if err != nil {
		return err
	}

	// Scale the module size to pixels, capped to the printable width
	size := item.QRSize
	if size == 0 {
		size = 6
	}
	qrSize := size * 48
	if qrSize > r.width-100 {
		qrSize = r.width - 100
	}

	img := qr.Image(qrSize)

	imgHeight := img.Bounds().Dy()
	r.ensureHeight(imgHeight + 20)

	x := (r.width - img.Bounds().Dx()) / 2
	r.ctx.DrawImage(img, x, int(r.y))
	r.y += float64(imgHeight) + 10

	return nil
}

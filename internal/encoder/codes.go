package encoder

import "github.com/posline/escpos-engine/pkg/receipt"

// maxBarcodeData keeps the value inside the single length byte of the
// GS k function B frame; CODE128 loses two more bytes to its character
// set selector.
const maxBarcodeData = 255

// barcode emits the full sub-protocol for one 1D barcode: alignment,
// height, module width, readable text position, then the symbology
// specific frame. Unknown symbologies fall back to CODE128.
func (e *encoder) barcode(item *receipt.Item) {
	if item.Align != "" {
		e.buf.Write(alignCommand(item.Align))
	}

	height := item.Height
	if height == 0 {
		height = defaultBarHeight
	}
	e.buf.Write(cmdBarcodeHeight)
	e.buf.WriteByte(byte(clamp(height, 1, 255)))

	e.buf.Write(cmdBarcodeWidth)
	e.buf.WriteByte(byte(clamp(item.Width, 2, 6)))

	position, ok := hriCodes[item.TextPosition]
	if !ok {
		position = hriCodes[receipt.TextBelow]
	}
	e.buf.Write(cmdBarcodeHRI)
	e.buf.WriteByte(position)

	code, ok := symbologyCodes[item.Symbology]
	if !ok {
		code = symbologyCode128
	}

	data := []byte(item.Value)

	e.buf.Write(cmdBarcodePrint)
	e.buf.WriteByte(code)
	if code == symbologyCode128 {
		// CODE128 carries a character set selector ahead of the data
		if len(data) > maxBarcodeData-2 {
			data = data[:maxBarcodeData-2]
		}
		e.buf.WriteByte(byte(len(data) + 2))
		e.buf.WriteByte('{')
		e.buf.WriteByte('B')
	} else {
		if len(data) > maxBarcodeData {
			data = data[:maxBarcodeData]
		}
		e.buf.WriteByte(byte(len(data)))
	}
	e.buf.Write(data)

	e.buf.WriteByte(LF)
	e.buf.Write(cmdAlignLeft)
}

// qrcode emits the GS ( k sub-protocol for one QR symbol: model
// selection, module size, error correction, data store and print.
func (e *encoder) qrcode(item *receipt.Item) {
	if item.Align != "" {
		e.buf.Write(alignCommand(item.Align))
	}

	e.buf.Write(cmdQRModel)

	size := item.QRSize
	if size == 0 {
		size = 6
	}
	e.buf.Write(cmdQRSize)
	e.buf.WriteByte(byte(clamp(size, 1, 16)))

	level, ok := qrLevelCodes[item.ErrorCorrection]
	if !ok {
		level = qrLevelCodes[receipt.ECMedium]
	}
	e.buf.Write(cmdQRLevel)
	e.buf.WriteByte(level)

	data := []byte(item.Value)
	storeLen := len(data) + 3
	e.buf.Write(cmdQRStore)
	e.buf.WriteByte(byte(storeLen & 0xFF))
	e.buf.WriteByte(byte(storeLen >> 8))
	e.buf.WriteByte(0x31)
	e.buf.WriteByte(0x50)
	e.buf.WriteByte(0x30)
	e.buf.Write(data)

	e.buf.Write(cmdQRPrint)

	e.buf.WriteByte(LF)
	e.buf.Write(cmdAlignLeft)
}

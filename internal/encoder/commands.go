package encoder

import "github.com/posline/escpos-engine/pkg/receipt"

// ESC/POS control bytes
const (
	ESC byte = 0x1B
	GS  byte = 0x1D
	LF  byte = 0x0A
)

// Command byte sequences. Process-wide immutable data; never mutated
// after initialization.
var (
	cmdInitialize = []byte{ESC, '@'}

	cmdAlignLeft   = []byte{ESC, 'a', 0x00}
	cmdAlignCenter = []byte{ESC, 'a', 0x01}
	cmdAlignRight  = []byte{ESC, 'a', 0x02}

	cmdBoldOn       = []byte{ESC, 'E', 0x01}
	cmdBoldOff      = []byte{ESC, 'E', 0x00}
	cmdUnderlineOn  = []byte{ESC, '-', 0x01}
	cmdUnderlineOff = []byte{ESC, '-', 0x00}
	cmdInvertOn     = []byte{GS, 'B', 0x01}
	cmdInvertOff    = []byte{GS, 'B', 0x00}

	cmdSizeNormal       = []byte{ESC, '!', 0x00}
	cmdSizeDoubleHeight = []byte{ESC, '!', 0x10}
	cmdSizeDoubleWidth  = []byte{ESC, '!', 0x20}
	cmdSizeDouble       = []byte{ESC, '!', 0x30}

	cmdFeedLines = []byte{ESC, 'd'} // + line count byte

	cmdCutFull = []byte{GS, 'V', 0x00}
	// Feed-and-cut function B; the canonical partial cut used throughout
	cmdCutPartial = []byte{GS, 'V', 'B', 0x00}

	cmdBarcodeHeight = []byte{GS, 'h'} // + height byte
	cmdBarcodeWidth  = []byte{GS, 'w'} // + module width byte
	cmdBarcodeHRI    = []byte{GS, 'H'} // + position byte
	cmdBarcodePrint  = []byte{GS, 'k'} // + symbology, length, data

	cmdQRModel = []byte{GS, '(', 'k', 0x04, 0x00, 0x31, 0x41, 0x02, 0x00}
	cmdQRSize  = []byte{GS, '(', 'k', 0x03, 0x00, 0x31, 0x43} // + size byte
	cmdQRLevel = []byte{GS, '(', 'k', 0x03, 0x00, 0x31, 0x45} // + level byte
	cmdQRStore = []byte{GS, '(', 'k'}                         // + pL pH 31 50 30, data
	cmdQRPrint = []byte{GS, '(', 'k', 0x03, 0x00, 0x31, 0x51, 0x30}
)

// symbologyCode is the GS k function B code for CODE128; unknown
// symbologies fall back to it.
const symbologyCode128 byte = 73

// symbologyCodes maps the nine supported symbologies to their GS k
// function B codes.
var symbologyCodes = map[receipt.Symbology]byte{
	receipt.SymbologyUPCA:    65,
	receipt.SymbologyUPCE:    66,
	receipt.SymbologyEAN13:   67,
	receipt.SymbologyEAN8:    68,
	receipt.SymbologyCODE39:  69,
	receipt.SymbologyITF:     70,
	receipt.SymbologyCODABAR: 71,
	receipt.SymbologyCODE93:  72,
	receipt.SymbologyCODE128: symbologyCode128,
}

// hriCodes maps readable text positions to GS H parameter bytes
var hriCodes = map[receipt.TextPosition]byte{
	receipt.TextNone:  0x00,
	receipt.TextAbove: 0x01,
	receipt.TextBelow: 0x02,
	receipt.TextBoth:  0x03,
}

// qrLevelCodes maps error correction levels to their parameter bytes
var qrLevelCodes = map[receipt.ErrorCorrection]byte{
	receipt.ECLow:      0x30,
	receipt.ECMedium:   0x31,
	receipt.ECQuartile: 0x32,
	receipt.ECHigh:     0x33,
}

// alignCommand returns the alignment command for an alignment value,
// defaulting to left.
func alignCommand(align receipt.Alignment) []byte {
	switch align {
	case receipt.AlignCenter:
		return cmdAlignCenter
	case receipt.AlignRight:
		return cmdAlignRight
	default:
		return cmdAlignLeft
	}
}

// sizeCommand returns the size command for a non-normal text size, or
// nil when the size needs no command.
func sizeCommand(size receipt.TextSize) []byte {
	switch size {
	case receipt.SizeDoubleHeight:
		return cmdSizeDoubleHeight
	case receipt.SizeDoubleWidth:
		return cmdSizeDoubleWidth
	case receipt.SizeDouble:
		return cmdSizeDouble
	default:
		return nil
	}
}

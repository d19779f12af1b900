package printer

import (
	"bytes"
	"image"
)

// Rasterize converts a rendered receipt image into an ESC/POS bit-image
// payload, for printing graphics the text protocol cannot express. The
// payload is self-contained: it initializes the printer, prints the
// image, feeds, and cuts.
func Rasterize(img image.Image) []byte {
	var buf bytes.Buffer

	buf.Write([]byte{0x1B, '@'})

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	bytesPerLine := (width + 7) / 8

	bitmap := toBitmap(img)

	// ESC * in 24-dot double-density mode, one stripe per scanline
	for y := 0; y < height; y++ {
		buf.Write([]byte{0x1B, '*', 33})
		buf.WriteByte(byte(bytesPerLine & 0xFF))
		buf.WriteByte(byte(bytesPerLine >> 8))
		buf.Write(bitmap[y*bytesPerLine : (y+1)*bytesPerLine])
		buf.WriteByte(0x0A)
	}

	buf.Write([]byte{0x1B, 'd', 3})
	buf.Write([]byte{0x1D, 'V', 0x00})

	return buf.Bytes()
}

// toBitmap packs the image into a 1-bit bitmap, thresholding at 50%
// luminance. Set bits print black.
func toBitmap(img image.Image) []byte {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	bytesPerLine := (width + 7) / 8
	bitmap := make([]byte, bytesPerLine*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			gray := (r + g + b) / 3

			if gray < 0x8000 {
				bitmap[y*bytesPerLine+x/8] |= 1 << (7 - x%8)
			}
		}
	}

	return bitmap
}

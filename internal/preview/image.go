package preview

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/posline/escpos-engine/pkg/receipt"
)

const bwThreshold = 128

// renderImage draws a logo or picture, resized to the printable width and
// reduced to black and white the way a thermal head prints it. The source
// is either a file path or a base64 data URI.
func (r *Renderer) renderImage(item *receipt.Item) error {
	img, err := loadImage(item.Source)
	if err != nil {
		return err
	}
	if img == nil {
		return nil
	}

	if img.Bounds().Dx() != r.width {
		img = imaging.Resize(img, r.width, 0, imaging.Lanczos)
	}

	bw := toBlackWhite(img, bwThreshold)

	imgHeight := bw.Bounds().Dy()
	r.ensureHeight(imgHeight + 10)

	r.ctx.DrawImage(bw, 0, int(r.y))
	r.y += float64(imgHeight) + 10

	return nil
}

func loadImage(source string) (image.Image, error) {
	if source == "" {
		return nil, nil
	}

	if strings.HasPrefix(source, "data:") {
		idx := strings.IndexByte(source, ',')
		if idx < 0 {
			return nil, nil
		}
		data, err := base64.StdEncoding.DecodeString(source[idx+1:])
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		return img, err
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	return img, err
}

func toBlackWhite(img image.Image, threshold uint8) image.Image {
	bounds := img.Bounds()
	bw := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			gray := uint8((cr + cg + cb) / 3 / 256)

			if gray < threshold {
				bw.SetGray(x, y, color.Gray{Y: 0})
			} else {
				bw.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return bw
}

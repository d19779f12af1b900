// Package preview rasterizes a content sequence into a PNG-ready image,
// approximating what a thermal printer would produce.
package preview

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/posline/escpos-engine/pkg/receipt"
)

const (
	initialHeight = 1000
	bottomMargin  = 50
)

// Renderer draws items onto a growable canvas at the paper's dot width.
type Renderer struct {
	paper  receipt.PaperWidth
	width  int
	chars  int
	height int
	ctx    *gg.Context
	y      float64
}

// New creates a renderer sized for the given paper width.
func New(paper receipt.PaperWidth) *Renderer {
	return NewWidth(paper, 0)
}

// NewWidth is New with an explicit chars-per-line override; zero or
// negative derives the count from the paper width.
func NewWidth(paper receipt.PaperWidth, chars int) *Renderer {
	if chars <= 0 {
		chars = paper.CharsPerLine()
	}
	width := paper.DotWidth()

	ctx := gg.NewContext(width, initialHeight)
	ctx.SetColor(color.White)
	ctx.Clear()
	ctx.SetColor(color.Black)

	return &Renderer{
		paper:  paper,
		width:  width,
		chars:  chars,
		height: initialHeight,
		ctx:    ctx,
	}
}

// Render rasterizes a complete document.
func Render(doc *receipt.Document) (image.Image, error) {
	return RenderItemsWidth(doc.Items, doc.PaperWidth, doc.CharsPerLine)
}

// RenderItems rasterizes a content sequence for the given paper width.
func RenderItems(items []receipt.Item, paper receipt.PaperWidth) (image.Image, error) {
	return RenderItemsWidth(items, paper, 0)
}

// RenderItemsWidth is RenderItems with an explicit chars-per-line
// override applied to line and table composition.
func RenderItemsWidth(items []receipt.Item, paper receipt.PaperWidth, chars int) (image.Image, error) {
	r := NewWidth(paper, chars)
	for i := range items {
		if err := r.renderItem(&items[i]); err != nil {
			return nil, fmt.Errorf("failed to render %s item: %w", items[i].Type, err)
		}
	}
	return r.cropToContent(), nil
}

func (r *Renderer) renderItem(item *receipt.Item) error {
	switch item.Type {
	case receipt.TypeText:
		return r.renderText(item)
	case receipt.TypeLine:
		return r.renderLine(item)
	case receipt.TypeTable:
		return r.renderTable(item)
	case receipt.TypeFeed:
		return r.renderFeed(item)
	case receipt.TypeCut:
		return r.renderCut(item)
	case receipt.TypeBarcode:
		return r.renderBarcode(item)
	case receipt.TypeQRCode:
		return r.renderQRCode(item)
	case receipt.TypeImage:
		return r.renderImage(item)
	default:
		// Unknown tags render to nothing, matching the encoder
		return nil
	}
}

// cropToContent trims the canvas to the used height plus a small margin
func (r *Renderer) cropToContent() image.Image {
	finalHeight := int(r.y) + bottomMargin
	if finalHeight > r.height {
		finalHeight = r.height
	}

	img := r.ctx.Image()
	return img.(interface {
		SubImage(r image.Rectangle) image.Image
	}).SubImage(image.Rect(0, 0, r.width, finalHeight))
}

// ensureHeight grows the canvas when the next element would overflow it
func (r *Renderer) ensureHeight(needed int) {
	if int(r.y)+needed <= r.height {
		return
	}

	newHeight := r.height * 2
	if newHeight < int(r.y)+needed {
		newHeight = int(r.y) + needed + initialHeight
	}

	newCtx := gg.NewContext(r.width, newHeight)
	newCtx.SetColor(color.White)
	newCtx.Clear()
	newCtx.DrawImage(r.ctx.Image(), 0, 0)
	newCtx.SetColor(color.Black)

	r.ctx = newCtx
	r.height = newHeight
}

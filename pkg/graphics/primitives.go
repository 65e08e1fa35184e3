package graphics

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// FillRect fills an axis-aligned rectangle.
func FillRect(dst *ebiten.Image, x, y, w, h float64, clr color.Color) {
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), clr, false)
}

// StrokeRect outlines an axis-aligned rectangle.
func StrokeRect(dst *ebiten.Image, x, y, w, h, width float64, clr color.Color) {
	vector.StrokeRect(dst, float32(x), float32(y), float32(w), float32(h), float32(width), clr, false)
}

// DrawCover scales an image to fill a w by h viewport, preserving aspect
// ratio and cropping the overflow. yOffset shifts the result vertically,
// which the background bob uses.
func DrawCover(dst *ebiten.Image, img *ebiten.Image, w, h, yOffset float64) {
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	scale := w / iw
	if s := h / ih; s > scale {
		scale = s
	}
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((w-iw*scale)/2, (h-ih*scale)/2+yOffset)
	dst.DrawImage(img, op)
}

// DrawContain scales an image to fit inside a w by h viewport, preserving
// aspect ratio and centering the result.
func DrawContain(dst *ebiten.Image, img *ebiten.Image, w, h float64) {
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	scale := w / iw
	if s := h / ih; s < scale {
		scale = s
	}
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((w-iw*scale)/2, (h-ih*scale)/2)
	dst.DrawImage(img, op)
}

package app

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/cpyvn/cpyvn/pkg/runtime"
)

// imageSurface adapts an ebiten image to the runtime's Surface handle.
type imageSurface struct {
	img *ebiten.Image
}

func (s *imageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// ebitenImage unwraps a surface produced by this package. Surfaces from
// other managers (test fakes) unwrap to nil and are skipped by the
// renderer.
func ebitenImage(s runtime.Surface) *ebiten.Image {
	if is, ok := s.(*imageSurface); ok {
		return is.img
	}
	return nil
}

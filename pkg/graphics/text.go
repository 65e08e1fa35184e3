package graphics

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce   sync.Once
	regularSrc *text.GoTextFaceSource
	boldSrc    *text.GoTextFaceSource

	faceMu    sync.Mutex
	faceCache = map[faceKey]*text.GoTextFace{}
)

type faceKey struct {
	bold bool
	size int
}

func loadFonts() {
	var err error
	regularSrc, err = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic(fmt.Sprintf("load bundled font: %v", err))
	}
	boldSrc, err = text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		panic(fmt.Sprintf("load bundled bold font: %v", err))
	}
}

// Face returns the regular face at the given pixel size. Faces are
// cached; callers must not mutate the result.
func Face(size int) *text.GoTextFace {
	return cachedFace(false, size)
}

// BoldFace returns the bold face at the given pixel size.
func BoldFace(size int) *text.GoTextFace {
	return cachedFace(true, size)
}

func cachedFace(bold bool, size int) *text.GoTextFace {
	fontOnce.Do(loadFonts)
	if size <= 0 {
		size = 12
	}
	key := faceKey{bold: bold, size: size}

	faceMu.Lock()
	defer faceMu.Unlock()
	if f, ok := faceCache[key]; ok {
		return f
	}
	src := regularSrc
	if bold {
		src = boldSrc
	}
	f := &text.GoTextFace{Source: src, Size: float64(size)}
	faceCache[key] = f
	return f
}

// DrawText draws a string with its top-left corner at (x, y).
func DrawText(dst *ebiten.Image, s string, f *text.GoTextFace, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, f, op)
}

// DrawTextCentered draws a string horizontally centered on cx.
func DrawTextCentered(dst *ebiten.Image, s string, f *text.GoTextFace, cx, y float64, clr color.Color) {
	DrawText(dst, s, f, cx-text.Advance(s, f)/2, y, clr)
}

// WrapText greedily packs words into lines no wider than maxW. A single
// word wider than the line wraps at rune granularity. Newlines in the
// input force line breaks.
func WrapText(s string, f *text.GoTextFace, maxW float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if text.Advance(candidate, f) <= maxW || current == "" {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = word
		}
		for current != "" && text.Advance(current, f) > maxW {
			cut := fitPrefix(current, f, maxW)
			if cut == "" {
				break
			}
			lines = append(lines, cut)
			current = current[len(cut):]
		}
		lines = append(lines, current)
	}
	return lines
}

// fitPrefix returns the longest rune prefix of s that fits in maxW,
// never less than one rune.
func fitPrefix(s string, f *text.GoTextFace, maxW float64) string {
	runes := []rune(s)
	for i := len(runes); i > 1; i-- {
		prefix := string(runes[:i])
		if text.Advance(prefix, f) <= maxW {
			return prefix
		}
	}
	if len(runes) > 0 {
		return string(runes[:1])
	}
	return ""
}

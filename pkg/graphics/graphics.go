// Package graphics provides the drawing helpers shared by the renderer:
// hex color parsing, bundled text faces, word wrapping and primitive
// fills. Everything draws straight onto ebiten images; no state is kept
// beyond the font caches.
package graphics

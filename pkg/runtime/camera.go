package runtime

import "github.com/cpyvn/cpyvn/pkg/script"

// Camera returns the active world-to-screen transform.
func (r *Runtime) Camera() Camera { return r.camera }

// WorldToScreen applies the forward camera transform.
func (c Camera) WorldToScreen(x, y float64) (float64, float64) {
	z := c.zoomOrIdentity()
	return (x - c.PanX) * z, (y - c.PanY) * z
}

// ScreenToWorld applies the inverse transform, matching WorldToScreen
// exactly so hit testing agrees with rendering.
func (c Camera) ScreenToWorld(x, y float64) (float64, float64) {
	z := c.zoomOrIdentity()
	return x/z + c.PanX, y/z + c.PanY
}

func (c Camera) zoomOrIdentity() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// hitHotspot transforms a screen click into world space and returns the
// first hotspot containing it, in insertion order.
func (r *Runtime) hitHotspot(screenX, screenY float64) *Hotspot {
	wx, wy := r.camera.ScreenToWorld(screenX, screenY)
	for i := range r.hotspots {
		hs := &r.hotspots[i]
		if hs.Rect != nil && pointInRect(wx, wy, *hs.Rect) {
			return hs
		}
		if len(hs.Points) >= 3 && pointInPolygon(wx, wy, hs.Points) {
			return hs
		}
	}
	return nil
}

func pointInRect(x, y float64, rect script.Rect) bool {
	return x >= rect.X && x <= rect.X+rect.W && y >= rect.Y && y <= rect.Y+rect.H
}

// pointInPolygon is the even-odd ray cast over the polygon edges.
func pointInPolygon(x, y float64, pts []script.Point) bool {
	inside := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		pi, pj := pts[i], pts[j]
		if (pi.Y > y) == (pj.Y > y) {
			continue
		}
		crossX := (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y) + pi.X
		if x < crossX {
			inside = !inside
		}
	}
	return inside
}

// putHotspot replaces a same-named hotspot in place, keeping its
// insertion slot, or appends a new one.
func (r *Runtime) putHotspot(hs Hotspot) {
	for i := range r.hotspots {
		if r.hotspots[i].Name == hs.Name {
			r.hotspots[i] = hs
			return
		}
	}
	r.hotspots = append(r.hotspots, hs)
}

// removeHotspot removes one hotspot by name, or all of them when name is
// empty.
func (r *Runtime) removeHotspot(name string) {
	if name == "" {
		r.hotspots = nil
		return
	}
	for i := range r.hotspots {
		if r.hotspots[i].Name == name {
			r.hotspots = append(r.hotspots[:i], r.hotspots[i+1:]...)
			return
		}
	}
}

// Hotspots returns the live hotspots in insertion order.
func (r *Runtime) Hotspots() []Hotspot { return r.hotspots }

// HotspotDebugEnabled reports whether hotspot outlines should draw.
func (r *Runtime) HotspotDebugEnabled() bool { return r.hotspotDbg }

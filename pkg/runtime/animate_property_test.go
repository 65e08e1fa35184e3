package runtime

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_EasingCurves(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genEase := gen.OneConstOf("in", "out", "inout", "linear", "wobble", "")

	properties.Property("every curve stays inside the unit interval", prop.ForAll(
		func(kind string, at float64) bool {
			v := easeValue(kind, at)
			return v >= 0 && v <= 1
		},
		genEase,
		gen.Float64Range(-3, 4),
	))

	properties.Property("every curve is monotone", prop.ForAll(
		func(kind string, a, b float64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			return easeValue(kind, lo) <= easeValue(kind, hi)
		},
		genEase,
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
	))

	properties.Property("every curve hits both endpoints exactly", prop.ForAll(
		func(kind string) bool {
			return easeValue(kind, 0) == 0 && easeValue(kind, 1) == 1
		},
		genEase,
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_MoveTracksStayInSegment(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("an eased move never leaves the segment box and lands exactly", prop.ForAll(
		func(fx, fy, tx, ty int, ease string, mid int) bool {
			src := fmt.Sprintf(`
				show image spr "ui/spr.png" pos %d %d;
				animate spr move %d %d 1 %s;
				wait 60;
			`, fx, fy, tx, ty, ease)
			rt, _ := newTestRuntime(t, src)
			mustStep(t, rt, 0)

			mustStep(t, rt, float64(mid))
			sp := rt.SpriteByName("spr")
			if sp == nil {
				return false
			}
			minX, maxX := float64(fx), float64(tx)
			if minX > maxX {
				minX, maxX = maxX, minX
			}
			minY, maxY := float64(fy), float64(ty)
			if minY > maxY {
				minY, maxY = maxY, minY
			}
			const slack = 1e-9
			if sp.Pos.X < minX-slack || sp.Pos.X > maxX+slack {
				return false
			}
			if sp.Pos.Y < minY-slack || sp.Pos.Y > maxY+slack {
				return false
			}

			mustStep(t, rt, 1500)
			return sp.Pos.X == float64(tx) && sp.Pos.Y == float64(ty) && rt.ActiveTracks() == 0
		},
		gen.IntRange(-2000, 2000),
		gen.IntRange(-2000, 2000),
		gen.IntRange(-2000, 2000),
		gen.IntRange(-2000, 2000),
		gen.OneConstOf("in", "out", "inout", "linear"),
		gen.IntRange(1, 999),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_InstantTracksSnap(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("a non-positive duration applies the target immediately", prop.ForAll(
		func(tx, ty int, seconds float64) bool {
			rt, _ := newTestRuntime(t, `
				show image spr "ui/spr.png" pos 0 0;
				wait 60;
			`)
			mustStep(t, rt, 0)
			rt.startTrack("spr", "move", [2]float64{0, 0}, [2]float64{float64(tx), float64(ty)}, seconds, "linear", false)
			sp := rt.SpriteByName("spr")
			if sp == nil {
				return false
			}
			return sp.Pos.X == float64(tx) && sp.Pos.Y == float64(ty) && rt.ActiveTracks() == 0
		},
		gen.IntRange(-2000, 2000),
		gen.IntRange(-2000, 2000),
		gen.Float64Range(-2, 0),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

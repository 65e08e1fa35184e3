package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cpyvn/cpyvn/pkg/script"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genVarValue() gopter.Gen {
	return gen.OneGenOf(
		gen.Float64Range(-1e6, 1e6).Map(script.NumberValue),
		gen.AnyString().Map(script.StringValue),
		gen.Bool().Map(script.BoolValue),
	)
}

func TestProperty_VariablesSurviveSaveLoad(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("a load restores exactly the saved variables", prop.ForAll(
		func(names []string, vals []script.Value) bool {
			rt, _ := newTestRuntime(t, `wait 60;`)
			mustStep(t, rt, 0)

			want := map[string]script.Value{}
			for i, name := range names {
				want[name] = vals[i]
				rt.SetVarValue(name, vals[i])
			}
			if err := rt.QuickSave(); err != nil {
				return false
			}

			for name := range want {
				rt.SetVarValue(name, script.StringValue("wrecked"))
			}
			rt.SetVarValue("zz_extra", script.BoolValue(true))

			if !rt.QuickLoad() {
				return false
			}
			for name, v := range want {
				got, ok := rt.VarValue(name)
				if !ok || got.Kind != v.Kind || !got.Equal(v) {
					return false
				}
			}
			_, ok := rt.VarValue("zz_extra")
			return !ok
		},
		gen.SliceOfN(4, gen.Identifier()),
		gen.SliceOfN(4, genVarValue()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_SlotPathsStayInSavesDir(t *testing.T) {
	rt, _ := newTestRuntime(t, `wait 60;`)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("every slot name maps to a file inside the saves directory", prop.ForAll(
		func(name string) bool {
			return filepath.Dir(rt.slotPath(name)) == rt.savesDir()
		},
		gen.OneGenOf(
			gen.AnyString(),
			gen.OneConstOf("", "quick", ".", "..", "/", "../../escape", "a/b/c"),
		),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_CorruptSavesAreRejected(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("junk save files load as a no-op", prop.ForAll(
		func(junk string, n float64) bool {
			rt, _ := newTestRuntime(t, `wait 60;`)
			mustStep(t, rt, 0)
			rt.SetVarValue("coins", script.NumberValue(n))

			if err := os.MkdirAll(rt.savesDir(), 0o755); err != nil {
				return false
			}
			if err := os.WriteFile(rt.quickSavePath(), []byte(junk), 0o644); err != nil {
				return false
			}
			if rt.QuickLoad() {
				return false
			}
			v, ok := rt.VarValue("coins")
			return ok && v.Num == n
		},
		gen.AnyString().SuchThat(func(s string) bool { return !strings.Contains(s, "save_version") }),
		gen.Float64Range(-1e6, 1e6),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

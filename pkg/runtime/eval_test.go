package runtime

import (
	"testing"

	"github.com/cpyvn/cpyvn/pkg/script"
)

func TestInterpolateForms(t *testing.T) {
	rt, _ := newTestRuntime(t, `narrator "x";`)
	rt.SetVarValue("name", script.StringValue("Yuki"))
	rt.SetVarValue("coins", script.NumberValue(12))

	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"hello ${name}!", "hello Yuki!"},
		{"hello $name!", "hello Yuki!"},
		{"$coins coins", "12 coins"},
		{"${coins}${name}", "12Yuki"},
		{"${missing} stays", "${missing} stays"},
		{"$missing stays", "$missing stays"},
		{"lone $ sign", "lone $ sign"},
		{"trailing $", "trailing $"},
		{"a${name}b$coins", "aYukib12"},
	}
	for _, tt := range tests {
		if got := rt.interpolate(tt.in); got != tt.want {
			t.Errorf("interpolate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInterpolationHappensAtExecutionTime(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		set coins 1;
		narrator "you have ${coins}";
		set coins 2;
		narrator "you have ${coins}";
	`)
	mustStep(t, rt, 0)
	if rt.Dialogue().Text != "you have 1" {
		t.Fatalf("first line = %q", rt.Dialogue().Text)
	}
	mustStep(t, rt, 16, ClickEvent(0, 0))
	if rt.Dialogue().Text != "you have 2" {
		t.Fatalf("second line = %q", rt.Dialogue().Text)
	}
}

func TestConditionOperators(t *testing.T) {
	rt, _ := newTestRuntime(t, `narrator "x";`)
	rt.SetVarValue("coins", script.NumberValue(10))
	rt.SetVarValue("mood", script.StringValue("happy"))
	rt.SetVarValue("seen", script.BoolValue(true))

	tests := []struct {
		name  string
		op    string
		value script.Value
		want  bool
	}{
		{"coins", "==", script.NumberValue(10), true},
		{"coins", "!=", script.NumberValue(10), false},
		{"coins", ">=", script.NumberValue(10), true},
		{"coins", ">", script.NumberValue(10), false},
		{"coins", "<", script.NumberValue(11), true},
		{"coins", "<=", script.NumberValue(9), false},
		{"coins", "==", script.StringValue("10"), true},
		{"mood", "==", script.StringValue("happy"), true},
		{"mood", "!=", script.StringValue("sad"), true},
		{"mood", ">=", script.NumberValue(10), false},
		{"seen", "==", script.BoolValue(true), true},
		{"seen", "!=", script.BoolValue(true), false},
		{"unset", "==", script.NumberValue(0), false},
	}
	for _, tt := range tests {
		c := script.IfJump{Name: tt.name, Op: tt.op, Value: tt.value, Target: "x"}
		if got := rt.evalCondition(c); got != tt.want {
			t.Errorf("%s %s %v = %v, want %v", tt.name, tt.op, tt.value, got, tt.want)
		}
	}
}

func TestConditionReadsReferencedVariableLive(t *testing.T) {
	rt, _ := newTestRuntime(t, `narrator "x";`)
	rt.SetVarValue("a", script.NumberValue(7))
	rt.SetVarValue("b", script.NumberValue(7))

	c := script.IfJump{Name: "a", Op: "==", Value: script.StringValue("$b"), Target: "x"}
	if !rt.evalCondition(c) {
		t.Error("a == $b should hold while both are 7")
	}
	rt.SetVarValue("b", script.NumberValue(8))
	if rt.evalCondition(c) {
		t.Error("a == $b should fail after b changed")
	}
}

func TestSetVarCopiesReferencedValue(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		set coins 10;
		set copy $coins;
		set literal "$nosuch";
	`)
	mustStep(t, rt, 0)

	v, ok := rt.VarValue("copy")
	if !ok || v.Kind != script.KindNumber || v.Num != 10 {
		t.Errorf("copy = %#v, want the numeric value 10", v)
	}

	// A reference to a variable that does not exist stays a literal.
	v, ok = rt.VarValue("literal")
	if !ok || v.Str != "$nosuch" {
		t.Errorf("literal = %#v, want the raw text", v)
	}
}

func TestTrackAddsAndResets(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		set courage 5;
		track courage -2;
		set mood "happy";
		track mood 3;
		track fresh 4;
	`)
	mustStep(t, rt, 0)

	if v, _ := rt.VarValue("courage"); v.Num != 3 {
		t.Errorf("courage = %v, want 3", v.Num)
	}
	// Non-numeric holders reset to the delta instead of erroring.
	if v, _ := rt.VarValue("mood"); v.Kind != script.KindNumber || v.Num != 3 {
		t.Errorf("mood = %#v, want reset to 3", v)
	}
	if v, _ := rt.VarValue("fresh"); v.Num != 4 {
		t.Errorf("fresh = %v, want 4", v.Num)
	}
}

func TestBoolAndStringCoercionInTrack(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		set seen true;
		track seen 1;
		set count "41";
		track count 1;
	`)
	mustStep(t, rt, 0)

	if v, _ := rt.VarValue("seen"); v.Num != 2 {
		t.Errorf("seen = %#v, want true + 1 = 2", v)
	}
	if v, _ := rt.VarValue("count"); v.Num != 42 {
		t.Errorf("count = %#v, want \"41\" + 1 = 42", v)
	}
}

package runtime

import (
	"strings"

	"github.com/cpyvn/cpyvn/pkg/script"
)

// interpolate substitutes ${name} and $name placeholders with the
// current variable values. Resolution happens at execution time, so
// revisiting a command re-reads the variables. Placeholders naming an
// unset variable stay literal, which keeps authoring mistakes visible.
func (r *Runtime) interpolate(s string) string {
	if !strings.ContainsRune(s, '$') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		ch := s[i]
		if ch != '$' {
			b.WriteByte(ch)
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '{' {
			if end := strings.IndexByte(s[i+2:], '}'); end >= 0 {
				name := s[i+2 : i+2+end]
				if v, ok := r.vars[name]; ok && name != "" {
					b.WriteString(v.String())
					i += end + 3
					continue
				}
			}
			b.WriteByte(ch)
			i++
			continue
		}
		j := i + 1
		for j < len(s) && isVarNameByte(s[j]) {
			j++
		}
		if j > i+1 {
			name := s[i+1 : j]
			if v, ok := r.vars[name]; ok {
				b.WriteString(v.String())
				i = j
				continue
			}
		}
		b.WriteByte(ch)
		i++
	}
	return b.String()
}

func isVarNameByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// evalCondition evaluates an IfJump comparison. A sigil-prefixed value
// reads the referenced variable live. Numeric operators require both
// sides to coerce; failure makes the comparison false rather than an
// error. == and != fall back to exact value equality.
func (r *Runtime) evalCondition(c script.IfJump) bool {
	left := r.vars[c.Name]
	right := c.Value
	if ref, ok := right.Ref(); ok {
		right = r.vars[ref]
	}

	switch c.Op {
	case "==":
		return left.Equal(right)
	case "!=":
		return !left.Equal(right)
	}

	ln, lok := left.AsNumber()
	rn, rok := right.AsNumber()
	if !lok || !rok {
		return false
	}
	switch c.Op {
	case ">":
		return ln > rn
	case ">=":
		return ln >= rn
	case "<":
		return ln < rn
	case "<=":
		return ln <= rn
	}
	return false
}

// VarValue returns the current value of a variable.
func (r *Runtime) VarValue(name string) (script.Value, bool) {
	v, ok := r.vars[name]
	return v, ok
}

// SetVarValue stores a variable directly. The app uses it for debug
// tooling; scripts go through the SetVar command.
func (r *Runtime) SetVarValue(name string, v script.Value) {
	r.vars[name] = v
}

func (r *Runtime) setStringVar(name, text string) {
	r.vars[name] = script.StringValue(text)
}

package script

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind discriminates the scalar types a script variable can hold.
type ValueKind uint8

const (
	KindInvalid ValueKind = iota
	KindNumber
	KindString
	KindBool
)

// Value is a script scalar: number, string or bool. The zero Value is
// invalid and marshals as JSON null.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	B    bool
}

// NumberValue returns a numeric Value.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, B: b} }

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.B)
	}
	return ""
}

// AsNumber coerces the value to a float64. Strings parse with
// strconv.ParseFloat; bools coerce to 1 or 0. The bool result reports
// whether coercion succeeded.
func (v Value) AsNumber() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case KindBool:
		if v.B {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Equal reports value equality. Values of different kinds are equal only
// when both coerce to the same number.
func (v Value) Equal(o Value) bool {
	if v.Kind == o.Kind {
		switch v.Kind {
		case KindNumber:
			return v.Num == o.Num
		case KindString:
			return v.Str == o.Str
		case KindBool:
			return v.B == o.B
		}
		return false
	}
	a, aok := v.AsNumber()
	b, bok := o.AsNumber()
	return aok && bok && a == b
}

// Ref returns the referenced variable name when the value is a string of
// the form "$name" or "${name}" in its entirety.
func (v Value) Ref() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	s := v.Str
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") && len(s) > 3 {
		return s[2 : len(s)-1], true
	}
	if strings.HasPrefix(s, "$") && len(s) > 1 && !strings.ContainsAny(s[1:], " \t${}") {
		return s[1:], true
	}
	return "", false
}

// MarshalJSON writes the native JSON form: numbers as numbers (integral
// values without a fraction), strings as strings, bools as bools.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		if v.Num == math.Trunc(v.Num) && !math.IsInf(v.Num, 0) {
			return []byte(strconv.FormatInt(int64(v.Num), 10)), nil
		}
		return []byte(strconv.FormatFloat(v.Num, 'f', -1, 64)), nil
	case KindString:
		return json.Marshal(v.Str)
	case KindBool:
		return json.Marshal(v.B)
	}
	return []byte("null"), nil
}

// UnmarshalJSON reads any JSON scalar back into a Value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case float64:
		*v = NumberValue(t)
	case string:
		*v = StringValue(t)
	case bool:
		*v = BoolValue(t)
	case nil:
		*v = Value{}
	default:
		return fmt.Errorf("variable value must be a scalar, got %T", raw)
	}
	return nil
}

package sanitizer

import (
	"encoding/json"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var (
	reDecimalInt   = regexp.MustCompile(`^[+-]?(?:0|[1-9][0-9]*)$`)
	reDecimalFloat = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)
	reEntity       = regexp.MustCompile(`^&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);`)
)

// whitespace accepted around numeric and boolean literals
const literalSpace = " \t\n\r\v\x00"

var (
	truthy = map[string]struct{}{"1": {}, "true": {}, "on": {}, "yes": {}}
	falsy  = map[string]struct{}{"0": {}, "false": {}, "off": {}, "no": {}, "": {}}
)

func parseInt(v any) any {
	switch t := v.(type) {
	case int:
		return t
	case int8, int16, int32, int64:
		return int(reflect.ValueOf(t).Int())
	case uint, uint8, uint16, uint32, uint64, uintptr:
		u := reflect.ValueOf(t).Uint()
		if u > math.MaxInt64 {
			return nil
		}
		return int(u)
	case float32:
		return intFromFloat(float64(t))
	case float64:
		return intFromFloat(t)
	case json.Number:
		if n := intFromString(string(t)); n != nil {
			return n
		}
		f, err := t.Float64()
		if err != nil {
			return nil
		}
		return intFromFloat(f)
	case string:
		return intFromString(t)
	case bool:
		if t {
			return 1
		}
		return nil
	default:
		return nil
	}
}

func intFromString(s string) any {
	s = strings.Trim(s, literalSpace)
	if !reDecimalInt.MatchString(s) {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return int(n)
}

func intFromFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil
	}
	return int(f)
}

func parseFloat(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return t
	case float32:
		return parseFloat(float64(t))
	case int, int8, int16, int32, int64:
		return float64(reflect.ValueOf(t).Int())
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return float64(reflect.ValueOf(t).Uint())
	case json.Number:
		return floatFromString(string(t))
	case string:
		return floatFromString(t)
	case bool:
		if t {
			return float64(1)
		}
		return nil
	default:
		return nil
	}
}

func floatFromString(s string) any {
	s = strings.Trim(s, literalSpace)
	if !reDecimalFloat.MatchString(s) {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return f
}

func parseBool(v any) any {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return boolFromString(t)
	default:
		switch n := parseInt(v).(type) {
		case int:
			if n == 1 {
				return true
			}
			if n == 0 {
				return false
			}
		}
		return nil
	}
}

func boolFromString(s string) any {
	s = strings.ToLower(strings.Trim(s, literalSpace))
	if _, ok := truthy[s]; ok {
		return true
	}
	if _, ok := falsy[s]; ok {
		return false
	}
	return nil
}

func escapeValue(v any) any {
	s, ok := scalarString(v)
	if !ok {
		return nil
	}
	return EscapeHTML(s)
}

// scalarString renders a scalar the way it would appear in form input:
// booleans become "1" or "".
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return string(t), true
	case bool:
		if t {
			return "1", true
		}
		return "", true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(t).Int(), 10), true
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return strconv.FormatUint(reflect.ValueOf(t).Uint(), 10), true
	default:
		return "", false
	}
}

// EscapeHTML escapes the five HTML special characters. Ampersands that
// already start a character reference are left alone, so escaping is
// idempotent.
func EscapeHTML(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			if reEntity.MatchString(s[i:]) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#039;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func parseIntArray(v any) any {
	if v == nil {
		return nil
	}
	if _, isString := v.(string); isString {
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = parseInt(rv.Index(i).Interface())
	}
	return out
}

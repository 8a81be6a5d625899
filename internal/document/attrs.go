package document

import (
	"math"
	"strconv"
	"strings"
)

// Attrs is the open attribute map attached to nodes and marks. Lookups never
// fail: absent keys, nil maps and values of the wrong kind resolve to the
// caller supplied default.
type Attrs map[string]any

// Value returns the raw attribute value.
func (a Attrs) Value(key string) (any, bool) {
	if a == nil {
		return nil, false
	}
	val, ok := a[key]
	if !ok || val == nil {
		return nil, false
	}
	return val, true
}

// String returns the attribute as a string. Numbers and booleans are
// formatted; empty strings fall back to def.
func (a Attrs) String(key, def string) string {
	val, ok := a.Value(key)
	if !ok {
		return def
	}
	switch v := val.(type) {
	case string:
		if v == "" {
			return def
		}
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	if n, ok := asInt(val); ok {
		return strconv.FormatInt(n, 10)
	}
	return def
}

// Int returns the attribute as an integer. JSON numbers (float64), every Go
// integer kind and numeric strings are accepted; fractional values are
// truncated and floats outside the int range resolve to def.
func (a Attrs) Int(key string, def int) int {
	val, ok := a.Value(key)
	if !ok {
		return def
	}
	if n, ok := asInt(val); ok {
		return int(n)
	}
	switch v := val.(type) {
	case float64:
		if n, ok := floatToInt(v); ok {
			return n
		}
	case float32:
		if n, ok := floatToInt(float64(v)); ok {
			return n
		}
	case string:
		trimmed := strings.TrimSpace(v)
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			if n, ok := floatToInt(f); ok {
				return n
			}
		}
	}
	return def
}

// floatToInt truncates f, rejecting NaN, infinities and values outside the
// int range.
func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

// Bool returns the attribute as a boolean. The strings "true" and "false"
// are honoured.
func (a Attrs) Bool(key string, def bool) bool {
	val, ok := a.Value(key)
	if !ok {
		return def
	}
	switch v := val.(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return def
}

// Clone returns a shallow copy of the map.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func asInt(val any) (int64, bool) {
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

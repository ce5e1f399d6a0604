package httpclient

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Param is one query parameter. Nil values are dropped by BuildQuery.
type Param struct {
	Key   string
	Value any
}

// P is shorthand for Param{Key: key, Value: value}.
func P(key string, value any) Param {
	return Param{Key: key, Value: value}
}

// BuildQuery encodes params in input order, skipping nil values and nil
// pointers. A repeated key replaces the earlier value at its original
// position. It returns "" when nothing remains, otherwise "?" + query.
func BuildQuery(params ...Param) string {
	keys := make([]string, 0, len(params))
	values := make(map[string]any, len(params))
	for _, p := range params {
		if _, seen := values[p.Key]; !seen {
			keys = append(keys, p.Key)
		}
		values[p.Key] = p.Value
	}

	var b strings.Builder
	for _, key := range keys {
		s, ok := formatQueryValue(values[key])
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(s))
	}

	if b.Len() == 0 {
		return ""
	}
	return "?" + b.String()
}

func formatQueryValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	v = rv.Interface()

	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return fmt.Sprint(val), true
	}
}

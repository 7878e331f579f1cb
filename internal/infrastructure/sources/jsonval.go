package sources

import (
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// Помощники для JSON без схемы: числа приходят и числами, и строками.

func anyString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}

		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	}

	return ""
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case string:
		val, err := strconv.ParseFloat(t, 64)

		return val, err == nil
	}

	return 0, false
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}

	return int(f), true
}

func dig(m map[string]any, path ...string) (any, bool) {
	var cur any = m

	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}

		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}

	return cur, true
}

func digSlice(m map[string]any, path ...string) ([]any, bool) {
	v, ok := dig(m, path...)
	if !ok {
		return nil, false
	}

	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil, false
	}

	return arr, true
}

package upstream

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// String decodes a JSON string, number or boolean as trimmed text. Null,
// objects and arrays decode as the empty string instead of failing, so one
// odd field never spoils the whole payload.
type String string

func (s *String) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch t := v.(type) {
	case string:
		*s = String(strings.TrimSpace(t))
	case float64:
		*s = String(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		*s = String(strconv.FormatBool(t))
	default:
		*s = ""
	}

	return nil
}

func (s String) String() string {
	return string(s)
}

// First returns the first non-empty value.
func First(values ...String) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

// intLimit is -math.MinInt as a float64, a power of two and so exact.
const intLimit = -float64(math.MinInt)

// Int decodes a JSON number or a numeric string. Valid is false when the
// field was absent or could not be read as a whole number.
type Int struct {
	Value int
	Valid bool
}

func (i *Int) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	*i = Int{}

	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && t >= -intLimit && t < intLimit {
			*i = Int{Value: int(t), Valid: true}
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			*i = Int{Value: n, Valid: true}
		}
	}

	return nil
}

// Ptr returns nil when the value is not valid.
func (i Int) Ptr() *int {
	if !i.Valid {
		return nil
	}
	v := i.Value
	return &v
}

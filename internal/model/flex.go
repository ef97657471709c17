package model

import (
	"encoding/json"
	"strconv"
)

// The upstream contract is loose about scalar types: ids arrive as strings
// or numbers, scores as numbers or numeric strings, positive_points as a
// string or an array. These types normalize each shape once, during decode,
// so nothing downstream has to type-sniff. None of them ever return a
// decode error: an unusable value degrades to the zero value.

// FlexString decodes a JSON string or number into a string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	*f = ""
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// FlexFloat decodes a JSON number or a numeric string. Valid is false when
// the field was absent, null, or not coercible to a number.
type FlexFloat struct {
	Value float64
	Valid bool
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	f.Value, f.Valid = 0, false

	// json.Unmarshal treats null into a float64 as a no-op success.
	if string(data) == "null" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.Value, f.Valid = n, true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			f.Value, f.Valid = v, true
		}
	}

	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// StringList decodes a JSON array of strings or a lone string, which is
// wrapped into a single-element list.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = StringList{one}
		return nil
	}

	*l = nil
	return nil
}

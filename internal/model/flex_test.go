package model

import (
	"encoding/json"
	"testing"
)

func TestFlexStringDecode(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"abc"`, "abc"},
		{`17`, "17"},
		{`3.5`, "3.5"},
		{`true`, ""},
		{`{"x": 1}`, ""},
		{`null`, ""},
	}

	for _, tt := range tests {
		var f FlexString
		if err := json.Unmarshal([]byte(tt.raw), &f); err != nil {
			t.Errorf("FlexString(%s): unexpected error %v", tt.raw, err)
			continue
		}
		if f.String() != tt.want {
			t.Errorf("FlexString(%s) = %q, want %q", tt.raw, f, tt.want)
		}
	}
}

func TestFlexFloatDecode(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{`0.8765`, 0.8765, true},
		{`"0.5"`, 0.5, true},
		{`90`, 90, true},
		{`"great"`, 0, false},
		{`null`, 0, false},
		{`[1]`, 0, false},
	}

	for _, tt := range tests {
		var f FlexFloat
		if err := json.Unmarshal([]byte(tt.raw), &f); err != nil {
			t.Errorf("FlexFloat(%s): unexpected error %v", tt.raw, err)
			continue
		}
		if f.Valid != tt.valid || (f.Valid && f.Value != tt.want) {
			t.Errorf("FlexFloat(%s) = {%v %v}, want {%v %v}", tt.raw, f.Value, f.Valid, tt.want, tt.valid)
		}
	}
}

func TestStringListDecode(t *testing.T) {
	var one StringList
	if err := json.Unmarshal([]byte(`"only one point"`), &one); err != nil {
		t.Fatalf("lone string: %v", err)
	}
	if len(one) != 1 || one[0] != "only one point" {
		t.Errorf("lone string = %v", one)
	}

	var many StringList
	if err := json.Unmarshal([]byte(`["a", "b"]`), &many); err != nil {
		t.Fatalf("array: %v", err)
	}
	if len(many) != 2 || many[0] != "a" || many[1] != "b" {
		t.Errorf("array = %v", many)
	}

	var bad StringList
	if err := json.Unmarshal([]byte(`{"x": 1}`), &bad); err != nil {
		t.Fatalf("object: %v", err)
	}
	if bad != nil {
		t.Errorf("unusable value should decode to nil, got %v", bad)
	}
}

package types

import (
	"reflect"
	"testing"
)

func TestCoerceStringList(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want []string
	}{
		{"list", []interface{}{"a", "b"}, []string{"a", "b"}},
		{"bare string", "fundraising", []string{"fundraising"}},
		{"number", 42.0, []string{}},
		{"nil", nil, []string{}},
		{"object", map[string]interface{}{"x": 1}, []string{}},
		{"blank entries dropped", []interface{}{" a ", "", "  "}, []string{"a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CoerceStringList(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("CoerceStringList(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCoerceBool(t *testing.T) {
	truthy := []interface{}{true, "true", "TRUE", "yes", "y", "1", "incumbent", 1.0, -3.0}
	for _, v := range truthy {
		if !CoerceBool(v) {
			t.Errorf("CoerceBool(%v) = false, want true", v)
		}
	}
	falsy := []interface{}{false, "false", "no", "", "maybe", 0.0, nil, []interface{}{}}
	for _, v := range falsy {
		if CoerceBool(v) {
			t.Errorf("CoerceBool(%v) = true, want false", v)
		}
	}
}

func TestCoerceString(t *testing.T) {
	if got := CoerceString(3.5); got != "3.5" {
		t.Errorf("CoerceString(3.5) = %q", got)
	}
	if got := CoerceString(nil); got != "" {
		t.Errorf("CoerceString(nil) = %q", got)
	}
	if got := CoerceString(true); got != "true" {
		t.Errorf("CoerceString(true) = %q", got)
	}
}

// SPDX-License-Identifier: MPL-2.0

package options

import (
	"errors"
	"testing"
	"time"
)

func TestValueType_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  ValueType
		want bool
	}{
		{"", true},
		{TypeString, true},
		{TypeInt, true},
		{TypeFloat, true},
		{TypeBool, true},
		{TypeDuration, true},
		{"complex", false},
		{"INT", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			t.Parallel()
			ok, errs := tt.typ.IsValid()
			if ok != tt.want {
				t.Errorf("ValueType(%q).IsValid() = %v, want %v", tt.typ, ok, tt.want)
			}
			if !tt.want && (len(errs) == 0 || !errors.Is(errs[0], ErrInvalidValueType)) {
				t.Errorf("ValueType(%q).IsValid() errors = %v, want ErrInvalidValueType", tt.typ, errs)
			}
		})
	}
}

func TestValueType_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		typ     ValueType
		raw     any
		want    any
		wantErr bool
	}{
		{"string", TypeString, "/dev/ttyUSB0", "/dev/ttyUSB0", false},
		{"zero type is string", "", 12, "12", false},
		{"int from string", TypeInt, "19200", 19200, false},
		{"int with spaces", TypeInt, " 8 ", 8, false},
		{"int from int", TypeInt, 9600, 9600, false},
		{"int garbage", TypeInt, "fast", nil, true},
		{"int fraction", TypeInt, "9600.5", nil, true},
		{"int empty", TypeInt, "", nil, true},
		{"int blank", TypeInt, "  ", nil, true},
		{"int leading zero is decimal", TypeInt, "010", 10, false},
		{"int hex rejected", TypeInt, "0x10", nil, true},
		{"int from whole float", TypeInt, 9600.0, 9600, false},
		{"int from fractional float", TypeInt, 9600.7, nil, true},
		{"int from int64", TypeInt, int64(57600), 57600, false},
		{"float", TypeFloat, "0.5", 0.5, false},
		{"float from int", TypeFloat, 300, 300.0, false},
		{"float garbage", TypeFloat, "soon", nil, true},
		{"float empty", TypeFloat, "", nil, true},
		{"float leading zero", TypeFloat, "010", 10.0, false},
		{"bool true", TypeBool, "true", true, false},
		{"bool True", TypeBool, "True", true, false},
		{"bool yes", TypeBool, "yes", true, false},
		{"bool on", TypeBool, "ON", true, false},
		{"bool off", TypeBool, "off", false, false},
		{"bool 0", TypeBool, "0", false, false},
		{"bool go value", TypeBool, true, true, false},
		{"bool garbage", TypeBool, "maybe", nil, true},
		{"duration", TypeDuration, "1m30s", 90 * time.Second, false},
		{"duration value", TypeDuration, 2 * time.Second, 2 * time.Second, false},
		{"duration garbage", TypeDuration, "later", nil, true},
		{"duration without unit", TypeDuration, "10", nil, true},
		{"duration empty", TypeDuration, "", nil, true},
		{"string empty", TypeString, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.typ.Convert(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Convert(%v) = %v, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Convert(%v) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Convert(%v) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValueType_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    any
		want string
	}{
		{nil, ""},
		{"None", "None"},
		{9600, "9600"},
		{1.5, "1.5"},
		{300.0, "300"},
		{true, "true"},
		{10 * time.Second, "10s"},
	}

	for _, tt := range tests {
		if got := TypeString.Format(tt.v); got != tt.want {
			t.Errorf("Format(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

// SPDX-License-Identifier: MPL-2.0

package options

import (
	"bytes"
	"errors"
	"testing"
)

func TestEnvironmentFlag(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, nil)
	fs := newTestFlagSet()
	AddEnvironmentFlag(fs)
	AddEnvironmentFlag(fs)
	reg.Declare(fs, "serialport", "input", nil).Add(Option{Name: "port"})

	if err := fs.Parse([]string{"-e"}); err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	var out bytes.Buffer
	handled, err := reg.HandleEnvironment(fs, &out)
	if err != nil || !handled {
		t.Fatalf("HandleEnvironment() = %v, %v, want true, nil", handled, err)
	}
	if got, want := out.String(), "Environment variables:\n  INPUT_PORT\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEnvironmentFlag_NotGiven(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, nil)
	fs := newTestFlagSet()

	var out bytes.Buffer
	if handled, err := reg.HandleEnvironment(fs, &out); handled || err != nil {
		t.Errorf("HandleEnvironment() without flag = %v, %v", handled, err)
	}

	AddEnvironmentFlag(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if handled, err := reg.HandleEnvironment(fs, &out); handled || err != nil {
		t.Errorf("HandleEnvironment() = %v, %v, want false, nil", handled, err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestEnvironmentFlag_ShortTaken(t *testing.T) {
	t.Parallel()

	fs := newTestFlagSet()
	fs.BoolP("echo", "e", false, "")
	AddEnvironmentFlag(fs)

	if f := fs.Lookup(EnvironmentFlagName); f == nil || f.Shorthand != "" {
		t.Errorf("environment flag = %+v, want long form only", f)
	}
}

func TestCheckRequired(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, nil)
	fs := newTestFlagSet()
	reg.MustAdd(fs, nil, Option{Name: "mailgun-domain", Required: true})
	reg.MustAdd(fs, nil, Option{Name: "mailgun-api-key", Required: true})
	reg.MustAdd(fs, nil, Option{Name: "mailgun-api-base", Default: "https://api.mailgun.net/v3", Required: true})

	if err := fs.Parse([]string{"--mailgun-domain", "mg.example.com"}); err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	err := CheckRequired(fs)
	var missing *MissingRequiredError
	if !errors.As(err, &missing) || !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("CheckRequired() = %v, want *MissingRequiredError", err)
	}
	if len(missing.Flags) != 1 || missing.Flags[0] != "mailgun-api-key" {
		t.Errorf("missing flags = %v, want [mailgun-api-key]", missing.Flags)
	}
	if want := `required flag(s) "mailgun-api-key" not set`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if err := fs.Parse([]string{"--mailgun-api-key", "k"}); err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if err := CheckRequired(fs); err != nil {
		t.Errorf("CheckRequired() after providing the key = %v", err)
	}
}

func TestDefault_IsSingleton(t *testing.T) {
	t.Parallel()

	if Default() != Default() {
		t.Error("Default() should return the same registry")
	}
}

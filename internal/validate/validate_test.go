package validate_test

import (
	"errors"
	"testing"

	"github.com/adamwoolhether/geminer/internal/validate"
)

type settings struct {
	Host   string `name:"host" validate:"required,hostname_rfc1123"`
	Format string `name:"format" validate:"oneof=text json"`
	Count  int    `validate:"gte=0"`
}

func TestCheck_Valid(t *testing.T) {
	s := settings{Host: "example.com", Format: "json"}
	if err := validate.Check(&s); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestCheck_MissingRequired(t *testing.T) {
	s := settings{Format: "text"}
	err := validate.Check(&s)
	if err == nil {
		t.Fatal("expected error for missing required field")
	}

	fe := validate.GetFieldErrors(err)
	if fe == nil {
		t.Fatal("expected FieldErrors")
	}

	fields := fe.Fields()
	if fields["host"] != "This field is required" {
		t.Fatalf("host error = %q, want %q", fields["host"], "This field is required")
	}
}

func TestCheck_FieldNames(t *testing.T) {
	s := settings{Host: "not a host", Format: "xml", Count: -1}
	fe := validate.GetFieldErrors(validate.Check(&s))
	if len(fe) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(fe), fe)
	}

	fields := fe.Fields()
	for _, name := range []string{"host", "format", "Count"} {
		if _, ok := fields[name]; !ok {
			t.Errorf("expected %q field error, got %v", name, fields)
		}
	}
}

func TestNewFieldError(t *testing.T) {
	err := error(validate.NewFieldError("path", errors.New("must start with /")))

	if got, exp := err.Error(), "path: must start with /"; got != exp {
		t.Fatalf("exp %q, got %q", exp, got)
	}
	if validate.GetFieldErrors(err) == nil {
		t.Fatal("expected FieldErrors to be extractable")
	}
}

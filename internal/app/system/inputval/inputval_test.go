package inputval

import (
	"strings"
	"testing"
)

type sampleForm struct {
	Name  string `validate:"required,max=10" label:"Full name"`
	Email string `validate:"omitempty,email" label:"Email"`
	Role  string `validate:"required,oneof=admin institution member" label:"Role"`
}

func TestValidate_Passes(t *testing.T) {
	res := Validate(sampleForm{Name: "Tariro", Email: "t@example.com", Role: "member"})
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.All())
	}
	if res.First() != "" {
		t.Errorf("First() on clean result: got %q, want empty", res.First())
	}
}

func TestValidate_RequiredUsesLabel(t *testing.T) {
	res := Validate(sampleForm{Role: "member"})
	if !res.HasErrors() {
		t.Fatal("expected a validation error")
	}
	if got := res.First(); got != "Full name is required." {
		t.Errorf("First(): got %q", got)
	}
}

func TestValidate_MaxLength(t *testing.T) {
	res := Validate(sampleForm{Name: strings.Repeat("x", 11), Role: "member"})
	if !res.HasErrors() {
		t.Fatal("expected a validation error")
	}
	if got := res.First(); got != "Full name must be at most 10 characters." {
		t.Errorf("First(): got %q", got)
	}
}

func TestValidate_OneOf(t *testing.T) {
	res := Validate(sampleForm{Name: "Tariro", Role: "visitor"})
	if !res.HasErrors() {
		t.Fatal("expected a validation error")
	}
	if got := res.First(); !strings.HasPrefix(got, "Role must be one of:") {
		t.Errorf("First(): got %q", got)
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	res := Validate(sampleForm{Email: "not-an-email"})
	if len(res.All()) != 3 {
		t.Errorf("All(): got %d errors, want 3: %v", len(res.All()), res.All())
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user+tag@example.com", true},
		{"user@localhost", true},
		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{"user..name@example.com", false},
		{"User Name <user@example.com>", false},
		{"user @example.com", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

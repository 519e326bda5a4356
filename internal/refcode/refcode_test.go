package refcode

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

var employeePattern = regexp.MustCompile(`^[A-Z]{2}\d{4}$`)

func neverTaken(ctx context.Context, code string) (bool, error) { return false, nil }

func TestInitials(t *testing.T) {
	cases := []struct{ name, want string }{
		{"Anil Kumar", "AK"},
		{"john doe", "JD"},
		{"Maria del Carmen Ruiz", "MR"},
		{"Madonna", "MM"},
		{"  Priya   Nair  ", "PN"},
	}
	for _, c := range cases {
		got, err := Initials(c.name)
		if err != nil {
			t.Fatalf("Initials(%q) error: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("Initials(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestInitials_EmptyName(t *testing.T) {
	if _, err := Initials("   "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("got %v, want ErrEmptyName", err)
	}
}

func TestEmployeeCode_Format(t *testing.T) {
	g := NewSeeded(1)
	for i := 0; i < 100; i++ {
		code, err := g.EmployeeCode(context.Background(), "Anil Kumar", neverTaken)
		if err != nil {
			t.Fatalf("EmployeeCode error: %v", err)
		}
		if !employeePattern.MatchString(code) {
			t.Fatalf("code %q does not match ^[A-Z]{2}\\d{4}$", code)
		}
		if code[:2] != "AK" {
			t.Fatalf("code %q does not carry initials AK", code)
		}
	}
}

// Against a populated table the generator must redraw until it finds a code
// that is not already present.
func TestEmployeeCode_AvoidsExistingCodes(t *testing.T) {
	g := NewSeeded(42)
	seeded := map[string]bool{}
	exists := func(ctx context.Context, code string) (bool, error) { return seeded[code], nil }
	for i := 0; i < 500; i++ {
		code, err := g.EmployeeCode(context.Background(), "Anil Kumar", exists)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if seeded[code] {
			t.Fatalf("draw %d returned already-present code %q", i, code)
		}
		seeded[code] = true
	}
}

func TestEmployeeCode_ExhaustedSpace(t *testing.T) {
	g := NewSeeded(7)
	allTaken := func(ctx context.Context, code string) (bool, error) { return true, nil }
	_, err := g.EmployeeCode(context.Background(), "Anil Kumar", allTaken)
	if !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Fatalf("got %v, want ErrCodeSpaceExhausted", err)
	}
}

func TestEmployeeCode_ExistsErrorPropagates(t *testing.T) {
	g := NewSeeded(7)
	boom := errors.New("db down")
	failing := func(ctx context.Context, code string) (bool, error) { return false, boom }
	if _, err := g.EmployeeCode(context.Background(), "Anil Kumar", failing); !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped db error", err)
	}
}

func TestDependentCode(t *testing.T) {
	if got := DependentCode("AK4821", 3); got != "AK482103" {
		t.Errorf("got %q, want AK482103", got)
	}
	// No ordinal supplied defaults to 1.
	if got := DependentCode("AK4821", 0); got != "AK482101" {
		t.Errorf("got %q, want AK482101", got)
	}
	if got := DependentCode("JD4821", 12); got != "JD482112" {
		t.Errorf("got %q, want JD482112", got)
	}
}

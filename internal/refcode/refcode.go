// Package refcode generates the unique applicant reference numbers (UARN)
// printed on bookings.  Employee codes are two upper-cased initials followed
// by a random 4-digit suffix and are guaranteed unique by rejection sampling
// against the booking_details.uarn unique index.  Dependent codes are derived
// from the parent employee's code plus a 2-digit ordinal and perform no
// uniqueness check of their own; the caller owns the ordinal and the unique
// index backstops a miscount.
package refcode

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"
)

// maxDraws caps the rejection-sampling loop.  10,000 suffixes exist per
// initials pair, so hitting the cap means the pair is effectively exhausted.
const maxDraws = 50

// ErrEmptyName is returned when the applicant name contains no letters to
// derive initials from.
var ErrEmptyName = errors.New("refcode: empty applicant name")

// ErrCodeSpaceExhausted is returned when maxDraws candidates in a row were
// already taken.
var ErrCodeSpaceExhausted = errors.New("refcode: no free code found for initials")

// ExistsFunc reports whether a candidate code is already present in the
// booking_details table.  Implementations usually run inside the same
// transaction that will insert the row.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator draws candidate employee codes.  The zero value is not usable;
// construct with New.  A Generator is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Generator seeded from the current time.
func New() *Generator {
	return &Generator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a Generator with a fixed seed.  Used by tests to get a
// reproducible draw sequence.
func NewSeeded(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Initials derives the two-letter prefix from a full name: first letter of
// the first name token plus first letter of the last name token, both
// upper-cased.  A single-word name doubles its initial ("Madonna" -> "MM").
func Initials(fullName string) (string, error) {
	tokens := strings.Fields(fullName)
	letters := make([]rune, 0, len(tokens))
	for _, tok := range tokens {
		for _, r := range tok {
			if unicode.IsLetter(r) {
				letters = append(letters, unicode.ToUpper(r))
				break
			}
		}
	}
	if len(letters) == 0 {
		return "", ErrEmptyName
	}
	first := letters[0]
	last := letters[len(letters)-1]
	return string([]rune{first, last}), nil
}

// EmployeeCode produces a unique employee code for the given name.  It draws
// random 4-digit suffixes until exists reports the candidate free, up to
// maxDraws attempts.  The returned code matches ^[A-Z]{2}\d{4}$.
func (g *Generator) EmployeeCode(ctx context.Context, fullName string, exists ExistsFunc) (string, error) {
	prefix, err := Initials(fullName)
	if err != nil {
		return "", err
	}
	for i := 0; i < maxDraws; i++ {
		g.mu.Lock()
		n := g.rng.Intn(10000)
		g.mu.Unlock()
		candidate := fmt.Sprintf("%s%04d", prefix, n)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// DependentCode derives a dependent's code from the parent employee's code
// and a 1-based ordinal.  An ordinal below 1 defaults to 1.  Ordinals are
// zero-padded to two digits; the caller is responsible for keeping them
// distinct per employee.
func DependentCode(parentCode string, ordinal int) string {
	if ordinal < 1 {
		ordinal = 1
	}
	return fmt.Sprintf("%s%02d", parentCode, ordinal)
}

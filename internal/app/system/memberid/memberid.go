// Package memberid allocates union member numbers of the form PREFIX-NNNN
// (for example ZEH-0001).
//
// Allocation is advisory: Next proposes the candidate that follows the
// highest number currently assigned, and the unique index on the members
// collection is the final authority. If the store cannot be read, or the
// latest stored number does not parse, Next falls back to the seed so that
// enrollment keeps working; a collision surfaces later as a Conflict when
// the member row is inserted.
package memberid

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// pattern matches a fully formed member number: a three-letter uppercase
// prefix, a hyphen, and at least four digits.
var pattern = regexp.MustCompile(`^[A-Z]{3}-\d{4,}$`)

// numbered extracts the numeric part of an ID carrying the given prefix.
func numbered(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `-(\d+)$`)
}

// Valid reports whether id is a well-formed member number.
func Valid(id string) bool {
	return pattern.MatchString(id)
}

// Format renders sequence number n under the given prefix, zero-padded to
// four digits. Numbers beyond 9999 simply grow wider.
func Format(prefix string, n int) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// LatestSource reports the highest member number currently assigned.
// An empty string means no members exist yet.
type LatestSource interface {
	LatestMemberID(ctx context.Context) (string, error)
}

// Allocator proposes the next member number for a prefix.
type Allocator struct {
	prefix string
	re     *regexp.Regexp
	src    LatestSource
}

// New returns an allocator drawing the latest assigned number from src.
func New(prefix string, src LatestSource) *Allocator {
	return &Allocator{prefix: prefix, re: numbered(prefix), src: src}
}

// Seed is the first member number issued under the allocator's prefix.
func (a *Allocator) Seed() string {
	return Format(a.prefix, 1)
}

// Next returns the candidate member number to try for the next enrollment.
// It never fails: store errors and unparseable stored numbers both degrade
// to the seed value.
func (a *Allocator) Next(ctx context.Context) string {
	latest, err := a.src.LatestMemberID(ctx)
	if err != nil || latest == "" {
		return a.Seed()
	}
	m := a.re.FindStringSubmatch(latest)
	if m == nil {
		return a.Seed()
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return a.Seed()
	}
	return Format(a.prefix, n+1)
}

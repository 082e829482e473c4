// Package term provides canonical academic term keys and the arithmetic
// used to place a planned course into a concrete, queryable term.
//
// A term key is a compact identifier like "FA20" (Fall 2020) or "WI21"
// (Winter 2021). Term keys index the per-term requisite tables served by
// the data source, and the source's metadata advertises the earliest and
// latest keys for which data exists. Nominal terms computed from a degree
// plan are clamped into that range before any data is requested.
package term

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidTerm is returned by [Parse] when a term key is malformed.
	ErrInvalidTerm = errors.New("invalid term key")

	// ErrInvalidSystem is returned by [ParseSystem] for unknown calendar systems.
	ErrInvalidSystem = errors.New("invalid calendar system")
)

// Season identifies a term within a calendar year.
// The ordering follows calendar occurrence: Winter < Spring < Summer < Fall.
type Season int

const (
	Winter Season = iota
	Spring
	Summer
	Fall
)

var seasonCodes = map[Season]string{
	Winter: "WI",
	Spring: "SP",
	Summer: "SU",
	Fall:   "FA",
}

var seasonsByCode = map[string]Season{
	"WI": Winter,
	"SP": Spring,
	"SU": Summer,
	"FA": Fall,
}

// String returns the two-letter season code ("FA", "WI", "SP", "SU").
func (s Season) String() string {
	if code, ok := seasonCodes[s]; ok {
		return code
	}
	return fmt.Sprintf("Season(%d)", int(s))
}

// System is the academic calendar a plan follows. It determines which
// seasons a course's quarter slot maps to, and is otherwise a pass-through
// classification for downstream display policies.
type System int

const (
	// Semester calendars have two primary terms per academic year (FA, SP).
	Semester System = iota
	// Quarter calendars have three primary terms per academic year (FA, WI, SP).
	Quarter
)

// String returns "semester" or "quarter".
func (s System) String() string {
	if s == Quarter {
		return "quarter"
	}
	return "semester"
}

// TermsPerYear returns the number of primary terms in one academic year
// under the system: 2 for semester calendars, 3 for quarter calendars.
func (s System) TermsPerYear() int {
	if s == Quarter {
		return 3
	}
	return 2
}

// ParseSystem converts a string to a System. Recognized values are
// "semester" and "quarter" (case-insensitive).
func ParseSystem(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "semester":
		return Semester, nil
	case "quarter":
		return Quarter, nil
	default:
		return Semester, fmt.Errorf("%w: %q", ErrInvalidSystem, s)
	}
}

// Term is a single academic term, identified by season and calendar year.
// The zero value is Winter 2000 and is usable but rarely meaningful;
// construct terms with composite literals or [Parse].
type Term struct {
	Season Season
	Year   int // Full calendar year (e.g., 2024).
}

// String formats the term as its canonical key, e.g., "FA20".
func (t Term) String() string {
	return fmt.Sprintf("%s%02d", t.Season, t.Year%100)
}

// Parse converts a canonical term key like "FA20" back into a Term.
// Two-digit years are interpreted in the 2000s. Returns ErrInvalidTerm
// for malformed keys.
func Parse(key string) (Term, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if len(key) != 4 {
		return Term{}, fmt.Errorf("%w: %q", ErrInvalidTerm, key)
	}
	season, ok := seasonsByCode[key[:2]]
	if !ok {
		return Term{}, fmt.Errorf("%w: unknown season in %q", ErrInvalidTerm, key)
	}
	yy, err := strconv.Atoi(key[2:])
	if err != nil {
		return Term{}, fmt.Errorf("%w: %q", ErrInvalidTerm, key)
	}
	return Term{Season: season, Year: 2000 + yy}, nil
}

// Compare orders two terms chronologically. It returns a negative value
// if a precedes b, zero if they are the same term, and a positive value
// if a follows b.
func Compare(a, b Term) int {
	if a.Year != b.Year {
		return a.Year - b.Year
	}
	return int(a.Season) - int(b.Season)
}

// Before reports whether t precedes other chronologically.
func (t Term) Before(other Term) bool { return Compare(t, other) < 0 }

// After reports whether t follows other chronologically.
func (t Term) After(other Term) bool { return Compare(t, other) > 0 }

// Bounds is the inclusive range of terms for which requisite data exists.
// It comes from the source's metadata endpoint.
type Bounds struct {
	Earliest Term
	Latest   Term
}

// Clamp maps a nominal term into the queryable range: terms before
// Earliest resolve to Earliest, terms after Latest resolve to Latest.
// This guarantees every course maps to a term that can be requested.
func (b Bounds) Clamp(t Term) Term {
	if t.Before(b.Earliest) {
		return b.Earliest
	}
	if t.After(b.Latest) {
		return b.Latest
	}
	return t
}

// slots lists, per system, the seasons of one academic year in order,
// paired with their calendar-year offset from the fall that opens it.
var slots = map[System][]struct {
	season Season
	offset int
}{
	Semester: {{Fall, 0}, {Spring, 1}},
	Quarter:  {{Fall, 0}, {Winter, 1}, {Spring, 1}},
}

// ForCourse computes the nominal term for a course enrolled in the given
// 0-indexed plan year and quarter slot, relative to referenceYear (the
// calendar year in which the plan's first fall term occurs).
//
// Quarter slots past the last term of an academic year roll into the next
// academic year. Callers are expected to clamp the result with
// [Bounds.Clamp] before requesting data for it.
func ForCourse(referenceYear, year, quarter int, system System) Term {
	seasons := slots[system]
	if len(seasons) == 0 {
		seasons = slots[Semester]
	}
	if quarter < 0 {
		quarter = 0
	}
	academic := referenceYear + year + quarter/len(seasons)
	slot := seasons[quarter%len(seasons)]
	return Term{Season: slot.season, Year: academic + slot.offset}
}

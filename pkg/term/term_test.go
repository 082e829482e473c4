package term

import (
	"errors"
	"testing"
)

func TestParseAndString(t *testing.T) {
	tests := []struct {
		key  string
		want Term
	}{
		{"FA20", Term{Fall, 2020}},
		{"WI21", Term{Winter, 2021}},
		{"SP24", Term{Spring, 2024}},
		{"SU05", Term{Summer, 2005}},
		{"fa20", Term{Fall, 2020}},
		{" FA20 ", Term{Fall, 2020}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := Parse(tt.key)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.key, got, tt.want)
			}
			if got.String() != tt.want.String() {
				t.Errorf("round trip = %q, want %q", got.String(), tt.want.String())
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, key := range []string{"", "FA", "FA2020", "XX20", "FAxx"} {
		if _, err := Parse(key); !errors.Is(err, ErrInvalidTerm) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidTerm", key, err)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Term
		sign int
	}{
		{"SameTerm", Term{Fall, 2020}, Term{Fall, 2020}, 0},
		{"FallBeforeNextWinter", Term{Fall, 2020}, Term{Winter, 2021}, -1},
		{"WinterBeforeSpring", Term{Winter, 2021}, Term{Spring, 2021}, -1},
		{"SpringBeforeFall", Term{Spring, 2021}, Term{Fall, 2021}, -1},
		{"LaterYear", Term{Winter, 2022}, Term{Fall, 2021}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b)
			switch {
			case tt.sign == 0 && got != 0:
				t.Errorf("Compare(%v, %v) = %d, want 0", tt.a, tt.b, got)
			case tt.sign < 0 && got >= 0:
				t.Errorf("Compare(%v, %v) = %d, want < 0", tt.a, tt.b, got)
			case tt.sign > 0 && got <= 0:
				t.Errorf("Compare(%v, %v) = %d, want > 0", tt.a, tt.b, got)
			}
		})
	}
}

func TestBoundsClamp(t *testing.T) {
	bounds := Bounds{Earliest: Term{Fall, 2020}, Latest: Term{Fall, 2024}}

	tests := []struct {
		name string
		in   Term
		want Term
	}{
		{"BeforeEarliest", Term{Fall, 2019}, Term{Fall, 2020}},
		{"AtEarliest", Term{Fall, 2020}, Term{Fall, 2020}},
		{"InRange", Term{Spring, 2022}, Term{Spring, 2022}},
		{"AtLatest", Term{Fall, 2024}, Term{Fall, 2024}},
		{"AfterLatest", Term{Winter, 2025}, Term{Fall, 2024}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bounds.Clamp(tt.in); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestForCourse(t *testing.T) {
	tests := []struct {
		name          string
		year, quarter int
		system        System
		want          Term
	}{
		{"SemesterFirstFall", 0, 0, Semester, Term{Fall, 2023}},
		{"SemesterFirstSpring", 0, 1, Semester, Term{Spring, 2024}},
		{"SemesterSecondYear", 1, 0, Semester, Term{Fall, 2024}},
		{"SemesterSlotRollsOver", 0, 2, Semester, Term{Fall, 2024}},
		{"QuarterWinter", 0, 1, Quarter, Term{Winter, 2024}},
		{"QuarterSpring", 0, 2, Quarter, Term{Spring, 2024}},
		{"QuarterThirdYearFall", 2, 0, Quarter, Term{Fall, 2025}},
		{"NegativeQuarterClamped", 0, -3, Semester, Term{Fall, 2023}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForCourse(2023, tt.year, tt.quarter, tt.system)
			if got != tt.want {
				t.Errorf("ForCourse(2023, %d, %d, %v) = %v, want %v",
					tt.year, tt.quarter, tt.system, got, tt.want)
			}
		})
	}
}

func TestParseSystem(t *testing.T) {
	if s, err := ParseSystem("Quarter"); err != nil || s != Quarter {
		t.Errorf("ParseSystem(Quarter) = %v, %v", s, err)
	}
	if s, err := ParseSystem("semester"); err != nil || s != Semester {
		t.Errorf("ParseSystem(semester) = %v, %v", s, err)
	}
	if _, err := ParseSystem("trimester"); !errors.Is(err, ErrInvalidSystem) {
		t.Errorf("ParseSystem(trimester) error = %v, want ErrInvalidSystem", err)
	}
}

// Package versioning parses and orders the loose version strings gamekit deals
// with: its own npm releases ("1.4.2"), manifest stamps written by older
// releases ("1.0"), and Unity editor versions ("6000.0.23f1").
package versioning

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersion is returned by Parse for input with no leading numeric component.
var ErrInvalidVersion = errors.New("invalid version")

// Version is a numeric MAJOR.MINOR.PATCH triple. Suffix holds whatever trails the
// numeric part ("-beta.1", "f1", "+build"); it never takes part in ordering.
type Version struct {
	Major  int
	Minor  int
	Patch  int
	Suffix string
	Raw    string
}

// Parse reads up to three dot-separated numeric components, with an optional
// leading "v". Missing components are zero.
func Parse(input string) (Version, error) {
	raw := strings.TrimSpace(input)
	s := strings.TrimPrefix(strings.TrimPrefix(raw, "v"), "V")
	if s == "" {
		return Version{}, fmt.Errorf("%w: empty", ErrInvalidVersion)
	}

	v := Version{Raw: raw}
	nums := [3]*int{&v.Major, &v.Minor, &v.Patch}
	rest := s
	for i := range nums {
		digits := leadingDigits(rest)
		if digits == "" {
			if i == 0 {
				return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, input)
			}
			break
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return Version{}, fmt.Errorf("%w: component %q: %v", ErrInvalidVersion, digits, err)
		}
		*nums[i] = n
		rest = rest[len(digits):]
		if i == len(nums)-1 || !strings.HasPrefix(rest, ".") || leadingDigits(rest[1:]) == "" {
			break
		}
		rest = rest[1:]
	}
	v.Suffix = rest
	return v, nil
}

// MustParse is Parse for constants known to be valid.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare orders v against o by the numeric triple only.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return sign(v.Major - o.Major)
	case v.Minor != o.Minor:
		return sign(v.Minor - o.Minor)
	default:
		return sign(v.Patch - o.Patch)
	}
}

// Less reports whether v orders before o.
func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

// String renders the canonical triple followed by the suffix.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d%s", v.Major, v.Minor, v.Patch, v.Suffix)
}

// Channel returns the Unity release channel encoded in the suffix: "f" (final),
// "b" (beta), "a" (alpha), "p" (patch), "c" (China) or "" when none.
func (v Version) Channel() string {
	if v.Suffix == "" {
		return ""
	}
	switch c := v.Suffix[0]; c {
	case 'f', 'b', 'a', 'p', 'c':
		if len(v.Suffix) > 1 && leadingDigits(v.Suffix[1:]) != "" {
			return string(c)
		}
	}
	return ""
}

// CompareLoose compares two version strings, returning -1, 0 or 1. Input that
// fails to parse is treated as 0.0.0 so callers never see an error.
func CompareLoose(a, b string) int {
	va, _ := Parse(a)
	vb, _ := Parse(b)
	return va.Compare(vb)
}

// Newer reports whether candidate orders strictly after current.
func Newer(candidate, current string) bool {
	return CompareLoose(candidate, current) > 0
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

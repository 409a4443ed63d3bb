package domain

import (
	"strings"

	goversion "github.com/hashicorp/go-version"
	"go.trai.ch/zerr"
)

// Version is an opaque version token as published by a repository.
type Version string

// UnknownVersion is the version recorded for packages whose metadata could not be read.
// It is unparseable and therefore incomparable with every version.
const UnknownVersion Version = ""

// String returns the token, or "unknown" for UnknownVersion.
func (v Version) String() string {
	if v == UnknownVersion {
		return "unknown"
	}
	return string(v)
}

// Ordering is the result of comparing two versions.
type Ordering int

const (
	// Incomparable means at least one version could not be parsed.
	Incomparable Ordering = iota
	// Less means the first version sorts before the second.
	Less
	// Equal means both versions sort at the same position.
	Equal
	// Greater means the first version sorts after the second.
	Greater
)

// String returns the lower-case name of the ordering.
func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "incomparable"
	}
}

// Comparator orders version tokens.
type Comparator interface {
	Compare(a, b Version) Ordering
}

// Version scheme names accepted by ComparatorFor.
const (
	SchemeDotted = "dotted"
	SchemeSemver = "semver"
)

// ErrUnknownVersionScheme is returned for an unsupported version_scheme setting.
var ErrUnknownVersionScheme = zerr.New("unknown version scheme")

// ComparatorFor returns the comparator for a version scheme name.
// The empty name selects the dotted scheme.
func ComparatorFor(scheme string) (Comparator, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemeDotted:
		return DottedComparator{}, nil
	case SchemeSemver:
		return SemverComparator{}, nil
	default:
		return nil, zerr.With(ErrUnknownVersionScheme, "scheme", scheme)
	}
}

// CompareVersions compares two versions with the default DottedComparator.
func CompareVersions(a, b Version) Ordering {
	return DottedComparator{}.Compare(a, b)
}

// DottedComparator orders versions made of identifiers separated by '.', '-' or '_'.
//
// Digits-only identifiers compare numerically and sort before alphanumeric ones,
// which compare bytewise. When one identifier list is a prefix of the other, the
// shorter one is Less. Tokens with empty identifiers or characters outside
// [A-Za-z0-9] are Incomparable with everything, themselves included.
type DottedComparator struct{}

// Compare implements Comparator.
func (DottedComparator) Compare(a, b Version) Ordering {
	left, ok := splitIdentifiers(string(a))
	if !ok {
		return Incomparable
	}
	right, ok := splitIdentifiers(string(b))
	if !ok {
		return Incomparable
	}

	for i := 0; i < len(left) && i < len(right); i++ {
		if c := compareIdentifier(left[i], right[i]); c != 0 {
			return orderingOf(c)
		}
	}
	return orderingOf(len(left) - len(right))
}

func splitIdentifiers(v string) ([]string, bool) {
	if v == "" {
		return nil, false
	}
	var ids []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i < len(v) && !isSeparator(v[i]) {
			if !isAlnum(v[i]) {
				return nil, false
			}
			continue
		}
		if i == start {
			return nil, false
		}
		ids = append(ids, v[start:i])
		start = i + 1
	}
	return ids, true
}

func isSeparator(c byte) bool {
	return c == '.' || c == '-' || c == '_'
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func compareIdentifier(a, b string) int {
	aNum, bNum := isNumeric(a), isNumeric(b)
	switch {
	case aNum && bNum:
		a = strings.TrimLeft(a, "0")
		b = strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return strings.Compare(a, b)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func orderingOf(c int) Ordering {
	switch {
	case c < 0:
		return Less
	case c > 0:
		return Greater
	default:
		return Equal
	}
}

// SemverComparator orders versions with semantic versioning rules.
// Tokens that do not parse are Incomparable.
type SemverComparator struct{}

// Compare implements Comparator.
func (SemverComparator) Compare(a, b Version) Ordering {
	left, err := goversion.NewVersion(string(a))
	if err != nil {
		return Incomparable
	}
	right, err := goversion.NewVersion(string(b))
	if err != nil {
		return Incomparable
	}
	return orderingOf(left.Compare(right))
}

// Package guard gates every inbound request on authentication state and role.
//
// Paths are classified by an ordered table of rules; the first matching rule
// wins and unmatched paths require authentication.
package guard

import "strings"

// Class is the access policy of a path.
type Class int

const (
	Authenticated Class = iota
	Public
	AuthPage
	EmployerOnly
)

func (c Class) String() string {
	switch c {
	case Public:
		return "public"
	case AuthPage:
		return "auth_page"
	case EmployerOnly:
		return "employer_only"
	default:
		return "authenticated"
	}
}

// MatchKind selects how a rule pattern is compared to a path.
type MatchKind int

const (
	// Exact matches the whole path, segment by segment.
	Exact MatchKind = iota
	// Prefix matches the pattern itself and anything below it.
	Prefix
)

// Rule maps a path pattern to a classification. A pattern segment written as
// [name] matches exactly one non-empty path segment.
type Rule struct {
	Pattern string
	Kind    MatchKind
	Class   Class

	segments []string
}

// Matches reports whether path falls under r.
func (r Rule) Matches(path string) bool {
	pattern := r.segments
	if pattern == nil {
		pattern = splitPath(r.Pattern)
	}
	parts := splitPath(path)

	switch r.Kind {
	case Prefix:
		if len(parts) < len(pattern) {
			return false
		}
		parts = parts[:len(pattern)]
	default:
		if len(parts) != len(pattern) {
			return false
		}
	}

	for i, seg := range pattern {
		if isWildcard(seg) {
			if parts[i] == "" {
				return false
			}
			continue
		}
		if seg != parts[i] {
			return false
		}
	}
	return true
}

// Table is an ordered, immutable list of rules.
type Table struct {
	rules []Rule
}

// NewTable compiles rules in the given order.
func NewTable(rules ...Rule) *Table {
	compiled := make([]Rule, len(rules))
	for i, r := range rules {
		r.segments = splitPath(r.Pattern)
		compiled[i] = r
	}
	return &Table{rules: compiled}
}

// Classify returns the class of the first rule matching path, or
// Authenticated when none does.
func (t *Table) Classify(path string) Class {
	for _, r := range t.rules {
		if r.Matches(path) {
			return r.Class
		}
	}
	return Authenticated
}

// DefaultTable is the routing policy of the job board.
func DefaultTable() *Table {
	return NewTable(
		Rule{Pattern: "/", Kind: Exact, Class: Public},
		Rule{Pattern: "/login", Kind: Exact, Class: AuthPage},
		Rule{Pattern: "/signup", Kind: Exact, Class: AuthPage},
		Rule{Pattern: "/jobs", Kind: Exact, Class: Public},
		Rule{Pattern: "/job/[id]", Kind: Exact, Class: Public},
		Rule{Pattern: "/job/[id]/apply", Kind: Exact, Class: Authenticated},
		Rule{Pattern: "/api/jobs", Kind: Exact, Class: Public},
		Rule{Pattern: "/api/jobs/[id]", Kind: Exact, Class: Public},
		Rule{Pattern: "/employer", Kind: Prefix, Class: EmployerOnly},
		Rule{Pattern: "/api/employer", Kind: Prefix, Class: EmployerOnly},
	)
}

// DefaultBypass lists path prefixes the guard never inspects: auth endpoints
// validate themselves, the rest is static or operational.
var DefaultBypass = []string{
	"/api/auth",
	"/static",
	"/_next/static",
	"/_next/image",
	"/favicon.ico",
	"/health",
	"/metrics",
	"/swagger",
}

func bypassed(prefixes []string, path string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// splitPath turns "/a/b/" into ["a", "b"]. The root path has no segments.
func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return []string{}
	}
	return strings.Split(p, "/")
}

func isWildcard(seg string) bool {
	return len(seg) > 2 && seg[0] == '[' && seg[len(seg)-1] == ']'
}

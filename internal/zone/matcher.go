// Package zone matches free-text neighborhood input against the catalog list.
package zone

import (
	"strings"

	"golang.org/x/text/cases"
)

// MaxMatches is the number of neighborhood matches shown after the sentinel.
const MaxMatches = 3

// Matcher produces autocomplete suggestions and validates zones.
//
// Suggestions and validation follow the same case-insensitive policy: a
// correctly spelled neighborhood in any casing is suggested and accepted, and
// Resolve maps it back to the stored spelling.
type Matcher struct {
	canonical map[string]string
	sentinel  string
	entries   []entry
}

type entry struct {
	name   string
	folded string
}

// NewMatcher builds a matcher over neighborhoods. sentinel is excluded from
// the match pool and always ranks first.
func NewMatcher(neighborhoods []string, sentinel string) *Matcher {
	m := &Matcher{
		sentinel:  sentinel,
		canonical: make(map[string]string, len(neighborhoods)),
	}
	for _, n := range neighborhoods {
		key := fold(n)
		if _, dup := m.canonical[key]; !dup {
			m.canonical[key] = n
		}
		if n == sentinel {
			continue
		}
		m.entries = append(m.entries, entry{name: n, folded: key})
	}
	m.canonical[fold(sentinel)] = sentinel
	return m
}

// Suggest returns the sentinel followed by at most MaxMatches neighborhoods
// whose name contains query, in list order.
func (m *Matcher) Suggest(query string) []string {
	q := fold(query)
	out := make([]string, 0, MaxMatches+1)
	out = append(out, m.sentinel)
	for _, e := range m.entries {
		if len(out) == MaxMatches+1 {
			break
		}
		if strings.Contains(e.folded, q) {
			out = append(out, e.name)
		}
	}
	return out
}

// IsValid reports whether query names a listed neighborhood or the sentinel.
func (m *Matcher) IsValid(query string) bool {
	_, ok := m.Resolve(query)
	return ok
}

// Resolve returns the stored spelling of query when it is a listed zone.
func (m *Matcher) Resolve(query string) (string, bool) {
	name, ok := m.canonical[fold(strings.TrimSpace(query))]
	return name, ok
}

// IsSentinel reports whether zone is the "unknown neighborhood" entry.
func (m *Matcher) IsSentinel(zone string) bool {
	return zone == m.sentinel
}

// Sentinel returns the sentinel entry.
func (m *Matcher) Sentinel() string {
	return m.sentinel
}

func fold(s string) string {
	return cases.Fold().String(s)
}

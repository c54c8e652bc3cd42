package archive

import (
	"regexp"
	"strings"
)

// Selector implements the layer-selection convention used when picking
// entries out of a boundary archive: select everything, select by exact
// name, by substring, by regular expression, or by negation of another
// selection.
type Selector interface {
	// Match reports whether name is selected.
	Match(name string) bool
	// String describes the selection for error messages.
	String() string
}

// apply returns the candidates selected by s, preserving input order.
// A nil selector selects everything.
func apply(s Selector, candidates []string) []string {
	if s == nil {
		s = All()
	}
	var out []string
	for _, c := range candidates {
		if s.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

type all struct{}

func (all) Match(string) bool { return true }
func (all) String() string    { return "everything" }

// All selects every candidate.
func All() Selector { return all{} }

type exact string

func (e exact) Match(name string) bool { return name == string(e) }
func (e exact) String() string         { return `name "` + string(e) + `"` }

// Name selects candidates whose name equals name exactly.
func Name(name string) Selector { return exact(name) }

type contains string

func (c contains) Match(name string) bool { return strings.Contains(name, string(c)) }
func (c contains) String() string         { return `names containing "` + string(c) + `"` }

// Contains selects candidates whose name contains substr.
func Contains(substr string) Selector { return contains(substr) }

type matches struct {
	re *regexp.Regexp
}

func (m matches) Match(name string) bool { return m.re.MatchString(name) }
func (m matches) String() string         { return `names matching "` + m.re.String() + `"` }

// Matches selects candidates whose name matches the regular expression.
func Matches(re *regexp.Regexp) Selector { return matches{re: re} }

type not struct {
	inner Selector
}

func (n not) Match(name string) bool { return !n.inner.Match(name) }
func (n not) String() string         { return "everything except " + n.inner.String() }

// Not selects candidates the inner selector does not select.
func Not(inner Selector) Selector {
	if inner == nil {
		inner = All()
	}
	return not{inner: inner}
}

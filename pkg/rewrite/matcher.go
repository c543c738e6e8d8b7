// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rewrite

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔍 Matcher finds the spans a rule rewrites
type Matcher interface {
	// FindAll returns every non-overlapping match in s, left to right
	FindAll(s string) []Match

	// NumGroups is the number of capture groups, not counting the whole match
	NumGroups() int

	// GroupNames returns the names of the capture groups, "" for unnamed ones.
	// Index 0 is always the whole match.
	GroupNames() []string

	// String describes the matcher for reports and errors
	String() string
}

// 🎯 Match is one matched span
type Match struct {
	Start int // byte offset of the match in the scanned segment
	End   int // byte offset just past the match

	groups []string
	names  []string
	set    []bool
}

// Text returns the whole matched text
func (m Match) Text() string {
	return m.groups[0]
}

// Group returns capture group i. Group 0 is the whole match. A group that exists but did not
// take part in the match is returned as "".
func (m Match) Group(i int) (string, error) {
	if i < 0 || i >= len(m.groups) {
		return "", errors.Errorf("capture group %d does not exist (matcher has %d)", i, len(m.groups)-1)
	}
	return m.groups[i], nil
}

// Named returns the named capture group
func (m Match) Named(name string) (string, error) {
	for i, n := range m.names {
		if n != "" && n == name {
			return m.groups[i], nil
		}
	}
	return "", errors.Errorf("capture group %q does not exist", name)
}

// Matched reports whether group i took part in the match
func (m Match) Matched(i int) bool {
	return i >= 0 && i < len(m.set) && m.set[i]
}

// 📝 literalMatcher matches an exact substring
type literalMatcher struct {
	text string
}

// Literal matches every occurrence of text exactly
func Literal(text string) Matcher {
	return &literalMatcher{text: text}
}

func (l *literalMatcher) FindAll(s string) []Match {
	if l.text == "" {
		return nil
	}

	var matches []Match
	offset := 0
	for {
		idx := strings.Index(s[offset:], l.text)
		if idx < 0 {
			return matches
		}
		start := offset + idx
		end := start + len(l.text)
		matches = append(matches, Match{
			Start:  start,
			End:    end,
			groups: []string{s[start:end]},
			names:  []string{""},
			set:    []bool{true},
		})
		offset = end
	}
}

func (l *literalMatcher) NumGroups() int      { return 0 }
func (l *literalMatcher) GroupNames() []string { return []string{""} }
func (l *literalMatcher) String() string       { return "literal " + quote(l.text) }

// 🧩 patternMatcher matches a regular expression
type patternMatcher struct {
	re    *regexp.Regexp
	label string
}

// Pattern compiles a regular expression matcher. Capture groups may be numbered or named.
func Pattern(expr string) (Matcher, error) {
	if expr == "" {
		return nil, errors.New("pattern is empty")
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Errorf("compiling pattern %s: %w", quote(expr), err)
	}
	return &patternMatcher{re: re, label: "pattern " + quote(expr)}, nil
}

// MustPattern is like Pattern but panics on a malformed expression.
// Meant for rule tables defined in code.
func MustPattern(expr string) Matcher {
	m, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return m
}

// LiteralFold matches every occurrence of text ignoring case, e.g. hex color codes
func LiteralFold(text string) Matcher {
	return &patternMatcher{
		re:    regexp.MustCompile("(?i)" + regexp.QuoteMeta(text)),
		label: "literal (ignore case) " + quote(text),
	}
}

func (p *patternMatcher) FindAll(s string) []Match {
	locs := p.re.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return nil
	}

	names := p.re.SubexpNames()
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		groups := make([]string, len(loc)/2)
		set := make([]bool, len(loc)/2)
		for i := range groups {
			if loc[2*i] < 0 {
				continue
			}
			groups[i] = s[loc[2*i]:loc[2*i+1]]
			set[i] = true
		}
		matches = append(matches, Match{
			Start:  loc[0],
			End:    loc[1],
			groups: groups,
			names:  names,
			set:    set,
		})
	}
	return matches
}

func (p *patternMatcher) NumGroups() int      { return p.re.NumSubexp() }
func (p *patternMatcher) GroupNames() []string { return p.re.SubexpNames() }
func (p *patternMatcher) String() string       { return p.label }

func quote(s string) string {
	const maxLen = 60
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return "`" + s + "`"
}

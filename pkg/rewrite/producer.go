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
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏭 Producer builds the replacement for a match
type Producer interface {
	// Produce returns the replacement text for m
	Produce(m Match) (string, error)

	// Check verifies at definition time that the producer only refers to groups the matcher has
	Check(mt Matcher) error
}

// 📝 textProducer always returns the same text
type textProducer struct {
	text string
}

// Text replaces every match with text, unexpanded
func Text(text string) Producer {
	return &textProducer{text: text}
}

func (p *textProducer) Produce(Match) (string, error) { return p.text, nil }
func (p *textProducer) Check(Matcher) error           { return nil }

// 🧩 templateProducer expands group references
type templateProducer struct {
	raw   string
	parts []templatePart
}

type templatePart struct {
	literal string
	ref     string // "" for literal parts
}

// Template expands $1, ${1}, $name and ${name} with the match's capture groups; $$ is a literal $.
// A $ that does not start a reference is kept as is. A group that did not take part in the match
// expands to "".
func Template(tmpl string) Producer {
	return &templateProducer{raw: tmpl, parts: parseTemplate(tmpl)}
}

func parseTemplate(tmpl string) []templatePart {
	var parts []templatePart
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, templatePart{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '$' || i+1 >= len(tmpl) {
			lit.WriteByte(c)
			continue
		}

		next := tmpl[i+1]
		switch {
		case next == '$':
			lit.WriteByte('$')
			i++
		case next == '{':
			end := strings.IndexByte(tmpl[i+2:], '}')
			name := ""
			if end >= 0 {
				name = tmpl[i+2 : i+2+end]
			}
			if end < 0 || !isRefName(name) {
				lit.WriteByte(c)
				continue
			}
			flush()
			parts = append(parts, templatePart{ref: name})
			i += 2 + end
		case isRefByte(next):
			j := i + 1
			for j < len(tmpl) && isRefByte(tmpl[j]) {
				j++
			}
			flush()
			parts = append(parts, templatePart{ref: tmpl[i+1 : j]})
			i = j - 1
		default:
			lit.WriteByte(c)
		}
	}
	flush()

	return parts
}

func isRefByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isRefName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isRefByte(s[i]) {
			return false
		}
	}
	return true
}

func (p *templateProducer) Produce(m Match) (string, error) {
	var b strings.Builder
	for _, part := range p.parts {
		if part.ref == "" {
			b.WriteString(part.literal)
			continue
		}

		var (
			val string
			err error
		)
		if n, convErr := strconv.Atoi(part.ref); convErr == nil {
			val, err = m.Group(n)
		} else {
			val, err = m.Named(part.ref)
		}
		if err != nil {
			return "", errors.Errorf("expanding template %s: %w", quote(p.raw), err)
		}
		b.WriteString(val)
	}
	return b.String(), nil
}

func (p *templateProducer) Check(mt Matcher) error {
	names := mt.GroupNames()
	for _, part := range p.parts {
		if part.ref == "" {
			continue
		}
		if n, err := strconv.Atoi(part.ref); err == nil {
			if n > mt.NumGroups() {
				return errors.Errorf("template %s refers to group $%d but %s has %d", quote(p.raw), n, mt, mt.NumGroups())
			}
			continue
		}
		found := false
		for _, name := range names {
			if name == part.ref {
				found = true
				break
			}
		}
		if !found {
			return errors.Errorf("template %s refers to group %q which %s does not define", quote(p.raw), part.ref, mt)
		}
	}
	return nil
}

// 🔧 funcProducer delegates to a function
type funcProducer struct {
	fn        func(Match) (string, error)
	maxGroups int
}

// Func builds the replacement with fn. Errors returned by fn abort the batch.
func Func(fn func(Match) (string, error)) Producer {
	return &funcProducer{fn: fn, maxGroups: -1}
}

// FuncGroups is like Func but declares the highest capture group fn reads, so the rule is
// rejected at definition time when its matcher has fewer groups.
func FuncGroups(groups int, fn func(Match) (string, error)) Producer {
	return &funcProducer{fn: fn, maxGroups: groups}
}

func (p *funcProducer) Produce(m Match) (string, error) {
	return p.fn(m)
}

func (p *funcProducer) Check(mt Matcher) error {
	if p.fn == nil {
		return errors.New("producer function is nil")
	}
	if p.maxGroups > mt.NumGroups() {
		return errors.Errorf("producer reads group $%d but %s has %d", p.maxGroups, mt, mt.NumGroups())
	}
	return nil
}

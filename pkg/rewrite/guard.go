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

// 🛡️ Guard vetoes a match that has already been rewritten.
//
// A rule that injects text must carry a guard that fails on its own output, otherwise running
// the batch twice injects the text twice.
type Guard interface {
	// Skip reports whether m must be left alone. segment is the text the match was found in:
	// the line for line-scoped rules, the whole content otherwise.
	Skip(segment string, m Match) bool
}

// GuardFunc adapts a function to Guard
type GuardFunc func(segment string, m Match) bool

func (f GuardFunc) Skip(segment string, m Match) bool { return f(segment, m) }

type followedBy struct {
	text string
}

// UnlessFollowedBy skips matches immediately followed by text
func UnlessFollowedBy(text string) Guard {
	return &followedBy{text: text}
}

func (g *followedBy) Skip(segment string, m Match) bool {
	return strings.HasPrefix(segment[m.End:], g.text)
}

type followedByPattern struct {
	re *regexp.Regexp
}

// UnlessFollowedByPattern skips matches whose trailing text starts with a match of expr
func UnlessFollowedByPattern(expr string) (Guard, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)`)
	if err != nil {
		return nil, errors.Errorf("compiling guard pattern %s: %w", quote(expr), err)
	}
	return &followedByPattern{re: re}, nil
}

func (g *followedByPattern) Skip(segment string, m Match) bool {
	return g.re.MatchString(segment[m.End:])
}

type segmentContains struct {
	text string
}

// UnlessSegmentContains skips every match in a segment that contains text. Paired with a
// line-scoped rule it reads "leave lines that already carry text alone".
func UnlessSegmentContains(text string) Guard {
	return &segmentContains{text: text}
}

func (g *segmentContains) Skip(segment string, _ Match) bool {
	return strings.Contains(segment, g.text)
}

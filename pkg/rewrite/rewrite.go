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
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📜 Rule is one matcher/producer pair
type Rule struct {
	Name       string
	Matcher    Matcher
	Producer   Producer
	Guards     []Guard
	LineScoped bool // match and rewrite each line on its own
}

// 🔧 RuleOption configures a rule built by NewRule
type RuleOption func(*Rule)

// WithGuards adds idempotence guards
func WithGuards(guards ...Guard) RuleOption {
	return func(r *Rule) {
		r.Guards = append(r.Guards, guards...)
	}
}

// InLines makes the rule line-scoped
func InLines() RuleOption {
	return func(r *Rule) {
		r.LineScoped = true
	}
}

// 🏭 NewRule builds and validates a rule
func NewRule(name string, m Matcher, p Producer, opts ...RuleOption) (*Rule, error) {
	r := &Rule{Name: name, Matcher: m, Producer: p}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustRule is like NewRule but panics on an invalid rule
func MustRule(name string, m Matcher, p Producer, opts ...RuleOption) *Rule {
	r, err := NewRule(name, m, p, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// 🔍 Validate checks the rule at definition time
func (r *Rule) Validate() error {
	if r.Name == "" {
		return &RuleDefinitionError{Err: errors.New("name is required")}
	}
	if r.Matcher == nil {
		return &RuleDefinitionError{Rule: r.Name, Err: errors.New("matcher is required")}
	}
	if lm, ok := r.Matcher.(*literalMatcher); ok && lm.text == "" {
		return &RuleDefinitionError{Rule: r.Name, Err: errors.New("literal is empty")}
	}
	if r.Producer == nil {
		return &RuleDefinitionError{Rule: r.Name, Err: errors.New("producer is required")}
	}
	if err := r.Producer.Check(r.Matcher); err != nil {
		return &RuleDefinitionError{Rule: r.Name, Err: err}
	}
	for i, g := range r.Guards {
		if g == nil {
			return &RuleDefinitionError{Rule: r.Name, Err: errors.Errorf("guard %d is nil", i)}
		}
	}
	return nil
}

func (r *Rule) String() string {
	scope := ""
	if r.LineScoped {
		scope = " (per line)"
	}
	return fmt.Sprintf("%s: %s%s", r.Name, r.Matcher, scope)
}

// 📦 Batch is an ordered list of rules applied to the same content. Later rules see the output
// of earlier ones.
type Batch struct {
	Name  string
	Rules []*Rule
}

// NewBatch builds and validates a batch
func NewBatch(name string, rules ...*Rule) (*Batch, error) {
	b := &Batch{Name: name, Rules: rules}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks every rule in the batch
func (b *Batch) Validate() error {
	for i, r := range b.Rules {
		if r == nil {
			return &RuleDefinitionError{Err: errors.Errorf("batch %q: rule %d is nil", b.Name, i)}
		}
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Concat returns a batch running b's rules followed by others'
func (b *Batch) Concat(name string, others ...*Batch) *Batch {
	out := &Batch{Name: name, Rules: append([]*Rule(nil), b.Rules...)}
	for _, o := range others {
		out.Rules = append(out.Rules, o.Rules...)
	}
	return out
}

// 📊 RuleReport is the outcome of one rule
type RuleReport struct {
	Rule    string
	Matches int  // spans rewritten
	Skipped int  // spans vetoed by a guard
	Changed bool // whether the content differs after the rule
}

// 📋 Report summarizes one application of a batch
type Report struct {
	Batch string
	Rules []RuleReport
}

// Total is the number of spans rewritten by all rules
func (r *Report) Total() int {
	total := 0
	for _, rr := range r.Rules {
		total += rr.Matches
	}
	return total
}

// Changed reports whether any rule changed the content
func (r *Report) Changed() bool {
	for _, rr := range r.Rules {
		if rr.Changed {
			return true
		}
	}
	return false
}

// 🎯 Result holds the content before and after a batch
type Result struct {
	OriginalContent string
	ModifiedContent string
	WasModified     bool
	Report          *Report
}

// 🔄 Apply runs batch over content. It does no I/O. On error nothing of the batch is applied.
func Apply(ctx context.Context, content string, batch *Batch) (*Result, error) {
	if batch == nil {
		return nil, &RuleDefinitionError{Err: errors.New("batch is nil")}
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)

	report := &Report{Batch: batch.Name, Rules: make([]RuleReport, 0, len(batch.Rules))}
	current := content
	for _, rule := range batch.Rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("applying batch %q: %w", batch.Name, err)
		}

		next, rr, err := rule.apply(current)
		if err != nil {
			return nil, err
		}

		logger.Trace().
			Str("rule", rule.Name).
			Int("matches", rr.Matches).
			Int("skipped", rr.Skipped).
			Bool("changed", rr.Changed).
			Msg("applied rule")

		report.Rules = append(report.Rules, rr)
		current = next
	}

	return &Result{
		OriginalContent: content,
		ModifiedContent: current,
		WasModified:     current != content,
		Report:          report,
	}, nil
}

// ♻️ VerifyIdempotent applies batch twice and fails with a RuleDefinitionError naming the first
// rule that matched its own output on the second pass.
func VerifyIdempotent(ctx context.Context, content string, batch *Batch) error {
	first, err := Apply(ctx, content, batch)
	if err != nil {
		return err
	}
	second, err := Apply(ctx, first.ModifiedContent, batch)
	if err != nil {
		return err
	}
	for _, rr := range second.Report.Rules {
		if rr.Changed {
			return &RuleDefinitionError{
				Rule: rr.Rule,
				Err:  errors.Errorf("rule is not idempotent: rewrote %d spans of its own output", rr.Matches),
			}
		}
	}
	return nil
}

func (r *Rule) apply(content string) (out string, rr RuleReport, err error) {
	rr.Rule = r.Name

	defer func() {
		if p := recover(); p != nil {
			err = &RuleDefinitionError{Rule: r.Name, Err: errors.Errorf("producer panicked: %v", p)}
		}
	}()

	if !r.LineScoped {
		out, rr.Matches, rr.Skipped, err = r.applySegment(content)
		if err != nil {
			return "", rr, err
		}
		rr.Changed = out != content
		return out, rr, nil
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		rewritten, n, skipped, lineErr := r.applySegment(line)
		if lineErr != nil {
			return "", rr, lineErr
		}
		lines[i] = rewritten
		rr.Matches += n
		rr.Skipped += skipped
	}
	out = strings.Join(lines, "\n")
	rr.Changed = out != content
	return out, rr, nil
}

func (r *Rule) applySegment(segment string) (string, int, int, error) {
	matches := r.Matcher.FindAll(segment)
	if len(matches) == 0 {
		return segment, 0, 0, nil
	}

	var b strings.Builder
	last, count, skipped := 0, 0, 0
	for _, m := range matches {
		if r.skip(segment, m) {
			skipped++
			continue
		}

		replacement, err := r.Producer.Produce(m)
		if err != nil {
			return "", 0, 0, &RuleDefinitionError{Rule: r.Name, Err: err}
		}

		b.WriteString(segment[last:m.Start])
		b.WriteString(replacement)
		last = m.End
		count++
	}

	if count == 0 {
		return segment, 0, skipped, nil
	}
	b.WriteString(segment[last:])
	return b.String(), count, skipped, nil
}

func (r *Rule) skip(segment string, m Match) bool {
	for _, g := range r.Guards {
		if g.Skip(segment, m) {
			return true
		}
	}
	return false
}

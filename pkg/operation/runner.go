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

package operation

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/resource"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🎯 Target pairs one resource with the batch to run over it
type Target struct {
	Path  string
	Batch *rewrite.Batch
}

// 🔧 Options configures a Runner
type Options struct {
	// Store reads and writes resources
	Store resource.Store
	// DryRun computes and reports changes without writing them
	DryRun bool
	// VerifyIdempotent runs every batch a second time over its own output before writing
	VerifyIdempotent bool
	// Concurrency bounds how many paths RunAll processes at once (default: NumCPU)
	Concurrency int
}

// 📋 Outcome is what one invocation did
type Outcome struct {
	Path    string
	Batch   string
	Report  *rewrite.Report
	Phase   status.Phase
	Outcome status.Outcome
	Written bool
	DryRun  bool
	Diff    string // line diff of the computed change, empty when unchanged
	Err     error  // why the invocation failed, nil unless Outcome is OutcomeFailed
}

// 🏃 Runner executes rewrite invocations against a Store
type Runner struct {
	opts Options
}

// 🏗️ NewRunner creates a new runner
func NewRunner(opts Options) (*Runner, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	return &Runner{opts: opts}, nil
}

// 🏃 Run reads target.Path, applies its batch and writes the result back. Any failure leaves the
// resource untouched; the returned Outcome is non-nil either way and ends in PhaseFailed on error.
func (r *Runner) Run(ctx context.Context, target Target) (*Outcome, error) {
	return r.runWith(ctx, r.opts.Store, target)
}

func (r *Runner) runWith(ctx context.Context, store resource.Store, target Target) (*Outcome, error) {
	out := &Outcome{
		Path:   target.Path,
		Phase:  status.PhaseIdle,
		DryRun: r.opts.DryRun,
	}
	if target.Batch != nil {
		out.Batch = target.Batch.Name
	}

	logger := zerolog.Ctx(ctx).With().Str("path", target.Path).Str("batch", out.Batch).Logger()
	ctx = logger.WithContext(ctx)

	if err := r.run(ctx, store, target, out); err != nil {
		out.Err = err
		out.fail(ctx)
		return out, err
	}
	return out, nil
}

func (r *Runner) run(ctx context.Context, store resource.Store, target Target, out *Outcome) error {
	// 📖 reading
	if err := out.advance(ctx, status.PhaseReading); err != nil {
		return err
	}
	if target.Batch == nil {
		return &rewrite.RuleDefinitionError{Err: errors.New("target has no batch")}
	}
	res, err := store.Read(ctx, target.Path)
	if err != nil {
		return err
	}

	// 🔄 transforming
	if err := out.advance(ctx, status.PhaseTransforming); err != nil {
		return err
	}
	result, err := rewrite.Apply(ctx, res.Content, target.Batch)
	if err != nil {
		return err
	}
	out.Report = result.Report

	if r.opts.VerifyIdempotent {
		if err := rewrite.VerifyIdempotent(ctx, res.Content, target.Batch); err != nil {
			return err
		}
	}

	if !result.WasModified {
		out.Outcome = status.OutcomeUnchanged
		return out.advance(ctx, status.PhaseDone)
	}

	out.Diff = Diff(result.OriginalContent, result.ModifiedContent)

	if r.opts.DryRun {
		if staged, ok := store.(*dryRunOverlay); ok {
			staged.stage(res, result.ModifiedContent)
		}
		out.Outcome = status.OutcomePending
		return out.advance(ctx, status.PhaseDone)
	}

	// ✍️ writing
	if err := out.advance(ctx, status.PhaseWriting); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Errorf("writing %s: %w", target.Path, err)
	}
	if err := store.Write(ctx, res, result.ModifiedContent); err != nil {
		return err
	}
	out.Written = true
	out.Outcome = status.OutcomeModified

	return out.advance(ctx, status.PhaseDone)
}

func (o *Outcome) advance(ctx context.Context, next status.Phase) error {
	if !o.Phase.CanTransition(next) {
		return errors.Errorf("invalid phase transition %s -> %s", o.Phase, next)
	}
	zerolog.Ctx(ctx).Debug().Str("from", o.Phase.String()).Str("to", next.String()).Msg("phase")
	o.Phase = next
	return nil
}

func (o *Outcome) fail(ctx context.Context) {
	if o.Phase.CanTransition(status.PhaseFailed) {
		zerolog.Ctx(ctx).Debug().Str("from", o.Phase.String()).Msg("phase failed")
	}
	o.Phase = status.PhaseFailed
	o.Outcome = status.OutcomeFailed
	o.Written = false
}

// ⚡ RunAll runs every target. Targets on different paths run concurrently; targets that share a
// path run one after another in the order given, so each sees the previous one's output, in a
// dry run too.
// Outcomes are returned in target order. A failing target does not stop the others; all
// failures are joined into the returned error.
func (r *Runner) RunAll(ctx context.Context, targets []Target) ([]*Outcome, error) {
	outcomes := make([]*Outcome, len(targets))
	errs := make([]error, len(targets))

	// group target indexes by path, keeping first-seen order
	var order []string
	byPath := map[string][]int{}
	for i, t := range targets {
		if _, ok := byPath[t.Path]; !ok {
			order = append(order, t.Path)
		}
		byPath[t.Path] = append(byPath[t.Path], i)
	}

	var g errgroup.Group
	g.SetLimit(r.opts.Concurrency)

	for _, path := range order {
		idxs := byPath[path]
		g.Go(func() error {
			store := r.opts.Store
			if r.opts.DryRun && len(idxs) > 1 {
				store = newDryRunOverlay(store)
			}
			for _, i := range idxs {
				outcomes[i], errs[i] = r.runWith(ctx, store, targets[i])
			}
			return nil
		})
	}

	// the group functions never fail, errors are collected per target
	_ = g.Wait()

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return outcomes, errors.Join(failed...)
	}
	return outcomes, nil
}

// 🫧 dryRunOverlay holds what a dry run would have written so the next target on the same path
// reads it. One overlay serves one path's sequence and is never shared between goroutines.
type dryRunOverlay struct {
	resource.Store
	staged map[string]*resource.Resource
}

func newDryRunOverlay(store resource.Store) *dryRunOverlay {
	return &dryRunOverlay{Store: store, staged: map[string]*resource.Resource{}}
}

func (o *dryRunOverlay) Read(ctx context.Context, path string) (*resource.Resource, error) {
	if res, ok := o.staged[path]; ok {
		cp := *res
		return &cp, nil
	}
	return o.Store.Read(ctx, path)
}

func (o *dryRunOverlay) stage(res *resource.Resource, content string) {
	cp := *res
	cp.Content = content
	o.staged[res.Path] = &cp
}

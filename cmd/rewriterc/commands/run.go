package commands

import (
	"context"
	"strings"

	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/resource"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// runFlags are the flags shared by apply and check
type runFlags struct {
	presets  []string
	encoding string
	dryRun   bool
	verify   bool
}

// runPlan is everything needed to run: resolved targets plus the effective settings
type runPlan struct {
	targets  []operation.Target
	encoding string
	dryRun   bool
	verify   bool
}

// 🗺️ plan builds the targets. Explicit paths run the given presets; without paths the rule
// file decides what runs where.
func plan(ctx context.Context, o *opts.RootOpts, flags runFlags, paths []string, encodingSet bool) (*runPlan, error) {
	p := &runPlan{
		encoding: flags.encoding,
		dryRun:   flags.dryRun,
		verify:   flags.verify,
	}

	if len(paths) > 0 {
		if len(flags.presets) == 0 {
			return nil, &rewrite.RuleDefinitionError{Err: errors.New("paths given without --preset: nothing to apply")}
		}
		batch, err := o.Catalog.Combine(strings.Join(flags.presets, "+"), flags.presets...)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			p.targets = append(p.targets, operation.Target{Path: path, Batch: batch})
		}
		return p, nil
	}

	cfg, err := config.Load(ctx, o.ConfigPath())
	if err != nil {
		return nil, err
	}

	// the rule file's presets can be extended from the command line
	if len(flags.presets) > 0 {
		for i := range cfg.Targets {
			cfg.Targets[i].Presets = append(cfg.Targets[i].Presets, flags.presets...)
		}
	}

	targets, err := cfg.Resolve(ctx, o.Catalog)
	if err != nil {
		return nil, err
	}
	p.targets = targets

	if !encodingSet {
		p.encoding = cfg.Encoding
	}
	p.dryRun = p.dryRun || cfg.DryRun
	p.verify = p.verify || cfg.VerifyIdempotent

	return p, nil
}

// 🏃 execute runs the plan and reports every outcome, failed ones included
func execute(ctx context.Context, o *opts.RootOpts, p *runPlan) ([]*operation.Outcome, error) {
	store, err := resource.NewFileStore(p.encoding)
	if err != nil {
		return nil, errors.Errorf("creating store: %w", err)
	}

	runner, err := operation.NewRunner(operation.Options{
		Store:            store,
		DryRun:           p.dryRun,
		VerifyIdempotent: p.verify,
	})
	if err != nil {
		return nil, errors.Errorf("creating runner: %w", err)
	}

	outcomes, runErr := runner.RunAll(ctx, p.targets)

	logger := log.FromContext(ctx)
	for _, out := range outcomes {
		if out == nil {
			continue
		}
		report(ctx, logger, out)
		logger.LogFailure(out.Path, out.Err)
		if p.dryRun {
			logger.LogDiff(out.Path, out.Diff)
		}
	}
	logger.Summary(p.dryRun)
	if p.dryRun {
		logger.Notice("dry run: nothing was written")
	}

	return outcomes, runErr
}

func report(ctx context.Context, logger *log.Logger, out *operation.Outcome) {
	op := log.TargetOperation{
		Path:    out.Path,
		Batch:   out.Batch,
		DryRun:  out.DryRun,
		Outcome: out.Outcome,
	}

	var rules []log.RuleOperation
	if out.Report != nil {
		op.Rules = len(out.Report.Rules)
		op.Total = out.Report.Total()
		for _, rr := range out.Report.Rules {
			rules = append(rules, log.RuleOperation{
				Rule:    rr.Rule,
				Matches: rr.Matches,
				Skipped: rr.Skipped,
				Changed: rr.Changed,
			})
		}
	}

	logger.LogTarget(ctx, op, rules)
}

func pending(outcomes []*operation.Outcome) int {
	n := 0
	for _, out := range outcomes {
		if out != nil && out.Outcome == status.OutcomePending {
			n++
		}
	}
	return n
}

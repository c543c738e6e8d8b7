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

package config

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/resource"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

// 📚 Presets looks up named batches
type Presets interface {
	Get(name string) (*rewrite.Batch, error)
}

// 🔨 Compile builds the rule. Every problem is a *rewrite.RuleDefinitionError.
func (rc RuleConfig) Compile() (*rewrite.Rule, error) {
	fail := func(err error) (*rewrite.Rule, error) {
		return nil, &rewrite.RuleDefinitionError{Rule: rc.Name, Err: err}
	}

	if (rc.Literal == "") == (rc.Pattern == "") {
		return fail(errors.New("exactly one of literal or pattern is required"))
	}
	if rc.UnlessLineContains != "" && !rc.LineScoped {
		return fail(errors.New("unless_line_contains requires line_scoped"))
	}

	var (
		matcher  rewrite.Matcher
		producer rewrite.Producer
	)
	switch {
	case rc.Literal != "" && rc.IgnoreCase:
		matcher = rewrite.LiteralFold(rc.Literal)
		producer = rewrite.Text(rc.Replace)
	case rc.Literal != "":
		matcher = rewrite.Literal(rc.Literal)
		producer = rewrite.Text(rc.Replace)
	default:
		expr := rc.Pattern
		if rc.IgnoreCase {
			expr = "(?i)" + expr
		}
		m, err := rewrite.Pattern(expr)
		if err != nil {
			return fail(err)
		}
		matcher = m
		producer = rewrite.Template(rc.Replace)
	}

	var guards []rewrite.Guard
	if rc.UnlessFollowedBy != "" {
		guards = append(guards, rewrite.UnlessFollowedBy(rc.UnlessFollowedBy))
	}
	if rc.UnlessFollowedByPattern != "" {
		g, err := rewrite.UnlessFollowedByPattern(rc.UnlessFollowedByPattern)
		if err != nil {
			return fail(err)
		}
		guards = append(guards, g)
	}
	if rc.UnlessLineContains != "" {
		guards = append(guards, rewrite.UnlessSegmentContains(rc.UnlessLineContains))
	}

	opts := []rewrite.RuleOption{rewrite.WithGuards(guards...)}
	if rc.LineScoped {
		opts = append(opts, rewrite.InLines())
	}

	return rewrite.NewRule(rc.Name, matcher, producer, opts...)
}

// 📦 Batch assembles the target's batch: preset rules first, in the order listed, then the
// inline rules in declaration order.
func (tc TargetConfig) Batch(presets Presets) (*rewrite.Batch, error) {
	batch := &rewrite.Batch{Name: tc.Name}

	for _, name := range tc.Presets {
		if presets == nil {
			return nil, &rewrite.RuleDefinitionError{Err: errors.Errorf("target %q: preset %q requested but no presets are available", tc.Name, name)}
		}
		preset, err := presets.Get(name)
		if err != nil {
			return nil, &rewrite.RuleDefinitionError{Err: errors.Errorf("target %q: %w", tc.Name, err)}
		}
		batch.Rules = append(batch.Rules, preset.Rules...)
	}

	for _, rc := range tc.Rules {
		rule, err := rc.Compile()
		if err != nil {
			return nil, err
		}
		batch.Rules = append(batch.Rules, rule)
	}

	if err := batch.Validate(); err != nil {
		return nil, err
	}
	return batch, nil
}

// 🗺️ Resolve compiles every target and expands its file globs. Globs are relative to the
// config's directory. All rules are compiled before any file is looked at, so a bad rule
// fails the whole run up front. A glob matching no file is a *resource.ResourceAccessError.
func (cfg *Config) Resolve(ctx context.Context, presets Presets) ([]operation.Target, error) {
	logger := zerolog.Ctx(ctx)

	batches := make([]*rewrite.Batch, len(cfg.Targets))
	for i, tc := range cfg.Targets {
		batch, err := tc.Batch(presets)
		if err != nil {
			return nil, err
		}
		batches[i] = batch
	}

	var targets []operation.Target
	for i, tc := range cfg.Targets {
		files, err := cfg.expand(tc)
		if err != nil {
			return nil, err
		}

		logger.Debug().Str("target", tc.Name).Int("files", len(files)).Int("rules", len(batches[i].Rules)).Msg("resolved target")

		for _, f := range files {
			targets = append(targets, operation.Target{Path: f, Batch: batches[i]})
		}
	}

	return targets, nil
}

func (cfg *Config) expand(tc TargetConfig) ([]string, error) {
	seen := map[string]bool{}
	var files []string

	for _, pattern := range tc.Files {
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(cfg.Dir(), pattern)
		}

		matches, err := doublestar.FilepathGlob(full, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("target %q: expanding %q: %w", tc.Name, pattern, err)
		}

		if len(matches) == 0 {
			return nil, &resource.ResourceAccessError{Path: pattern, Op: "read", Err: fs.ErrNotExist}
		}

		for _, m := range matches {
			if seen[m] {
				continue
			}
			ignored, err := cfg.ignored(tc, m)
			if err != nil {
				return nil, err
			}
			if ignored {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}

	return files, nil
}

func (cfg *Config) ignored(tc TargetConfig, path string) (bool, error) {
	if len(tc.Ignore) == 0 {
		return false, nil
	}
	rel, err := filepath.Rel(cfg.Dir(), path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range tc.Ignore {
		ok, err := doublestar.Match(filepath.ToSlash(pattern), rel)
		if err != nil {
			return false, errors.Errorf("target %q: ignore %q: %w", tc.Name, pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func validGlob(pattern string) bool {
	return doublestar.ValidatePattern(filepath.ToSlash(pattern))
}

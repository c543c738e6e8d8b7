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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/resource"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

// DefaultFileName is looked up in the working directory when no config path is given
const DefaultFileName = ".rewriterc.hcl"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📜 RuleConfig declares one rule inline in a target
type RuleConfig struct {
	Name       string `hcl:"name,label" json:"name" yaml:"name"`
	Literal    string `hcl:"literal,optional" json:"literal,omitempty" yaml:"literal,omitempty"`
	Pattern    string `hcl:"pattern,optional" json:"pattern,omitempty" yaml:"pattern,omitempty"`
	IgnoreCase bool   `hcl:"ignore_case,optional" json:"ignore_case,omitempty" yaml:"ignore_case,omitempty"`
	Replace    string `hcl:"replace,optional" json:"replace" yaml:"replace"`
	LineScoped bool   `hcl:"line_scoped,optional" json:"line_scoped,omitempty" yaml:"line_scoped,omitempty"`

	// idempotence guards
	UnlessFollowedBy        string `hcl:"unless_followed_by,optional" json:"unless_followed_by,omitempty" yaml:"unless_followed_by,omitempty"`
	UnlessFollowedByPattern string `hcl:"unless_followed_by_pattern,optional" json:"unless_followed_by_pattern,omitempty" yaml:"unless_followed_by_pattern,omitempty"`
	UnlessLineContains      string `hcl:"unless_line_contains,optional" json:"unless_line_contains,omitempty" yaml:"unless_line_contains,omitempty"`
}

// 🎯 TargetConfig names a set of files and the rules to run over each of them
type TargetConfig struct {
	Name    string       `hcl:"name,label" json:"name" yaml:"name"`
	Files   []string     `hcl:"files" json:"files" yaml:"files"`
	Ignore  []string     `hcl:"ignore,optional" json:"ignore,omitempty" yaml:"ignore,omitempty"`
	Presets []string     `hcl:"presets,optional" json:"presets,omitempty" yaml:"presets,omitempty"`
	Rules   []RuleConfig `hcl:"rule,block" json:"rules,omitempty" yaml:"rules,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Encoding         string         `hcl:"encoding,optional" json:"encoding,omitempty" yaml:"encoding,omitempty"`
	DryRun           bool           `hcl:"dry_run,optional" json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	VerifyIdempotent bool           `hcl:"verify_idempotent,optional" json:"verify_idempotent,omitempty" yaml:"verify_idempotent,omitempty"`
	Targets          []TargetConfig `hcl:"target,block" json:"targets" yaml:"targets"`

	// directory the config was loaded from, file globs are relative to it
	dir string
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", &resource.ResourceAccessError{Path: path, Op: "read", Err: err})
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", &rewrite.RuleDefinitionError{Err: err})
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.Errorf("resolving config directory: %w", err)
	}
	cfg.dir = abs

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", &rewrite.RuleDefinitionError{Err: err})
	}

	logger.Debug().Int("targets", len(cfg.Targets)).Str("encoding", cfg.Encoding).Msg("configuration loaded")

	return cfg, nil
}

// Dir is the directory file globs are resolved against
func (cfg *Config) Dir() string {
	if cfg.dir == "" {
		return "."
	}
	return cfg.dir
}

// SetDir overrides the directory file globs are resolved against
func (cfg *Config) SetDir(dir string) {
	cfg.dir = dir
}

// 🔍 Validate checks if the configuration is valid. Rule bodies are checked when they are
// compiled, see Resolve.
func (cfg *Config) Validate() error {
	if len(cfg.Targets) == 0 {
		return errors.New("at least one target is required")
	}

	// Set defaults
	if cfg.Encoding == "" {
		cfg.Encoding = "utf-8"
	}

	seen := map[string]bool{}
	for i, t := range cfg.Targets {
		if t.Name == "" {
			return errors.Errorf("target %d: name is required", i)
		}
		if seen[t.Name] {
			return errors.Errorf("target %q: declared twice", t.Name)
		}
		seen[t.Name] = true

		if len(t.Files) == 0 {
			return errors.Errorf("target %q: files is required", t.Name)
		}
		if len(t.Presets) == 0 && len(t.Rules) == 0 {
			return errors.Errorf("target %q: at least one preset or rule is required", t.Name)
		}
		for _, pattern := range append(append([]string{}, t.Files...), t.Ignore...) {
			if !validGlob(pattern) {
				return errors.Errorf("target %q: invalid glob %q", t.Name, pattern)
			}
		}
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	names := make([]string, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		names = append(names, t.Name)
	}
	return fmt.Sprintf("%d targets [%s] (%s)", len(cfg.Targets), strings.Join(names, ", "), cfg.Encoding)
}

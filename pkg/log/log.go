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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/status"
)

// 🎯 TargetOperation describes one target for logging
type TargetOperation struct {
	Path    string // Resource path
	Batch   string // Batch name
	Rules   int    // Number of rules in the batch
	DryRun  bool   // Whether writes are suppressed
	Outcome status.Outcome
	Total   int // Replacements across all rules
}

// 📜 RuleOperation describes one rule's result for logging
type RuleOperation struct {
	Rule    string
	Matches int
	Skipped int
	Changed bool
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.Formatter
	mu        sync.Mutex

	files        int
	changed      int
	replacements int
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
	return NewWithZerolog(console, zlog)
}

// 🏭 NewWithZerolog creates a logger mirroring to an existing zerolog logger
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultFormatter(),
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 LogTarget logs the outcome of one target followed by its rule lines
func (l *Logger) LogTarget(ctx context.Context, op TargetOperation, rules []RuleOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files++
	if op.Outcome == status.OutcomeModified || op.Outcome == status.OutcomePending {
		l.changed++
	}
	l.replacements += op.Total

	fmt.Fprintln(l.console, l.formatter.FormatOutcome(op.Path, op.Outcome, op.Total))
	for _, r := range rules {
		fmt.Fprintln(l.console, l.formatter.FormatRule(r.Rule, r.Matches, r.Skipped))

		l.zlog.Debug().
			Str("file", op.Path).
			Str("rule", r.Rule).
			Int("matches", r.Matches).
			Int("skipped", r.Skipped).
			Bool("changed", r.Changed).
			Msg("rule applied")
	}

	l.zlog.Info().
		Str("file", op.Path).
		Str("batch", op.Batch).
		Int("rules", op.Rules).
		Str("outcome", op.Outcome.String()).
		Int("replacements", op.Total).
		Bool("dry_run", op.DryRun).
		Msg("target rewritten")
}

// 📝 LogDiff prints a pending change
func (l *Logger) LogDiff(path, diff string) {
	if diff == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s %s\n", color.New(color.Faint).Sprint("---"), path)
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(l.console, color.GreenString("%s", line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(l.console, color.RedString("%s", line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprintln(l.console, color.CyanString("%s", line))
		default:
			fmt.Fprintln(l.console, line)
		}
	}
}

// 📝 Summary logs the totals of everything logged so far
func (l *Logger) Summary(dryRun bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := l.formatter.FormatTotal(l.files, l.changed, l.replacements, dryRun)
	fmt.Fprintf(l.console, "\n%s\n", color.New(color.Bold).Sprint(msg))
	l.zlog.Info().
		Int("files", l.files).
		Int("changed", l.changed).
		Int("replacements", l.replacements).
		Bool("dry_run", dryRun).
		Msg("run complete")
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("rewriterc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// ⚠️ Notice prints a warning line
func (l *Logger) Notice(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// ❌ LogFailure prints why a target was aborted. Failed targets are already counted by LogTarget.
func (l *Logger) LogFailure(path string, err error) {
	if err == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, l.formatter.FormatError(path, err))
	l.zlog.Error().Err(err).Str("file", path).Msg("target failed")
}

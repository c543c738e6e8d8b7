package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	ruleIndent   = 4  // spaces to indent rule entries
	nameWidth    = 35 // Base width for file and rule names
	outcomeWidth = 12 // Width for outcome text
)

// Formatter defines how run reports are rendered for the console
type Formatter interface {
	// FormatOutcome formats the header line of one target
	FormatOutcome(path string, outcome Outcome, replacements int) string

	// FormatRule formats one rule's counts
	FormatRule(rule string, matches, skipped int) string

	// FormatTotal formats the closing summary
	FormatTotal(files, changed, replacements int, dryRun bool) string

	// FormatError formats why a target failed
	FormatError(path string, err error) string
}

// DefaultFormatter provides a default implementation of Formatter
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatOutcome formats a target line with a colored symbol
func (f *DefaultFormatter) FormatOutcome(path string, outcome Outcome, replacements int) string {
	var symbol string
	switch outcome {
	case OutcomeModified:
		symbol = color.GreenString("✓")
	case OutcomePending:
		symbol = color.YellowString("⟳")
	case OutcomeFailed:
		symbol = color.RedString("✗")
	default:
		symbol = color.HiBlackString("•")
	}

	return fmt.Sprintf("%s %-*s %-*s %s",
		symbol,
		nameWidth, path,
		outcomeWidth, outcome.String(),
		pluralize(replacements, "replacement"),
	)
}

// FormatRule formats a rule line. Zero matches is a normal outcome and is shown dimmed.
func (f *DefaultFormatter) FormatRule(rule string, matches, skipped int) string {
	symbol := color.CyanString("⟳")
	if matches == 0 {
		symbol = color.HiBlackString("-")
	}

	line := fmt.Sprintf("%s%s %-*s %s",
		strings.Repeat(" ", ruleIndent),
		symbol,
		nameWidth, rule,
		pluralize(matches, "match"),
	)
	if skipped > 0 {
		line += color.HiBlackString(" (%d already applied)", skipped)
	}
	return line
}

// FormatTotal formats the summary line
func (f *DefaultFormatter) FormatTotal(files, changed, replacements int, dryRun bool) string {
	verb := "rewrote"
	if dryRun {
		verb = "would rewrite"
	}
	return fmt.Sprintf("%s %d of %s, %s in total",
		verb, changed, pluralize(files, "file"), pluralize(replacements, "replacement"))
}

// FormatError formats a failed target with the failure symbol
func (f *DefaultFormatter) FormatError(path string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s %s: %v", color.RedString("✗"), path, err)
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	if strings.HasSuffix(noun, "ch") {
		return fmt.Sprintf("%d %ses", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

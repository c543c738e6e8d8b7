package status

import (
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

// 🧪 TestDefaultFormatter tests the default formatter implementation
func TestDefaultFormatter(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	f := NewDefaultFormatter()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "modified_outcome",
			got:  f.FormatOutcome("App.tsx", OutcomeModified, 2),
			want: "✓ App.tsx                             modified     2 replacements",
		},
		{
			name: "pending_outcome",
			got:  f.FormatOutcome("App.tsx", OutcomePending, 1),
			want: "⟳ App.tsx                             pending      1 replacement",
		},
		{
			name: "unchanged_outcome",
			got:  f.FormatOutcome("App.tsx", OutcomeUnchanged, 0),
			want: "• App.tsx                             unchanged    0 replacements",
		},
		{
			name: "failed_outcome",
			got:  f.FormatOutcome("App.tsx", OutcomeFailed, 0),
			want: "✗ App.tsx                             failed       0 replacements",
		},
		{
			name: "rule_with_matches",
			got:  f.FormatRule("menu-grid", 2, 0),
			want: "    ⟳ menu-grid                           2 matches",
		},
		{
			name: "rule_without_matches",
			got:  f.FormatRule("menu-grid", 0, 0),
			want: "    - menu-grid                           0 matches",
		},
		{
			name: "rule_with_skipped",
			got:  f.FormatRule("font-size", 1, 3),
			want: "    ⟳ font-size                           1 match (3 already applied)",
		},
		{
			name: "total",
			got:  f.FormatTotal(3, 1, 4, false),
			want: "rewrote 1 of 3 files, 4 replacements in total",
		},
		{
			name: "total_dry_run",
			got:  f.FormatTotal(1, 1, 1, true),
			want: "would rewrite 1 of 1 file, 1 replacement in total",
		},
		{
			name: "error",
			got:  f.FormatError("App.tsx", errors.New("boom")),
			want: "✗ App.tsx: boom",
		},
		{
			name: "nil_error",
			got:  f.FormatError("App.tsx", nil),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

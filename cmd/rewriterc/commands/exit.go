package commands

import (
	"github.com/walteh/rewriterc/pkg/resource"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

// Process exit codes
const (
	ExitOK             = 0
	ExitFailure        = 1 // anything else, including pending changes in check
	ExitResourceAccess = 2
	ExitRuleDefinition = 3
)

// 🚪 ExitCode maps an error to the process exit code. Rule definition errors win over
// resource errors when both are joined into err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var rde *rewrite.RuleDefinitionError
	if errors.As(err, &rde) {
		return ExitRuleDefinition
	}

	var rae *resource.ResourceAccessError
	if errors.As(err, &rae) {
		return ExitResourceAccess
	}

	return ExitFailure
}

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
	"fmt"
)

// ❌ RuleDefinitionError reports a rule that is internally inconsistent: a bad pattern, a
// reference to a missing capture group or a producer that failed to build a replacement.
// It is a configuration defect and is never retried.
type RuleDefinitionError struct {
	Rule string
	Err  error
}

func (e *RuleDefinitionError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("invalid rule: %v", e.Err)
	}
	return fmt.Sprintf("rule %q: %v", e.Rule, e.Err)
}

func (e *RuleDefinitionError) Unwrap() error {
	return e.Err
}

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
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// 🔍 Diff renders the line-level change from before to after. Each run of changed lines is
// introduced by "@@ -N @@", N being the 1-based line in before where it starts; removed lines
// are prefixed "-" and added lines "+". Unchanged content yields "".
func Diff(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	line := 1
	open := false
	for _, d := range diffs {
		chunk := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			line += len(chunk)
			open = false
		case diffmatchpatch.DiffDelete:
			if !open {
				fmt.Fprintf(&sb, "@@ -%d @@\n", line)
				open = true
			}
			for _, l := range chunk {
				sb.WriteString("-" + l + "\n")
			}
			line += len(chunk)
		case diffmatchpatch.DiffInsert:
			if !open {
				fmt.Fprintf(&sb, "@@ -%d @@\n", line)
				open = true
			}
			for _, l := range chunk {
				sb.WriteString("+" + l + "\n")
			}
		}
	}
	return sb.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

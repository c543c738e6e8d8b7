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

package status

// 📊 Phase is where a single rewrite invocation is
type Phase int

const (
	PhaseIdle         Phase = iota
	PhaseReading            // acquiring the resource content
	PhaseTransforming       // applying the batch in memory
	PhaseWriting            // persisting the rewritten content
	PhaseDone               // finished, written or not
	PhaseFailed             // aborted, nothing written
)

// String returns a string representation of Phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseReading:
		return "reading"
	case PhaseTransforming:
		return "transforming"
	case PhaseWriting:
		return "writing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// CanTransition reports whether an invocation may move from p to next.
//
//	Idle -> Reading -> Transforming -> Writing -> Done
//	                        \------------------> Done (nothing to write)
//	Reading, Transforming, Writing -> Failed
func (p Phase) CanTransition(next Phase) bool {
	switch p {
	case PhaseIdle:
		return next == PhaseReading
	case PhaseReading:
		return next == PhaseTransforming || next == PhaseFailed
	case PhaseTransforming:
		return next == PhaseWriting || next == PhaseDone || next == PhaseFailed
	case PhaseWriting:
		return next == PhaseDone || next == PhaseFailed
	default:
		return false
	}
}

// 📄 Outcome is what an invocation did to its resource
type Outcome int

const (
	OutcomeUnknown   Outcome = iota
	OutcomeUnchanged         // no rule changed the content
	OutcomeModified          // content rewritten and written back
	OutcomePending           // content would change, dry-run
	OutcomeFailed            // invocation aborted
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeModified:
		return "modified"
	case OutcomePending:
		return "pending"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

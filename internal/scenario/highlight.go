// internal/scenario/highlight.go
package scenario

import "github.com/meditrain/simstudio/internal/models"

// Outcome tags a highlighted transition target.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFail    Outcome = "fail"
)

// TargetSet maps a target state id to the outcome that reaches it. It is
// ephemeral UI state, recomputed on every hover or focus change.
type TargetSet map[string]Outcome

// EventTargets derives the highlight set for a focused event: its success
// target then its time-limit-fail target, empty fields omitted. When both
// fields name the same state the fail entry wins, because it is inserted
// second (last-write-wins).
func EventTargets(e models.Event) TargetSet {
	targets := TargetSet{}
	if e.OnAllTodosSuccess != "" {
		targets[e.OnAllTodosSuccess] = OutcomeSuccess
	}
	if e.OnTimeLimitFail != "" {
		targets[e.OnTimeLimitFail] = OutcomeFail
	}
	return targets
}

// TodoTargets derives the highlight set for a focused task. Only decision
// and must-not tasks carry transition semantics.
func TodoTargets(t models.Todo) TargetSet {
	targets := TargetSet{}
	switch t.Type {
	case models.TaskDecision:
		if t.SuccessStateID != "" {
			targets[t.SuccessStateID] = OutcomeSuccess
		}
	case models.TaskMustNot:
		if t.FailStateID != "" {
			targets[t.FailStateID] = OutcomeFail
		}
	}
	return targets
}

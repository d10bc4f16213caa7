// internal/scenario/lint.go
package scenario

import (
	"fmt"

	"github.com/meditrain/simstudio/internal/models"
)

// Finding describes one tolerated inconsistency in a document. The editor
// never repairs dangling references on delete, so documents accumulate them
// legitimately; Lint makes them visible without making them errors.
type Finding struct {
	Kind    string `json:"kind"` // dangling_role, dangling_state, dangling_event
	StateID string `json:"state_id,omitempty"`
	EventID string `json:"event_id,omitempty"`
	TodoID  string `json:"todo_id,omitempty"`
	Field   string `json:"field"`
	Target  string `json:"target"`
	Message string `json:"message"`
}

// Lint scans a document for references that no longer resolve: role ids on
// events, state ids in transition fields, and event ids in trigger values.
// Every finding is advisory; a runtime must treat each dangling target as
// "no transition" rather than failing.
func Lint(doc models.ScenarioData) []Finding {
	roleIDs := make(map[string]bool, len(doc.Roles))
	for _, r := range doc.Roles {
		roleIDs[r.ID] = true
	}
	stateIDs := make(map[string]bool, len(doc.States))
	for _, s := range doc.States {
		stateIDs[s.ID] = true
	}

	var findings []Finding

	danglingState := func(stateID, eventID, todoID, field, target string) {
		findings = append(findings, Finding{
			Kind:    "dangling_state",
			StateID: stateID,
			EventID: eventID,
			TodoID:  todoID,
			Field:   field,
			Target:  target,
			Message: fmt.Sprintf("%s points at missing state %q", field, target),
		})
	}

	for _, s := range doc.States {
		eventIDs := make(map[string]bool, len(s.Events))
		for _, e := range s.Events {
			eventIDs[e.ID] = true
		}

		for _, e := range s.Events {
			if e.RoleID != "" && !roleIDs[e.RoleID] {
				findings = append(findings, Finding{
					Kind:    "dangling_role",
					StateID: s.ID,
					EventID: e.ID,
					Field:   "role_id",
					Target:  e.RoleID,
					Message: fmt.Sprintf("role_id points at missing role %q", e.RoleID),
				})
			}

			// Event-referencing triggers are only meaningful within the
			// same state.
			if (e.TriggerType == models.TriggerEvent || e.TriggerType == models.TriggerSimultaneous) &&
				e.TriggerValue != "" && !eventIDs[e.TriggerValue] {
				findings = append(findings, Finding{
					Kind:    "dangling_event",
					StateID: s.ID,
					EventID: e.ID,
					Field:   "trigger_value",
					Target:  e.TriggerValue,
					Message: fmt.Sprintf("trigger_value points at missing event %q", e.TriggerValue),
				})
			}

			if e.OnAllTodosSuccess != "" && !stateIDs[e.OnAllTodosSuccess] {
				danglingState(s.ID, e.ID, "", "on_all_todos_success", e.OnAllTodosSuccess)
			}
			if e.OnTimeLimitFail != "" && !stateIDs[e.OnTimeLimitFail] {
				danglingState(s.ID, e.ID, "", "on_time_limit_fail", e.OnTimeLimitFail)
			}

			for _, t := range e.Todos {
				if t.SuccessStateID != "" && !stateIDs[t.SuccessStateID] {
					danglingState(s.ID, e.ID, t.ID, "success_state_id", t.SuccessStateID)
				}
				if t.FailStateID != "" && !stateIDs[t.FailStateID] {
					danglingState(s.ID, e.ID, t.ID, "fail_state_id", t.FailStateID)
				}
			}
		}
	}

	return findings
}

package agent

import "fmt"

// StatusKind discriminates the closed set of AgentStatus variants (spec
// component C4, §3).
type StatusKind string

const (
	// StatusInProgress means the step loop should continue.
	StatusInProgress StatusKind = "in_progress"
	// StatusWaitingForTools means the last Assistant message issued tool
	// calls; the next step must execute them.
	StatusWaitingForTools StatusKind = "waiting_for_tools"
	// StatusHandoffRequested means control must transfer to another agent
	// before continuing.
	StatusHandoffRequested StatusKind = "handoff_requested"
	// StatusComplete is terminal: the last Assistant message is a final
	// response with no tool calls and no handoff.
	StatusComplete StatusKind = "complete"
	// StatusFailed is terminal: an unrecoverable error was reached.
	StatusFailed StatusKind = "failed"
)

// AgentStatus is a tagged variant over the agent's lifecycle (spec.md §3).
// Only the fields relevant to Kind are populated; the zero value is
// StatusInProgress.
type AgentStatus struct {
	kind         StatusKind
	handoffID    HandoffID
	reason       string
	errorMessage string
}

// InProgress constructs the InProgress status.
func InProgress() AgentStatus { return AgentStatus{kind: StatusInProgress} }

// WaitingForTools constructs the WaitingForTools status.
func WaitingForTools() AgentStatus { return AgentStatus{kind: StatusWaitingForTools} }

// HandoffRequested constructs the HandoffRequested status for handoffID.
// reason is optional; pass "" when the handoff tool call carried none.
func HandoffRequested(handoffID HandoffID, reason string) AgentStatus {
	return AgentStatus{kind: StatusHandoffRequested, handoffID: handoffID, reason: reason}
}

// Complete constructs the Complete status.
func Complete() AgentStatus { return AgentStatus{kind: StatusComplete} }

// Failed constructs the Failed status with a non-empty error message.
func Failed(errorMessage string) AgentStatus {
	return AgentStatus{kind: StatusFailed, errorMessage: errorMessage}
}

// Kind returns the status variant.
func (s AgentStatus) Kind() StatusKind {
	if s.kind == "" {
		return StatusInProgress
	}
	return s.kind
}

// IsTerminal reports whether the status is Complete or Failed.
func (s AgentStatus) IsTerminal() bool {
	return s.kind == StatusComplete || s.kind == StatusFailed
}

// HandoffID returns the pending handoff identifier and true, only when
// Kind() == StatusHandoffRequested.
func (s AgentStatus) HandoffID() (HandoffID, bool) {
	if s.kind != StatusHandoffRequested {
		return "", false
	}
	return s.handoffID, true
}

// Reason returns the handoff's optional transfer reason and whether one was
// set, only meaningful when Kind() == StatusHandoffRequested.
func (s AgentStatus) Reason() (string, bool) {
	if s.kind != StatusHandoffRequested || s.reason == "" {
		return "", false
	}
	return s.reason, true
}

// ErrorMessage returns the failure description, only meaningful when
// Kind() == StatusFailed.
func (s AgentStatus) ErrorMessage() string { return s.errorMessage }

// String renders a short debug form of the status.
func (s AgentStatus) String() string {
	switch s.kind {
	case StatusHandoffRequested:
		if s.reason != "" {
			return fmt.Sprintf("handoff_requested(%s, %q)", s.handoffID, s.reason)
		}
		return fmt.Sprintf("handoff_requested(%s)", s.handoffID)
	case StatusFailed:
		return fmt.Sprintf("failed(%s)", s.errorMessage)
	default:
		return string(s.kind)
	}
}

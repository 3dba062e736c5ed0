package session

import (
	"fmt"

	"bridge-lite/auction"
)

// SessionError reports why a Spec could not be normalized. StepIndex is the
// auction position at fault, or -1 for header fields.
type SessionError struct {
	StepIndex int            `json:"step_index"`
	Reason    string         `json:"reason"`
	Message   string         `json:"message"`
	Expected  *ExpectedState `json:"expected,omitempty"`
}

// ExpectedState is what the auction expected at the failing step.
type ExpectedState struct {
	Seat       auction.Seat   `json:"seat"`
	LegalCalls []auction.Call `json:"legal_calls,omitempty"`
}

func (e *SessionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("session error(step=%d reason=%s): %s", e.StepIndex, e.Reason, e.Message)
}

func headerError(reason, format string, args ...any) *SessionError {
	return &SessionError{StepIndex: -1, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

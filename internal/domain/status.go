package domain

import "fmt"

// CaseStatus represents the lifecycle state of a support case.
// Using typed constants instead of raw strings provides compile-time safety
// and prevents typos that could bypass transition validation.
type CaseStatus string

const (
	// StatusReceived indicates the case has been recorded but not yet translated.
	StatusReceived CaseStatus = "received"

	// StatusTranslated indicates the original text has been translated to English.
	StatusTranslated CaseStatus = "translated"

	// StatusForwarded indicates the English text has been submitted to the manufacturer.
	StatusForwarded CaseStatus = "forwarded"

	// StatusAwaitingReply indicates the case is waiting on the manufacturer.
	StatusAwaitingReply CaseStatus = "awaiting_reply"

	// StatusReplyReceived indicates a manufacturer reply has been recorded.
	StatusReplyReceived CaseStatus = "reply_received"

	// StatusTranslatedBack indicates the reply has been translated to the
	// requester's language.
	StatusTranslatedBack CaseStatus = "translated_back"

	// StatusPendingApproval indicates the translated reply awaits a human
	// or automatic approval decision.
	StatusPendingApproval CaseStatus = "pending_approval"

	// StatusReminderSent indicates an overdue reminder has been dispatched
	// while the case still awaits a reply.
	StatusReminderSent CaseStatus = "reminder_sent"

	// StatusApproved indicates the reply was approved and sent to the requester.
	StatusApproved CaseStatus = "approved"

	// StatusRejected indicates the translated reply was rejected during review.
	StatusRejected CaseStatus = "rejected"

	// StatusClosed indicates the case is finished and immutable.
	StatusClosed CaseStatus = "closed"
)

// String returns the wire representation of the status.
func (s CaseStatus) String() string { return string(s) }

// transitions is the closed set of legal status transitions.
// StatusReminderSent keeps the case eligible for a reply: a manufacturer
// answer arriving after a reminder still moves to StatusReplyReceived.
var transitions = map[CaseStatus][]CaseStatus{
	StatusReceived:        {StatusTranslated},
	StatusTranslated:      {StatusForwarded},
	StatusForwarded:       {StatusAwaitingReply},
	StatusAwaitingReply:   {StatusReplyReceived, StatusReminderSent},
	StatusReminderSent:    {StatusReplyReceived},
	StatusReplyReceived:   {StatusTranslatedBack},
	StatusTranslatedBack:  {StatusPendingApproval},
	StatusPendingApproval: {StatusApproved, StatusRejected},
	StatusApproved:        {StatusClosed},
	StatusRejected:        {StatusClosed},
	StatusClosed:          nil,
}

// IsValid reports whether the status is one of the defined constants.
func (s CaseStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible.
func (s CaseStatus) IsTerminal() bool { return s == StatusClosed }

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s CaseStatus) CanTransitionTo(next CaseStatus) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseCaseStatus converts a stored string into a CaseStatus.
// Returns an error for values outside the closed set so corrupt rows
// surface loudly instead of flowing through the state machine.
func ParseCaseStatus(raw string) (CaseStatus, error) {
	s := CaseStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: unknown case status %q", ErrValidation, raw)
	}
	return s, nil
}

// TransitionError indicates an operation was invoked on a case whose current
// status does not permit the requested transition. It carries both states so
// callers can report precisely what was attempted.
type TransitionError struct {
	CaseID string
	From   CaseStatus
	To     CaseStatus
}

// Error returns a formatted description of the illegal transition.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("case %s: illegal transition %s -> %s", e.CaseID, e.From, e.To)
}

// NewTransitionError creates a TransitionError for the given case and states.
func NewTransitionError(caseID string, from, to CaseStatus) *TransitionError {
	return &TransitionError{CaseID: caseID, From: from, To: to}
}

// Package domain provides the core types and business rules for support case
// processing. It defines the Case aggregate, its status state machine, the
// manufacturer registry, and the sentinel errors shared across the engine and
// its collaborators. Types are designed so the lifecycle invariants (set-once
// timestamps, unique task numbers, legal transitions) are enforced by the
// aggregate itself rather than by callers.
package domain

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// validate is the package-level validator instance used for struct validation.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Case is the aggregate root for one support request. The engine owns all
// mutations; stores persist snapshots. Optional timestamps use the zero value
// for "unset" and are written at most once, in order of occurrence.
type Case struct {
	// ID uniquely identifies the case. Assigned at creation, immutable.
	ID string `json:"case_id" validate:"required,uuid"`

	// Owner identifies the requester, typically an email address.
	// Immutable after creation.
	Owner string `json:"owner" validate:"required,email"`

	// OriginalText is the request exactly as submitted by the requester.
	OriginalText string `json:"original_text" validate:"required,min=1,max=10000"`

	// OriginalLanguage is the detected ISO 639-1 code of OriginalText.
	// Set once when intake translation completes.
	OriginalLanguage string `json:"original_language,omitempty"`

	// OriginalLanguageName is the human-readable name for OriginalLanguage.
	OriginalLanguageName string `json:"original_language_name,omitempty"`

	// TranslatedText is the English rendition forwarded to the manufacturer.
	// Set once during intake, never overwritten.
	TranslatedText string `json:"translated_text,omitempty"`

	// ManufacturerID selects the manufacturer the case is forwarded to. Immutable.
	ManufacturerID string `json:"manufacturer_id" validate:"required"`

	// ManufacturerName is the display name resolved from the registry at creation.
	ManufacturerName string `json:"manufacturer_name,omitempty"`

	// TaskNumber is the opaque correlation token issued by the manufacturer
	// channel. Set exactly once and unique across all cases.
	TaskNumber string `json:"task_number,omitempty"`

	// ManufacturerReply holds the manufacturer's answer. Set exactly once;
	// the system does not model multi-round replies.
	ManufacturerReply string `json:"manufacturer_reply,omitempty"`

	// ReplyTranslated holds the reply translated back to OriginalLanguage.
	ReplyTranslated string `json:"reply_translated,omitempty"`

	// Status is the current lifecycle state, see the transition table in status.go.
	Status CaseStatus `json:"status" validate:"required"`

	// Notes carries free-form reviewer remarks recorded at approval or rejection.
	Notes string `json:"notes,omitempty"`

	// Audit timestamps, each written at most once, in order of occurrence.
	SubmittedAt     time.Time `json:"submitted_at"`
	ForwardedAt     time.Time `json:"forwarded_at,omitempty"`
	ReplyReceivedAt time.Time `json:"reply_received_at,omitempty"`
	ReminderSentAt  time.Time `json:"reminder_sent_at,omitempty"`
	ApprovedAt      time.Time `json:"approved_at,omitempty"`

	// ReminderSent flips true exactly once, guarding duplicate reminder dispatch.
	ReminderSent bool `json:"reminder_sent"`

	// NeedsApproval is true from reply translation until the review decision.
	NeedsApproval bool `json:"needs_approval"`

	// Version supports optimistic concurrency in stores. Incremented on every
	// persisted update; zero for a case never stored.
	Version int64 `json:"version"`
}

// NewCase creates a case in StatusReceived with a generated UUID and the
// current wall-clock submission time.
//
// Do not call inside Temporal workflow code: uuid.New and time.Now are
// nondeterministic. Use MakeCase there with workflow-supplied values.
func NewCase(owner, originalText, manufacturerID string) (*Case, error) {
	return MakeCase(uuid.New().String(), time.Now().UTC(), owner, originalText, manufacturerID)
}

// MakeCase creates a case from caller-supplied ID and submission time, which
// makes it safe for deterministic contexts. Returns ErrValidation-wrapped
// errors for malformed input.
func MakeCase(id string, submittedAt time.Time, owner, originalText, manufacturerID string) (*Case, error) {
	c := &Case{
		ID:             id,
		Owner:          owner,
		OriginalText:   originalText,
		ManufacturerID: manufacturerID,
		Status:         StatusReceived,
		SubmittedAt:    submittedAt,
	}

	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return c, nil
}

// Validate checks the case against its structural constraints.
func (c *Case) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// RecordTranslation stores the intake translation result and moves the case
// to StatusTranslated. TranslatedText is set once; calling this on a case
// past StatusReceived is an illegal transition.
func (c *Case) RecordTranslation(english, langCode, langName string) error {
	if !c.Status.CanTransitionTo(StatusTranslated) {
		return NewTransitionError(c.ID, c.Status, StatusTranslated)
	}

	c.TranslatedText = english
	c.OriginalLanguage = langCode
	c.OriginalLanguageName = langName
	c.Status = StatusTranslated
	return nil
}

// RecordForwarded binds the task number issued by the manufacturer channel and
// moves the case through StatusForwarded to StatusAwaitingReply. ForwardedAt
// must not precede SubmittedAt.
func (c *Case) RecordForwarded(taskNumber string, at time.Time) error {
	if !c.Status.CanTransitionTo(StatusForwarded) {
		return NewTransitionError(c.ID, c.Status, StatusForwarded)
	}
	if taskNumber == "" {
		return fmt.Errorf("%w: empty task number", ErrValidation)
	}
	if at.Before(c.SubmittedAt) {
		return fmt.Errorf("%w: forwarded_at precedes submitted_at", ErrValidation)
	}

	c.TaskNumber = taskNumber
	c.ForwardedAt = at
	c.Status = StatusAwaitingReply
	return nil
}

// RecordReply stores the manufacturer reply and its translation, then moves
// the case to StatusPendingApproval. A second reply for the same case is
// rejected with ErrReplyAlreadyReceived; there are no re-open semantics.
func (c *Case) RecordReply(reply, translated string, at time.Time) error {
	if c.ManufacturerReply != "" {
		return fmt.Errorf("case %s: %w", c.ID, ErrReplyAlreadyReceived)
	}
	if !c.Status.CanTransitionTo(StatusReplyReceived) {
		return NewTransitionError(c.ID, c.Status, StatusReplyReceived)
	}
	if reply == "" || translated == "" {
		return fmt.Errorf("%w: empty reply", ErrValidation)
	}

	c.ManufacturerReply = reply
	c.ReplyReceivedAt = at
	c.ReplyTranslated = translated
	c.NeedsApproval = true
	c.Status = StatusPendingApproval
	return nil
}

// RecordReminderSent flips the at-most-once reminder guard and moves the case
// to StatusReminderSent. A reminder can only follow StatusAwaitingReply and
// never fires twice for the same case.
func (c *Case) RecordReminderSent(at time.Time) error {
	if c.ReminderSent {
		return fmt.Errorf("case %s: reminder already sent", c.ID)
	}
	if !c.Status.CanTransitionTo(StatusReminderSent) {
		return NewTransitionError(c.ID, c.Status, StatusReminderSent)
	}

	c.ReminderSent = true
	c.ReminderSentAt = at
	c.Status = StatusReminderSent
	return nil
}

// Approve records the review decision on a pending case.
func (c *Case) Approve(at time.Time, notes string) error {
	if !c.Status.CanTransitionTo(StatusApproved) {
		return NewTransitionError(c.ID, c.Status, StatusApproved)
	}

	c.Status = StatusApproved
	c.ApprovedAt = at
	c.NeedsApproval = false
	if notes != "" {
		c.Notes = notes
	}
	return nil
}

// Reject records a negative review decision on a pending case.
func (c *Case) Reject(notes string) error {
	if !c.Status.CanTransitionTo(StatusRejected) {
		return NewTransitionError(c.ID, c.Status, StatusRejected)
	}

	c.Status = StatusRejected
	c.NeedsApproval = false
	if notes != "" {
		c.Notes = notes
	}
	return nil
}

// Close finishes a reviewed case. Closed cases are immutable.
func (c *Case) Close() error {
	if !c.Status.CanTransitionTo(StatusClosed) {
		return NewTransitionError(c.ID, c.Status, StatusClosed)
	}
	c.Status = StatusClosed
	return nil
}

// AwaitingReply reports whether the case is still waiting on the manufacturer,
// with or without a reminder already dispatched.
func (c *Case) AwaitingReply() bool {
	return c.Status == StatusAwaitingReply || c.Status == StatusReminderSent
}

// Clone returns a deep copy of the case. Stores hand out clones so callers
// cannot mutate persisted state behind the engine's back.
func (c *Case) Clone() *Case {
	cp := *c
	return &cp
}

package domain

import "errors"

// Sentinel errors returned by domain and engine operations. Collaborator
// failures are wrapped with these so callers can branch with errors.Is
// without depending on adapter-specific error types.
var (
	// ErrValidation indicates malformed input rejected before any collaborator call.
	ErrValidation = errors.New("invalid case input")

	// ErrCaseNotFound indicates a lookup miss by case ID or task number.
	ErrCaseNotFound = errors.New("case not found")

	// ErrTranslation indicates the translator collaborator failed.
	// The case is not created when this occurs during intake.
	ErrTranslation = errors.New("translation failed")

	// ErrChannel indicates the manufacturer channel failed. No partial case
	// state is persisted when this occurs during intake.
	ErrChannel = errors.New("manufacturer channel failed")

	// ErrNotification indicates the notifier failed. Notification failures are
	// reported but never roll back workflow state.
	ErrNotification = errors.New("notification failed")

	// ErrDuplicateTaskNumber indicates the manufacturer channel issued a task
	// number that is already bound to another case. Task numbers are permanently
	// unique; a collision is a hard error.
	ErrDuplicateTaskNumber = errors.New("duplicate task number")

	// ErrReplyAlreadyReceived indicates a second reply arrived for a task number
	// whose case already holds one. Replies are recorded exactly once.
	ErrReplyAlreadyReceived = errors.New("reply already received")

	// ErrUnknownManufacturer indicates the manufacturer ID is not registered.
	ErrUnknownManufacturer = errors.New("unknown manufacturer")
)

package activity

import (
	"errors"

	"go.temporal.io/sdk/temporal"

	"github.com/casekit/caseflow/internal/domain"
)

// nonRetryable wraps an error as a Temporal non-retryable application error.
// The tag categorizes the failure for monitoring.
func nonRetryable(tag string, cause error, msg string) error {
	return temporal.NewNonRetryableApplicationError(msg, tag, cause)
}

// classify maps engine errors onto Temporal retry semantics. Business
// failures (bad input, illegal transitions, duplicate replies) never resolve
// on retry; everything else (store, channel, translator outages) is left
// retryable under the workflow's retry policy.
func classify(tag string, err error) error {
	var transition *domain.TransitionError
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUnknownManufacturer),
		errors.Is(err, domain.ErrCaseNotFound),
		errors.Is(err, domain.ErrReplyAlreadyReceived),
		errors.Is(err, domain.ErrDuplicateTaskNumber),
		errors.As(err, &transition):
		return nonRetryable(tag, err, err.Error())
	default:
		return err
	}
}

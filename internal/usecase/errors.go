package usecase

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodePersonLookupFailed       ErrorCode = "PERSON_LOOKUP_FAILED"
	CodeConversationLookupFailed ErrorCode = "CONVERSATION_LOOKUP_FAILED"
	CodePersistFailed            ErrorCode = "PERSIST_FAILED"
	CodeCatalogUnavailable       ErrorCode = "CATALOG_UNAVAILABLE"
	CodeClassifierFailed         ErrorCode = "CLASSIFIER_FAILED"
	CodeSendFailed               ErrorCode = "SEND_FAILED"
	CodeInvalidState             ErrorCode = "INVALID_STATE"
	CodeProfileUnavailable       ErrorCode = "PROFILE_UNAVAILABLE"
)

// ProcessingError reports a failed step while handling one message or
// solicitation. It never changes the webhook's HTTP status.
type ProcessingError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ProcessingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func IsProcessingError(err error) bool {
	var pe *ProcessingError
	return errors.As(err, &pe)
}

// ErrorCodeOf returns the code of the first ProcessingError in err's chain.
func ErrorCodeOf(err error) ErrorCode {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

func newProcessingError(code ErrorCode, message string, err error) *ProcessingError {
	return &ProcessingError{Code: code, Message: message, Err: err}
}

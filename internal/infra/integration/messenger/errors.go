package messenger

import "errors"

var (
	ErrSignatureInvalid  = errors.New("messenger: invalid payload signature")
	ErrMalformedPayload  = errors.New("messenger: malformed payload")
	ErrUnknownObjectType = errors.New("messenger: unknown object type")
)

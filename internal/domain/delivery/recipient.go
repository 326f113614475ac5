package delivery

import "errors"

// Recipient errors shared by adapters.
var (
	ErrNoRecipient      = errors.New("recipient is empty")
	ErrInvalidRecipient = errors.New("recipient is malformed")
)

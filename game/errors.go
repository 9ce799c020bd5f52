package game

import "errors"

// Domain errors, all recoverable; callers surface them as transient messages
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrItemNotOwned      = errors.New("item not owned")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnknownItem       = errors.New("unknown item")
	ErrNotUsable         = errors.New("item cannot be used directly")
)

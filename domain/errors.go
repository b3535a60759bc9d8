package domain

import (
	"errors"
	"fmt"
	"time"
)

// The closed set of failure kinds the engine can report. Every mutating
// operation either succeeds or returns one of these; the command layer maps
// them to user-facing messages.
var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrSelfTransfer       = errors.New("cannot transfer to yourself")
	ErrInvalidTarget      = errors.New("invalid transfer target")
	ErrGameAlreadyActive  = errors.New("a game is already in progress")
	ErrNoActiveGame       = errors.New("no active game")
	ErrInvalidBet         = errors.New("bet must be positive")
	ErrItemNotFound       = errors.New("item not found")
	ErrOutOfStock         = errors.New("item is out of stock")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// CooldownError reports a reward claim attempted before its window elapsed.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active: %s remaining", e.Remaining.Round(time.Second))
}

// NewCooldownError creates a CooldownError with the time left on the window.
func NewCooldownError(remaining time.Duration) *CooldownError {
	return &CooldownError{Remaining: remaining}
}

// AsCooldownError extracts a CooldownError from an error chain.
func AsCooldownError(err error) (*CooldownError, bool) {
	var ce *CooldownError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// StorageError wraps a storage-layer failure so callers can match it with
// errors.Is(err, ErrStorageUnavailable) while keeping the cause visible.
func StorageError(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

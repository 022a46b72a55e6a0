package game

import "errors"

// Input errors never mutate session state.
var (
	ErrNotStarted        = errors.New("game not started")
	ErrCompleted         = errors.New("game already completed")
	ErrStopped           = errors.New("game stopped")
	ErrUnknownItem       = errors.New("unknown item")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrAlreadySubmitted  = errors.New("answers already submitted")
	ErrIncompleteAnswers = errors.New("every blank needs an answer before submitting")
	ErrNoItems           = errors.New("game needs at least one item")
	ErrDuplicateID       = errors.New("duplicate item id")
)

// IsInactive reports whether err means the session is not accepting input.
func IsInactive(err error) bool {
	return errors.Is(err, ErrNotStarted) || errors.Is(err, ErrCompleted) || errors.Is(err, ErrStopped)
}

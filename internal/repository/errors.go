package repository

import "errors"

// ErrDuplicate is returned when an insert violates a uniqueness rule
// (username, language code, one progress row per user and language).
var ErrDuplicate = errors.New("record already exists")

// ErrNotFound is returned by updates that target a missing record.
var ErrNotFound = errors.New("record not found")

// ErrMissingReference is returned when an insert points at a user or
// language that does not exist. Only backends that enforce foreign keys
// report it.
var ErrMissingReference = errors.New("referenced record does not exist")

package storage

import "errors"

// Sentinel errors for storage facts. Services translate them into domain
// errors; they never reach the facade as-is.
var (
	ErrNotFound = errors.New("record not found")
	ErrClosed   = errors.New("store closed")
	ErrCorrupt  = errors.New("corrupt collection blob")
)

package errors

import "errors"

var (
	ErrNotFound = errors.New("blocked day not found")

	ErrAlreadyBlocked = errors.New("date is already blocked")
)

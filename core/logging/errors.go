package logging

import "errors"

var (
	ErrAlreadyBound  = errors.New("already bound to a log")
	ErrDuplicateName = errors.New("name already in use")
	ErrNotFound      = errors.New("not found")
)

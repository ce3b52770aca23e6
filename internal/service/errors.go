package service

import "errors"

// ErrInvalidArgument marks malformed command arguments; no state is changed
// when it is returned.
var ErrInvalidArgument = errors.New("invalid argument")

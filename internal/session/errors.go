package session

import "errors"

// ErrNotFound indicates the requested session does not exist.
var ErrNotFound = errors.New("session not found")

// ErrDuplicateName indicates a session with the same name already exists.
var ErrDuplicateName = errors.New("session name already in use")

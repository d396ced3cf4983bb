// Package repository is the persistence layer. It defines sentinel
// error values reused across repositories so that higher layers such as
// services and handlers can distinguish failure scenarios without
// depending on driver-specific errors.
package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist.
// Handlers translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into an HTTP 403
// response.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when registration collides with an
// existing account.
var ErrEmailExists = errors.New("email already exists")

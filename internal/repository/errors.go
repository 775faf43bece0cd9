// Package repository implements the persistence layer over MySQL.  Each
// repository owns the SQL for one table family and exposes typed results;
// sentinel errors defined here let the service and handler layers
// distinguish failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrLabNotFound is returned when a lab id does not resolve to a row.
var ErrLabNotFound = errors.New("lab not found")

// ErrUsernameExists is returned when registration collides with an existing
// username or email (both columns are unique).
var ErrUsernameExists = errors.New("username or email already exists")

// ErrExecutionNotFound is returned when finalising a robot execution that
// does not exist.
var ErrExecutionNotFound = errors.New("execution not found")

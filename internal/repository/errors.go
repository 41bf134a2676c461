// Package repository contains data access logic for rooms, services,
// reservations and staff accounts.  Queries are built with squirrel
// and run against MySQL through database/sql.
//
// The sentinel values below let higher layers distinguish failure
// scenarios with errors.Is.
package repository

import "errors"

// ErrNotFound is returned when a looked-up row does not exist.
// Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert violates a uniqueness
// constraint, such as a duplicate room number.  Handlers translate it
// into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUsernameExists is returned when creating a user whose username
// is already taken.
var ErrUsernameExists = errors.New("username already exists")

package model

import "errors"

var (
	// User related errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	// Deliberately the same outward message for unknown email, wrong
	// password and inactive account, to avoid account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors. Internally distinguishable for logging;
	// all collapse to a generic unauthorized response.
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenTampered  = errors.New("token signature mismatch")
	ErrTokenExpired   = errors.New("token expired")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Ticket related errors
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrAssignmentConflict = errors.New("ticket already assigned")

	// Lookup tables
	ErrLocationNotFound = errors.New("location not found")
	ErrMachineNotFound  = errors.New("machine not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)

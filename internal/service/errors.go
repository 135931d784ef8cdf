package service

import "errors"

var (
	// ErrNotFound targets a missing id. The record set is untouched.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidState rejects a transition the state machine does not allow,
	// leaving the record unchanged.
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrUnauthorized rejects an action by a non-permitted identity.
	ErrUnauthorized = errors.New("not permitted for this user")

	// ErrSelfAction rejects offering on one's own request.
	ErrSelfAction = errors.New("cannot act on own listing")

	// ErrUsernameTaken rejects registration of an existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials rejects a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnknownKind rejects a listing kind outside the five known tabs.
	ErrUnknownKind = errors.New("unknown listing kind")
)

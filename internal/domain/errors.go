package domain

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned when a remote result arrives after a newer
// session change (login, signup or logout) was started.
var ErrSuperseded = errors.New("superseded by a newer session change")

// PersistenceError reports a durable storage read, write or decode failure.
// Stores log it and keep working from memory; it is never returned to views.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NetworkError reports a failed remote call: transport errors, timeouts and
// undecodable responses.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RemoteError is a non-2xx answer from the remote API.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote status %d: %s", e.StatusCode, e.Message)
}

// AuthenticationError is returned by login. Message is safe to show to users.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// AccountCreationError is returned by signup. Message is safe to show to users.
type AccountCreationError struct {
	Message string
	Err     error
}

func (e *AccountCreationError) Error() string {
	return e.Message
}

func (e *AccountCreationError) Unwrap() error {
	return e.Err
}

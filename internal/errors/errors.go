// Package errors provides domain-specific error types and sentinel errors
// for the webhook and reply pipeline.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrInvalidSignature indicates the X-Line-Signature header did not match the body.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrMalformedRequest indicates the webhook body could not be read or decoded.
	ErrMalformedRequest = errors.New("malformed webhook request")

	// ErrDispatch indicates the reply could not be delivered to the LINE platform.
	ErrDispatch = errors.New("reply dispatch failed")

	// ErrUnknownProfile indicates a bot profile name that is not built in.
	ErrUnknownProfile = errors.New("unknown bot profile")
)

// SignatureError is returned by webhook verification when the request was
// not signed with the channel secret. The transport maps it to HTTP 400.
type SignatureError struct {
	Err error
}

func (e *SignatureError) Error() string {
	if e.Err == nil {
		return ErrInvalidSignature.Error()
	}
	return fmt.Sprintf("%s: %v", ErrInvalidSignature, e.Err)
}

func (e *SignatureError) Unwrap() []error {
	return []error{ErrInvalidSignature, e.Err}
}

// NewSignatureError wraps the SDK error that rejected the signature.
func NewSignatureError(err error) *SignatureError {
	return &SignatureError{Err: err}
}

// DispatchError describes a failed ReplyMessage call for one event.
type DispatchError struct {
	EventID  string
	Messages int
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s (event=%s, messages=%d): %v", ErrDispatch, e.EventID, e.Messages, e.Err)
}

func (e *DispatchError) Unwrap() []error {
	return []error{ErrDispatch, e.Err}
}

// NewDispatchError creates a new dispatch error.
func NewDispatchError(eventID string, messages int, err error) *DispatchError {
	return &DispatchError{
		EventID:  eventID,
		Messages: messages,
		Err:      err,
	}
}

package engine

import (
	"errors"
	"fmt"
)

// Error represents a domain failure with a stable, caller-visible code.
//
// The taxonomy:
//   - CodeNotFound: a referenced user, article, or comment does not exist
//   - CodeForbidden: an ownership check failed; deliberately worded so a
//     non-owner cannot distinguish "not mine" from "doesn't exist"
//   - CodeConflict: an unresolved uniqueness collision (credentials taken)
//   - CodeValidation: malformed input the engine rejects outright
//
// Unexpected storage failures are never converted into a domain Error;
// they bubble to the caller wrapped but otherwise unchanged.
type Error struct {
	// Code identifies the failure category.
	Code Code

	// Message is a human-readable description.
	Message string
}

// Code categorizes domain errors.
type Code string

const (
	// CodeNotFound indicates a referenced entity does not exist.
	CodeNotFound Code = "not_found"

	// CodeForbidden indicates the caller has no access to the entity.
	CodeForbidden Code = "forbidden"

	// CodeConflict indicates a uniqueness collision.
	CodeConflict Code = "conflict"

	// CodeValidation indicates input the engine rejects.
	CodeValidation Code = "validation"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NotFound creates a CodeNotFound error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Forbidden creates a CodeForbidden error. The message intentionally
// conflates absence and lack of ownership.
func Forbidden() *Error {
	return &Error{Code: CodeForbidden, Message: "not found or no access"}
}

// Conflict creates a CodeConflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Validation creates a CodeValidation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// IsNotFound reports whether err is a CodeNotFound domain error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsForbidden reports whether err is a CodeForbidden domain error.
func IsForbidden(err error) bool {
	return CodeOf(err) == CodeForbidden
}

// IsConflict reports whether err is a CodeConflict domain error.
func IsConflict(err error) bool {
	return CodeOf(err) == CodeConflict
}

// IsValidation reports whether err is a CodeValidation domain error.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}

// CodeOf extracts the domain error code from err, or "" if err is not a
// domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

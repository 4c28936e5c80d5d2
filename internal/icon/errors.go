package icon

import (
	"errors"
	"fmt"
)

// Error is a domain error raised by the icon layers.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ModuleName identifies the affected module, if any.
	ModuleName string

	// Owner identifies the affected user, if any.
	Owner string
}

// ErrorCode categorizes domain errors.
type ErrorCode string

const (
	// ErrCodeNotFound means a required record does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeConflict means a create hit a uniqueness constraint.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeAlreadyExists is informational: the requested icon is already
	// on the desktop and nothing was changed.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// ErrCodeNameTaken means a new icon's module name is already used by
	// another icon of the same user.
	ErrCodeNameTaken ErrorCode = "NAME_TAKEN"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.ModuleName != "" && e.Owner != "":
		return fmt.Sprintf("%s: %s (module=%s, owner=%s)", e.Code, e.Message, e.ModuleName, e.Owner)
	case e.ModuleName != "":
		return fmt.Sprintf("%s: %s (module=%s)", e.Code, e.Message, e.ModuleName)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsNotFound reports whether err is, or wraps, a not-found error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsConflict reports whether err is, or wraps, a uniqueness conflict.
func IsConflict(err error) bool { return hasCode(err, ErrCodeConflict) }

// IsAlreadyExists reports whether err is, or wraps, the informational
// already-on-desktop error.
func IsAlreadyExists(err error) bool { return hasCode(err, ErrCodeAlreadyExists) }

// IsNameTaken reports whether err is, or wraps, a module name clash.
func IsNameTaken(err error) bool { return hasCode(err, ErrCodeNameTaken) }

// NewNotFoundError creates an Error for a missing record.
func NewNotFoundError(moduleName, owner, message string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: message, ModuleName: moduleName, Owner: owner}
}

// NewConflictError creates an Error for a uniqueness violation.
func NewConflictError(moduleName, owner string) *Error {
	return &Error{
		Code:       ErrCodeConflict,
		Message:    "icon already exists for module and owner",
		ModuleName: moduleName,
		Owner:      owner,
	}
}

// NewAlreadyExistsError creates the informational already-on-desktop error.
func NewAlreadyExistsError(moduleName, owner string) *Error {
	return &Error{
		Code:       ErrCodeAlreadyExists,
		Message:    "already on desktop",
		ModuleName: moduleName,
		Owner:      owner,
	}
}

// NewNameTakenError creates an Error for a custom icon whose module name
// is held by another icon of owner.
func NewNameTakenError(moduleName, owner, link string) *Error {
	msg := "name already used by a catalog icon"
	if link != "" {
		msg = fmt.Sprintf("name already used by an icon linking to %q", link)
	}
	return &Error{
		Code:       ErrCodeNameTaken,
		Message:    msg,
		ModuleName: moduleName,
		Owner:      owner,
	}
}

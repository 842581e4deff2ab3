package errors

import (
	"errors"
	"fmt"
)

// ErrValidation reports malformed caller input. It is raised at the input
// boundary, before any core mutation starts.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}

// ErrNotFound reports that a resource does not exist or does not match the
// required predicate (not the current version, author mismatch, attempted
// self-validation). The causes are deliberately indistinguishable so that a
// rejected caller learns nothing about authorship.
type ErrNotFound struct {
	Resource string
	ID       uint
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Resource, e.ID)
}

// ErrForbidden reports that the caller is authenticated but not allowed to
// access the resource.
type ErrForbidden struct {
	Message string
}

func (e *ErrForbidden) Error() string {
	return e.Message
}

// IsNotFound reports whether err is an ErrNotFound
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// IsValidation reports whether err is an ErrValidation
func IsValidation(err error) bool {
	var v *ErrValidation
	return errors.As(err, &v)
}

// IsForbidden reports whether err is an ErrForbidden
func IsForbidden(err error) bool {
	var f *ErrForbidden
	return errors.As(err, &f)
}

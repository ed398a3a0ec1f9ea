package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidEvent  = errors.New("invalid event")
	// Constraint-level duplicate signals raised by the repository when the
	// corresponding unique index rejects an insert.
	ErrDuplicateLDAPID     = errors.New("ldap id already registered")
	ErrDuplicateRollNumber = errors.New("roll number already registered")
	// ErrDuplicateNumber signals that the generated registration number lost
	// a race against a concurrent insert. The workflow retries generation;
	// it never reaches callers.
	ErrDuplicateNumber = errors.New("registration number already exists")
)

// ValidationError carries every field violation found in a candidate.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// Identity fields a duplicate can be detected on.
const (
	DuplicateFieldLDAPID     = "ldapId"
	DuplicateFieldRollNumber = "rollNumber"
)

// DuplicateRegistrationError is returned when a candidate's identity
// collides with an existing registration, whether caught by the pre-check
// or by the store's unique index at persist time. It carries the existing
// record's number and date so callers can show the prior registration.
type DuplicateRegistrationError struct {
	Field              string
	RegistrationNumber string
	RegistrationDate   time.Time
}

func (e *DuplicateRegistrationError) Error() string {
	switch e.Field {
	case DuplicateFieldRollNumber:
		return fmt.Sprintf("roll number already registered as %s", e.RegistrationNumber)
	default:
		return fmt.Sprintf("email already registered as %s", e.RegistrationNumber)
	}
}

// Message returns the user-facing duplicate explanation.
func (e *DuplicateRegistrationError) Message() string {
	if e.Field == DuplicateFieldRollNumber {
		return "This roll number is already registered"
	}
	return "This LDAP ID is already registered"
}

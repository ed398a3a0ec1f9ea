package domain

import (
	"context"
	"strings"
	"time"
)

// Registration statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Event options a participant can register interest in. "Both Events" is a
// value in its own right, not a union derived from the other two.
const (
	EventBlitz  = "ScaleUp Blitz"
	EventIgnite = "ScaleUp Ignite"
	EventBoth   = "Both Events"
)

// ValidStatus reports whether s is one of the three registration statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// ValidEvent reports whether s is one of the enumerated event options.
func ValidEvent(s string) bool {
	return s == EventBlitz || s == EventIgnite || s == EventBoth
}

// NormalizeLDAPID canonicalizes an institutional email for identity
// comparison: trimmed and lower-cased. Idempotent.
func NormalizeLDAPID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeRollNumber canonicalizes a roll number for identity comparison:
// trimmed and upper-cased. Idempotent.
func NormalizeRollNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Registration represents one confirmed participant sign-up.
// IPAddress and ClientSignature are audit-only and never serialized.
// swagger:model Registration
type Registration struct {
	ID                 string    `json:"-"`
	RegistrationNumber string    `json:"registrationNumber"`
	Name               string    `json:"name"`
	LDAPID             string    `json:"ldapId"`
	RollNumber         string    `json:"rollNumber"`
	Branch             string    `json:"branch"`
	Year               string    `json:"year"`
	InterestedEvents   []string  `json:"interestedEvents"`
	PhoneNumber        string    `json:"phoneNumber,omitempty"`
	Status             string    `json:"status"`
	RegistrationDate   time.Time `json:"registrationDate"`
	IPAddress          string    `json:"-"`
	ClientSignature    string    `json:"-"`
}

// RegistrationCandidate is the caller-supplied input to Register, before
// validation and normalization. IPAddress and ClientSignature come from the
// transport layer and are stored for audit only.
type RegistrationCandidate struct {
	Name             string
	LDAPID           string
	RollNumber       string
	Branch           string
	Year             string
	InterestedEvents []string
	PhoneNumber      string
	IPAddress        string
	ClientSignature  string
}

// ListFilter narrows admin list queries. Empty fields are ignored.
type ListFilter struct {
	Event  string
	Branch string
	Year   string
	SortBy string
	Order  string
}

// RegistrationRepository defines storage operations for registrations.
// Create returns ErrDuplicateLDAPID, ErrDuplicateRollNumber, or
// ErrDuplicateNumber when the corresponding unique index rejects the row.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	Count(ctx context.Context) (int, error)
	FindByIdentity(ctx context.Context, ldapID, rollNumber string) (*Registration, error)
	GetByLDAPID(ctx context.Context, ldapID string) (*Registration, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (*Registration, error)
	GetByNumber(ctx context.Context, registrationNumber string) (*Registration, error)
	List(ctx context.Context, filter ListFilter, p PaginationParams) ([]*Registration, int, error)
	UpdateStatus(ctx context.Context, registrationNumber, status string) (*Registration, error)
	Delete(ctx context.Context, registrationNumber string) error
	ExportAll(ctx context.Context) ([]*Registration, error)
}

// RegistrationService defines the participant-facing and admin operations
// over registrations.
type RegistrationService interface {
	// Register validates, normalizes, and persists a new registration.
	// Fails with *ValidationError or *DuplicateRegistrationError.
	Register(ctx context.Context, c *RegistrationCandidate) (*Registration, error)
	// CheckStatus routes identifiers containing "@" to LDAP-ID lookup and
	// everything else to roll-number lookup. Returns ErrNotFound when absent.
	CheckStatus(ctx context.Context, identifier string) (*Registration, error)
	GetByNumber(ctx context.Context, registrationNumber string) (*Registration, error)
	List(ctx context.Context, filter ListFilter, p PaginationParams) ([]*Registration, int, error)
	UpdateStatus(ctx context.Context, registrationNumber, status string) (*Registration, error)
	Delete(ctx context.Context, registrationNumber string) error
	Export(ctx context.Context) ([]*Registration, error)
}

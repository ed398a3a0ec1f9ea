package services

import (
	"fmt"
	"regexp"
	"strings"

	"blitzweek/internal/domain"
)

var (
	ldapIDRegexp     = regexp.MustCompile(`^[a-z0-9._%+-]+@iitb\.ac\.in$`)
	rollNumberRegexp = regexp.MustCompile(`^\d{2}[A-Z]\d{4,5}$`)
	phoneRegexp      = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Branches is the closed set of accepted branch values.
var Branches = []string{
	"Computer Science and Engineering",
	"Electrical Engineering",
	"Mechanical Engineering",
	"Civil Engineering",
	"Chemical Engineering",
	"Aerospace Engineering",
	"Metallurgical Engineering and Materials Science",
	"Engineering Physics",
	"Energy Science and Engineering",
	"Other",
}

// Years is the closed set of accepted year-of-study values.
var Years = []string{"1st Year", "2nd Year", "3rd Year", "4th Year", "5th Year"}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// validateCandidate checks the structural shape of an already-normalized
// candidate and returns a ValidationError listing every violated field, or
// nil when the candidate is well formed.
func validateCandidate(c *domain.RegistrationCandidate) *domain.ValidationError {
	var fields []string

	if n := len(c.Name); n < 2 || n > 100 {
		fields = append(fields, "name must be between 2 and 100 characters")
	}
	if !ldapIDRegexp.MatchString(c.LDAPID) {
		fields = append(fields, "ldapId must be a valid IITB LDAP email")
	}
	if !rollNumberRegexp.MatchString(c.RollNumber) {
		fields = append(fields, "rollNumber must match the roll number format (e.g. 21B1234)")
	}
	if !contains(Branches, c.Branch) {
		fields = append(fields, "branch must be one of the listed branches")
	}
	if !contains(Years, c.Year) {
		fields = append(fields, "year must be one of the listed years")
	}
	if len(c.InterestedEvents) == 0 {
		fields = append(fields, "interestedEvents must not be empty")
	}
	for _, ev := range c.InterestedEvents {
		if !domain.ValidEvent(ev) {
			fields = append(fields, fmt.Sprintf("interestedEvents contains unknown event %q", ev))
		}
	}
	if c.PhoneNumber != "" && !phoneRegexp.MatchString(c.PhoneNumber) {
		fields = append(fields, "phoneNumber must be a valid 10-digit mobile number")
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// normalizeCandidate canonicalizes identity and free-text fields in place.
// Identity normalization here must match what lookups apply. The event list
// is a set: repeated values collapse to one, first occurrence wins.
func normalizeCandidate(c *domain.RegistrationCandidate) {
	c.Name = strings.TrimSpace(c.Name)
	c.LDAPID = domain.NormalizeLDAPID(c.LDAPID)
	c.RollNumber = domain.NormalizeRollNumber(c.RollNumber)
	c.Branch = strings.TrimSpace(c.Branch)
	c.Year = strings.TrimSpace(c.Year)
	c.PhoneNumber = strings.TrimSpace(c.PhoneNumber)

	seen := make(map[string]struct{}, len(c.InterestedEvents))
	events := c.InterestedEvents[:0]
	for _, ev := range c.InterestedEvents {
		ev = strings.TrimSpace(ev)
		if _, ok := seen[ev]; ok {
			continue
		}
		seen[ev] = struct{}{}
		events = append(events, ev)
	}
	c.InterestedEvents = events
}

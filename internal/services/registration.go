package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"blitzweek/internal/domain"
	"blitzweek/internal/metrics"
)

const (
	// numberGenRetries bounds the retry loop for registration number
	// generation. The sequence is derived from the row count at generation
	// time, so two concurrent requests can produce the same candidate
	// number; the unique index rejects the loser and we regenerate.
	numberGenRetries = 3
)

type registrationService struct {
	repo         domain.RegistrationRepository
	emailService domain.EmailService
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewRegistrationService creates a RegistrationService with the given
// repository, optional email service, and metrics.
func NewRegistrationService(repo domain.RegistrationRepository, emailService domain.EmailService, m *metrics.Metrics) domain.RegistrationService {
	return &registrationService{
		repo:         repo,
		emailService: emailService,
		metrics:      m,
		now:          time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, c *domain.RegistrationCandidate) (*domain.Registration, error) {
	normalizeCandidate(c)
	if verr := validateCandidate(c); verr != nil {
		return nil, verr
	}

	// Best-effort pre-check. The unique indexes remain the authoritative
	// guard; this pass exists to return the richer duplicate payload
	// without burning a registration number.
	if existing, err := s.repo.FindByIdentity(ctx, c.LDAPID, c.RollNumber); err == nil {
		s.metrics.IncrementDuplicatesRejected()
		return nil, duplicateError(existing, c.LDAPID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check existing registration: %w", err)
	}

	reg := &domain.Registration{
		Name:             c.Name,
		LDAPID:           c.LDAPID,
		RollNumber:       c.RollNumber,
		Branch:           c.Branch,
		Year:             c.Year,
		InterestedEvents: c.InterestedEvents,
		PhoneNumber:      c.PhoneNumber,
		Status:           domain.StatusConfirmed,
		RegistrationDate: s.now(),
		IPAddress:        c.IPAddress,
		ClientSignature:  c.ClientSignature,
	}

	for attempt := 0; ; attempt++ {
		count, err := s.repo.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count registrations: %w", err)
		}
		reg.RegistrationNumber = formatRegistrationNumber(s.now().Year(), count+1)

		err = s.repo.Create(ctx, reg)
		if err == nil {
			break
		}
		switch {
		case errors.Is(err, domain.ErrDuplicateLDAPID):
			s.metrics.IncrementDuplicatesRejected()
			return nil, s.duplicateFromStore(ctx, c, domain.DuplicateFieldLDAPID)
		case errors.Is(err, domain.ErrDuplicateRollNumber):
			s.metrics.IncrementDuplicatesRejected()
			return nil, s.duplicateFromStore(ctx, c, domain.DuplicateFieldRollNumber)
		case errors.Is(err, domain.ErrDuplicateNumber):
			if attempt < numberGenRetries {
				continue
			}
			return nil, fmt.Errorf("registration number generation exhausted retries: %w", err)
		default:
			return nil, fmt.Errorf("create registration: %w", err)
		}
	}

	s.metrics.IncrementRegistrationsCreated()

	if s.emailService != nil {
		data := &domain.ConfirmationEmailData{
			Email:              reg.LDAPID,
			Name:               reg.Name,
			RegistrationNumber: reg.RegistrationNumber,
			Events:             reg.InterestedEvents,
		}
		go func() {
			if err := s.emailService.SendRegistrationConfirmation(context.Background(), data); err != nil {
				log.Printf("[EMAIL] confirmation send failed for %s: %v", data.Email, err)
				return
			}
			s.metrics.IncrementEmailsSent()
		}()
	}

	return reg, nil
}

// duplicateFromStore builds the duplicate error after the unique index
// rejected an insert the pre-check missed (concurrent submission). The
// prior record is re-read so the caller still gets its number and date.
func (s *registrationService) duplicateFromStore(ctx context.Context, c *domain.RegistrationCandidate, field string) error {
	var existing *domain.Registration
	var err error
	if field == domain.DuplicateFieldRollNumber {
		existing, err = s.repo.GetByRollNumber(ctx, c.RollNumber)
	} else {
		existing, err = s.repo.GetByLDAPID(ctx, c.LDAPID)
	}
	if err != nil {
		// The row that caused the violation exists; failing to read it back
		// still must surface as a duplicate, just without the prior details.
		return &domain.DuplicateRegistrationError{Field: field}
	}
	return &domain.DuplicateRegistrationError{
		Field:              field,
		RegistrationNumber: existing.RegistrationNumber,
		RegistrationDate:   existing.RegistrationDate,
	}
}

func duplicateError(existing *domain.Registration, ldapID string) error {
	field := domain.DuplicateFieldRollNumber
	if existing.LDAPID == ldapID {
		field = domain.DuplicateFieldLDAPID
	}
	return &domain.DuplicateRegistrationError{
		Field:              field,
		RegistrationNumber: existing.RegistrationNumber,
		RegistrationDate:   existing.RegistrationDate,
	}
}

// formatRegistrationNumber renders the display convention BW<year><seq>,
// sequence zero-padded to four digits.
func formatRegistrationNumber(year, seq int) string {
	return fmt.Sprintf("BW%d%04d", year, seq)
}

func (s *registrationService) CheckStatus(ctx context.Context, identifier string) (*domain.Registration, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, domain.ErrNotFound
	}
	var reg *domain.Registration
	var err error
	if strings.Contains(identifier, "@") {
		reg, err = s.repo.GetByLDAPID(ctx, domain.NormalizeLDAPID(identifier))
	} else {
		reg, err = s.repo.GetByRollNumber(ctx, domain.NormalizeRollNumber(identifier))
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("check registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) GetByNumber(ctx context.Context, registrationNumber string) (*domain.Registration, error) {
	reg, err := s.repo.GetByNumber(ctx, registrationNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) List(ctx context.Context, filter domain.ListFilter, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	if filter.Event != "" && !domain.ValidEvent(filter.Event) {
		return nil, 0, domain.ErrInvalidEvent
	}
	regs, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	return regs, total, nil
}

func (s *registrationService) UpdateStatus(ctx context.Context, registrationNumber, status string) (*domain.Registration, error) {
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	reg, err := s.repo.UpdateStatus(ctx, registrationNumber, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	return reg, nil
}

func (s *registrationService) Delete(ctx context.Context, registrationNumber string) error {
	if err := s.repo.Delete(ctx, registrationNumber); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

func (s *registrationService) Export(ctx context.Context) ([]*domain.Registration, error) {
	regs, err := s.repo.ExportAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export registrations: %w", err)
	}
	return regs, nil
}

package services

import (
	"context"
	"strings"
	"time"

	"blitzweek/internal/domain"
)

type adminService struct {
	email        string
	passwordHash string
	passwordSalt string
	hasher       domain.PasswordHasher
	tokenIssuer  domain.TokenIssuer
	tokenExpiry  time.Duration
}

// NewAdminService creates an AdminService for the single configured admin
// principal. Admin routes stay locked when email or hash are unset.
func NewAdminService(email, passwordHash, passwordSalt string, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration) domain.AdminService {
	return &adminService{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: passwordHash,
		passwordSalt: passwordSalt,
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		tokenExpiry:  tokenExpiry,
	}
}

func (s *adminService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if s.email == "" || s.passwordHash == "" {
		return "", domain.ErrInvalidCredentials
	}
	if email != s.email {
		return "", domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(s.passwordHash, s.passwordSalt, password); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue("admin", email, []string{"admin"}, s.tokenExpiry)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return token, nil
}

package domain

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidCredentials is returned on a failed admin login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated principal.
type TokenIssuer interface {
	Issue(subject, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// AdminService authenticates the configured admin principal that gates the
// administrative registration operations.
type AdminService interface {
	Login(ctx context.Context, email, password string) (token string, err error)
}

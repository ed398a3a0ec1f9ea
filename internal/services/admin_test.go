package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"blitzweek/internal/adapters/auth"
	"blitzweek/internal/domain"
)

func TestAdminLogin(t *testing.T) {
	hasher := auth.NewBcryptHasher(4) // low cost to keep the test fast
	salt, err := hasher.GenerateSalt()
	require.NoError(t, err)
	hash, err := hasher.Hash(salt, "hunter2")
	require.NoError(t, err)

	issuer := auth.NewJWTIssuer("test-secret")
	svc := NewAdminService("admin@iitb.ac.in", hash, salt, hasher, issuer, time.Hour)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"success", "admin@iitb.ac.in", "hunter2", false},
		{"email case insensitive", "Admin@IITB.ac.in", "hunter2", false},
		{"wrong password", "admin@iitb.ac.in", "hunter3", true},
		{"wrong email", "other@iitb.ac.in", "hunter2", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidCredentials)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, token)

			subject, err := auth.NewJWTVerifier("test-secret").Verify(token)
			require.NoError(t, err)
			require.Equal(t, "admin", subject)
		})
	}
}

func TestAdminLogin_UnconfiguredStaysLocked(t *testing.T) {
	hasher := auth.NewBcryptHasher(4)
	issuer := auth.NewJWTIssuer("test-secret")
	svc := NewAdminService("", "", "", hasher, issuer, time.Hour)

	_, err := svc.Login(context.Background(), "admin@iitb.ac.in", "anything")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

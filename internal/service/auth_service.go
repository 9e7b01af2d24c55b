package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/apperror"

	"github.com/rs/zerolog"
)

// OperatorCredentials is the single dashboard operator account.
type OperatorCredentials struct {
	Username     string
	PasswordHash string // argon2id encoded; empty disables login
	Companies    []string
}

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	creds    OperatorCredentials
	hashSvc  ports.HashService
	tokenSvc ports.TokenService
	log      zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	creds OperatorCredentials,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	log zerolog.Logger,
) *AuthServiceImpl {
	if creds.PasswordHash == "" {
		log.Warn().Msg("operator.password_hash not set, dashboard login disabled")
	}
	return &AuthServiceImpl{
		creds:    creds,
		hashSvc:  hashSvc,
		tokenSvc: tokenSvc,
		log:      log,
	}
}

// Login validates the operator credentials and returns a session token.
func (s *AuthServiceImpl) Login(_ context.Context, username, password string) (string, time.Time, error) {
	if s.creds.PasswordHash == "" {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1

	// The hash is checked even for an unknown username so both paths cost the same.
	valid, err := s.hashSvc.Verify(password, s.creds.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !userOK || !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(domain.Operator{
		Username:  s.creds.Username,
		Companies: s.creds.Companies,
	})
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}

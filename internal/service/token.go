package service

import (
	"fmt"
	"time"

	"github.com/lixenwraith/auth"
)

// IssueToken creates an HS256 token that authorizes writes to the position store
func (s *Service) IssueToken(subject string, ttl time.Duration) (string, time.Time, error) {
	if len(s.jwtSecret) == 0 {
		return "", time.Time{}, fmt.Errorf("token signing disabled: no secret configured")
	}
	if ttl <= 0 {
		ttl = TokenTTL
	}

	claims := map[string]any{
		"scope": "positions:write",
	}
	token, err := auth.GenerateHS256Token(s.jwtSecret, subject, claims, ttl)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, time.Now().UTC().Add(ttl), nil
}

// ValidateToken verifies a token and returns its subject with claims
func (s *Service) ValidateToken(token string) (string, map[string]any, error) {
	if len(s.jwtSecret) == 0 {
		return "", nil, fmt.Errorf("token validation disabled: no secret configured")
	}
	return auth.ValidateHS256Token(s.jwtSecret, token)
}

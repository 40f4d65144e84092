package auth

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stadium/internal/pkg/jwt"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

type jwtService interface {
	GenerateToken(operator string, role string) (string, error)
	TTL() time.Duration
}

type attempts struct {
	failed      int
	lockedUntil time.Time
}

// Service exchanges the shared operator password for a signed token. The
// password is configured as a bcrypt hash; failed attempts lock the operator
// name out for a while.
type Service struct {
	passwordHash []byte
	jwt          jwtService
	now          func() time.Time

	mu       sync.Mutex
	failures map[string]*attempts
}

func NewService(passwordHash string, jwt jwtService) *Service {
	return &Service{
		passwordHash: []byte(passwordHash),
		jwt:          jwt,
		now:          time.Now,
		failures:     make(map[string]*attempts),
	}
}

func (s *Service) IssueToken(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	if len(s.passwordHash) == 0 {
		return nil, ErrAuthDisabled
	}
	operator := strings.ToLower(strings.TrimSpace(req.Operator))
	if operator == "" {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if s.locked(operator, now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)); err != nil {
		if s.fail(operator, now) {
			log.Printf("auth_locked operator=%s until=%s", operator, now.Add(lockoutDuration).Format(time.RFC3339))
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}
	s.reset(operator)

	token, err := s.jwt.GenerateToken(operator, jwt.RoleOperator)
	if err != nil {
		return nil, err
	}
	log.Printf("auth_token_issued operator=%s", operator)
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   now.Add(s.jwt.TTL()).UTC(),
		Role:        jwt.RoleOperator,
	}, nil
}

func (s *Service) locked(operator string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.failures[operator]
	return ok && a.lockedUntil.After(now)
}

// fail records a failed attempt and reports whether it triggered a lockout.
func (s *Service) fail(operator string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.failures[operator]
	if !ok {
		a = &attempts{}
		s.failures[operator] = a
	}
	a.failed++
	if a.failed >= maxFailedLoginAttempts {
		a.failed = 0
		a.lockedUntil = now.Add(lockoutDuration)
		return true
	}
	return false
}

func (s *Service) reset(operator string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, operator)
}

// HashPassword produces the value for OPERATOR_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

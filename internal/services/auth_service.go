// Package services – AuthService
//
// Two authentication paths coexist: username/password against a stored
// bcrypt hash, and a single shared PIN for low-friction access. Both issue
// signed HS256 tokens carrying subject and role claims; the PIN path issues
// a longer-lived token under a generic subject. Legacy rows whose stored
// credential is still plaintext are upgraded to bcrypt transparently on the
// first successful login. Every attempt passes through the injected
// LoginLimiter keyed by caller identity.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cardioai/cardioai-backend/internal/domain"
	"github.com/cardioai/cardioai-backend/internal/repo"
)

// pinSubject is the generic principal name on PIN-issued tokens.
const pinSubject = "doctor"

// Claims is the token payload: registered claims plus the role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService implements registration and both login paths.
type AuthService struct {
	DB          *gorm.DB
	Secret      []byte        // HS256 signing key
	TokenTTL    time.Duration // password-login token lifetime
	PIN         string        // shared PIN; empty disables the PIN path
	PINTokenTTL time.Duration // PIN-login token lifetime
	Limiter     LoginLimiter  // keyed by caller identity (client address)

	now func() time.Time // test seam; defaults to time.Now
}

// NewAuthService constructs an AuthService with the given settings.
func NewAuthService(db *gorm.DB, secret string, tokenTTL time.Duration, pin string, pinTTL time.Duration, limiter LoginLimiter) *AuthService {
	return &AuthService{
		DB:          db,
		Secret:      []byte(secret),
		TokenTTL:    tokenTTL,
		PIN:         pin,
		PINTokenTTL: pinTTL,
		Limiter:     limiter,
		now:         time.Now,
	}
}

// Register creates a user with a bcrypt-hashed credential and the "doctor"
// role. A taken username returns ErrDuplicateUsername.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         "doctor",
		Email:        email,
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return u, nil
}

// Login verifies a username/password pair and issues a token. callerKey is
// the identity the lockout limiter tracks (client address); a locked caller
// gets ErrLoginLocked without the credentials being checked.
func (s *AuthService) Login(ctx context.Context, username, password, callerKey string) (string, *domain.User, error) {
	if s.Limiter != nil && !s.Limiter.Allow(callerKey) {
		return "", nil, ErrLoginLocked
	}

	u, err := repo.GetUserByUsername(ctx, s.DB, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.fail(callerKey)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.verifyPassword(ctx, u, password) {
		s.fail(callerKey)
		return "", nil, ErrInvalidCredentials
	}

	if s.Limiter != nil {
		s.Limiter.Success(callerKey)
	}
	tok, err := s.issueToken(u.Username, u.Role, s.TokenTTL)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

// LoginWithPIN verifies the shared PIN and issues a longer-lived token under
// the generic subject. An unset PIN disables the path entirely.
func (s *AuthService) LoginWithPIN(ctx context.Context, pin, callerKey string) (string, error) {
	if s.Limiter != nil && !s.Limiter.Allow(callerKey) {
		return "", ErrLoginLocked
	}
	if s.PIN == "" || subtle.ConstantTimeCompare([]byte(pin), []byte(s.PIN)) != 1 {
		s.fail(callerKey)
		return "", ErrInvalidCredentials
	}
	if s.Limiter != nil {
		s.Limiter.Success(callerKey)
	}
	return s.issueToken(pinSubject, "doctor", s.PINTokenTTL)
}

// VerifyToken parses and validates a token, returning its claims.
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.Secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

// verifyPassword checks the supplied password against the stored credential.
// bcrypt rows verify normally; legacy plaintext rows compare in constant
// time and, on success, are upgraded in place to a bcrypt hash. A failed
// upgrade does not fail the login.
func (s *AuthService) verifyPassword(ctx context.Context, u *domain.User, password string) bool {
	stored := u.PasswordHash
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}

	// Legacy plaintext row.
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return false
	}
	if hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
		_ = repo.UpdateUserPasswordHash(ctx, s.DB, u.ID, string(hash))
	}
	return true
}

// issueToken signs an HS256 token for subject with the given role and TTL.
func (s *AuthService) issueToken(subject, role string, ttl time.Duration) (string, error) {
	now := s.nowFn()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

func (s *AuthService) nowFn() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *AuthService) fail(callerKey string) {
	if s.Limiter != nil {
		s.Limiter.Failure(callerKey)
	}
}

// isDuplicateErr detects unique-constraint violations across both engines.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

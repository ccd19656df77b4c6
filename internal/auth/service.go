package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultTokenTTL = time.Hour
	defaultIssuer   = "thesisdesk"
)

// Store looks up credential records for the verifier. Implementations query
// the union of the student and professor tables and tag each row with the
// role of its source table.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*CredentialRecord, error)
}

// Claims is the JWT payload carried by a session token.
type Claims struct {
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role"`
	jwt.RegisteredClaims
}

// Service verifies credentials and issues/validates session tokens. The
// signing secret is fixed for the process lifetime and must be supplied at
// construction.
type Service struct {
	store  Store
	secret []byte

	now      func() time.Time
	tokenTTL time.Duration
	issuer   string
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithTokenTTL configures session token lifetime.
func WithTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithIssuer overrides the token issuer claim.
func WithIssuer(issuer string) ServiceOption {
	return func(s *Service) {
		issuer = strings.TrimSpace(issuer)
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

// NewService constructs the auth service. An empty secret is a configuration
// error and refuses to start, never a silent fallback.
func NewService(store Store, secret []byte, opts ...ServiceOption) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: signing secret is not configured")
	}
	svc := &Service{
		store:    store,
		secret:   secret,
		now:      time.Now,
		tokenTTL: defaultTokenTTL,
		issuer:   defaultIssuer,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Login verifies the submitted credentials against the union of the identity
// tables and issues a session token for the matching account. Both inputs
// must be non-empty before storage is touched. The error never reveals which
// of email or password was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (string, Identity, time.Time, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", Identity{}, time.Time{}, ErrMissingInput
	}
	rec, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", Identity{}, time.Time{}, ErrInvalidCredentials
		}
		return "", Identity{}, time.Time{}, fmt.Errorf("lookup credentials: %w", err)
	}
	if err := VerifyPassword(rec.PasswordHash, password); err != nil {
		return "", Identity{}, time.Time{}, ErrInvalidCredentials
	}
	identity := Identity{UserID: rec.ID, Role: rec.Role}
	token, expiresAt, err := s.IssueToken(identity)
	if err != nil {
		return "", Identity{}, time.Time{}, err
	}
	return token, identity, expiresAt, nil
}

// IssueToken signs an HS256 session token embedding the identity with a
// bounded lifetime.
func (s *Service) IssueToken(identity Identity) (string, time.Time, error) {
	if identity.UserID <= 0 || !identity.Role.Valid() {
		return "", time.Time{}, errors.New("auth: identity is incomplete")
	}
	now := s.now().UTC()
	expiresAt := now.Add(s.tokenTTL)
	claims := Claims{
		UserID: identity.UserID,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(identity.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyToken checks signature integrity and expiry, returning the embedded
// identity. Every failure mode collapses into ErrInvalidToken; callers must
// not let clients distinguish them.
func (s *Service) VerifyToken(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.UserID <= 0 || !claims.Role.Valid() {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

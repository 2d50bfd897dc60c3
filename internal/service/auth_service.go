package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/command-center/internal/config"
	"github.com/stemsi/command-center/internal/model"
	"github.com/stemsi/command-center/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims is the signed identity carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int        `json:"id"`
	Username  string     `json:"username"`
	Role      model.Role `json:"role"`
	Name      string     `json:"name"`
}

// AuthService verifies credentials and issues and validates session tokens.
// Tokens are not stored; they stay valid until they expire.
type AuthService struct {
	cfg      *config.Config
	accounts AccountStore
	log      zerolog.Logger
	now      func() time.Time
	// dummyHash is compared against when the account does not exist so that
	// both failure paths cost one bcrypt comparison.
	dummyHash []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, accounts AccountStore, log zerolog.Logger) *AuthService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cfg.BcryptCost)
	return &AuthService{
		cfg:       cfg,
		accounts:  accounts,
		log:       log.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
		dummyHash: dummy,
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login verifies username and password and returns a signed token with the
// matching account. Unknown users and wrong passwords both yield
// ErrInvalidCredentials; the reason is only logged.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.Account, error) {
	account, err := s.accounts.GetByUserID(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			s.log.Info().Str("username", username).Msg("Login failed: user not found")
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup account: %w", err)
	}

	if err := s.CheckPassword(account.PasswordHash, password); err != nil {
		s.log.Info().Str("username", username).Msg("Login failed: invalid password")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(account)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().
		Str("username", account.UserID).
		Str("role", string(account.Role)).
		Msg("Login successful")
	return token, account, nil
}

// GenerateToken signs a token for the account, valid for cfg.JWTExpiry.
func (s *AuthService) GenerateToken(a *model.Account) (string, error) {
	now := s.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.Itoa(a.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		AccountID: a.ID,
		Username:  a.UserID,
		Role:      a.Role,
		Name:      a.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a token and checks signature and expiry. Every
// failure (malformed, tampered, wrong key, expired) is ErrInvalidToken.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ChangePassword replaces the caller's password after re-checking the
// current one.
func (s *AuthService) ChangePassword(ctx context.Context, accountID int, current, next string) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := s.CheckPassword(account.PasswordHash, current); err != nil {
		s.log.Info().Str("username", account.UserID).Msg("Password change rejected: wrong current password")
		return ErrInvalidCredentials
	}

	hash, err := s.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.accounts.UpdatePassword(ctx, accountID, hash)
}

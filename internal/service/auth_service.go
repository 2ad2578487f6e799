package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/superpizzeria/order-service/internal/model"
	"github.com/superpizzeria/order-service/internal/repository"
	"github.com/superpizzeria/order-service/internal/utils"
)

// ErrInvalidCredentials is returned for both an unknown username and
// a wrong password, so a caller cannot probe which usernames exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the slice of the user repository needed by AuthService.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string, email, fullName *string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// RefreshTokenStore persists single-use refresh tokens by hash.
type RefreshTokenStore interface {
	Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	Lookup(ctx context.Context, tokenHash string) (model.RefreshToken, error)
	Rotate(ctx context.Context, oldHash string, userID uint64, newHash string, exp time.Time) error
	Delete(ctx context.Context, tokenHash string) error
}

// TokenPair is the credential set handed to a client: a stateless
// signed access token and an opaque stored refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// AuthService implements registration, login and the refresh token
// rotation protocol. Access tokens are stateless for cheap per-request
// verification; refresh tokens are stateful and single-use so a stolen
// one is invalidated by its first legitimate use.
type AuthService struct {
	users      UserStore
	tokens     RefreshTokenStore
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	bcryptCost int
}

// NewAuthService wires an AuthService. TTLs of zero fall back to the
// defaults of 45 minutes for access and 24 hours for refresh tokens.
func NewAuthService(users UserStore, tokens RefreshTokenStore, secret string, accessTTL, refreshTTL time.Duration, bcryptCost int) *AuthService {
	if accessTTL <= 0 {
		accessTTL = 45 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		bcryptCost: bcryptCost,
	}
}

// Register hashes the password and creates the user. A duplicate
// username surfaces as repository.ErrUsernameTaken.
func (s *AuthService) Register(ctx context.Context, username, password string, email, fullName *string) (model.User, error) {
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return model.User{}, err
	}
	return s.users.Create(ctx, username, hash, email, fullName)
}

// Authenticate verifies username and password. Unknown username and
// bad password yield the same ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens mints a fresh access/refresh pair for the user and
// persists the refresh token hash.
func (s *AuthService) IssueTokens(ctx context.Context, userID uint64) (TokenPair, error) {
	access, err := utils.NewAccessToken(s.secret, userID, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := utils.NewRefreshToken(s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.tokens.Store(ctx, userID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access.Token,
		RefreshToken: refresh.Raw,
		AccessExp:    access.Exp,
		RefreshExp:   refresh.Exp,
	}, nil
}

// Refresh exchanges a raw refresh token for a new pair. An unknown
// hash fails ErrInvalidRefreshToken; a known but expired one fails
// ErrExpiredRefreshToken and its row is removed. On success the old
// token is consumed and the new one stored in a single transaction,
// so the old raw value is never valid again even if unexpired.
func (s *AuthService) Refresh(ctx context.Context, raw string) (TokenPair, error) {
	oldHash := utils.HashRefreshRaw(raw)
	stored, err := s.tokens.Lookup(ctx, oldHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TokenPair{}, repository.ErrInvalidRefreshToken
		}
		return TokenPair{}, err
	}
	if time.Now().UTC().After(stored.ExpiresAt) {
		_ = s.tokens.Delete(ctx, oldHash)
		return TokenPair{}, repository.ErrExpiredRefreshToken
	}

	access, err := utils.NewAccessToken(s.secret, stored.UserID, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	next, err := utils.NewRefreshToken(s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.tokens.Rotate(ctx, oldHash, stored.UserID, utils.HashRefreshRaw(next.Raw), next.Exp); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access.Token,
		RefreshToken: next.Raw,
		AccessExp:    access.Exp,
		RefreshExp:   next.Exp,
	}, nil
}

// User loads a user by id for protected profile endpoints.
func (s *AuthService) User(ctx context.Context, id uint64) (model.User, error) {
	return s.users.GetByID(ctx, id)
}

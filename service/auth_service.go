package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"videotube-api/config"
	"videotube-api/logger"
	"videotube-api/model"
	"videotube-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// TokenConfig holds the signing material of the token lifecycle.
// It is passed by value and never mutated after startup.
type TokenConfig struct {
	AccessSecret  string
	AccessExpiry  time.Duration
	RefreshSecret string
	RefreshExpiry time.Duration
	BcryptCost    int
}

// NewTokenConfig copies the JWT settings out of the loaded configuration.
func NewTokenConfig(cfg *config.Config) TokenConfig {
	return TokenConfig{
		AccessSecret:  cfg.JWT.AccessTokenSecret,
		AccessExpiry:  cfg.JWT.AccessTokenExpiry,
		RefreshSecret: cfg.JWT.RefreshTokenSecret,
		RefreshExpiry: cfg.JWT.RefreshTokenExpiry,
		BcryptCost:    cfg.JWT.BcryptCost,
	}
}

// AuthService issues, validates, rotates and revokes session tokens.
type AuthService struct {
	users  repository.IUserRepository
	tokens TokenConfig
	now    func() time.Time
}

func NewAuthService(users repository.IUserRepository, tokens TokenConfig) *AuthService {
	if tokens.BcryptCost == 0 {
		tokens.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, now: time.Now}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.tokens.BcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (s *AuthService) GenerateAccessToken(user *model.User) (string, error) {
	now := s.now()
	claims := &model.AccessClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokens.AccessExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.tokens.AccessSecret))
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Error("Failed to sign access token")
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

func (s *AuthService) GenerateRefreshToken(user *model.User) (string, error) {
	now := s.now()
	claims := &model.RefreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokens.RefreshExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.tokens.RefreshSecret))
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Error("Failed to sign refresh token")
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return tokenString, nil
}

func (s *AuthService) mintPair(user *model.User) (*model.TokenPair, error) {
	accessToken, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// IssueTokenPair mints a new pair and stores the refresh token on the user,
// replacing any previous one. Nothing is returned if the store write fails.
func (s *AuthService) IssueTokenPair(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	pair, err := s.mintPair(user)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}
	return pair, nil
}

// Login checks the credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, ErrMissingIdentifier
	}
	if req.Password == "" {
		return nil, ErrMissingPassword
	}

	log := logger.Log.WithFields(logrus.Fields{
		"username": username,
		"email":    email,
	})

	user, err := s.users.GetUserByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !s.CheckPasswordHash(req.Password, user.Password) {
		log.Warn("Login rejected: password mismatch")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	log.WithField("user_id", user.ID).Info("User logged in")
	return &model.LoginResult{User: user.Sanitized(), TokenPair: *pair}, nil
}

// ParseAccessToken verifies signature and expiry. Every failure wraps ErrInvalidAccessToken.
func (s *AuthService) ParseAccessToken(tokenString string) (*model.AccessClaims, error) {
	claims := &model.AccessClaims{}
	if err := s.parse(tokenString, s.tokens.AccessSecret, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccessToken, err)
	}
	return claims, nil
}

// ParseRefreshToken verifies signature and expiry. Every failure wraps ErrInvalidRefreshToken.
func (s *AuthService) ParseRefreshToken(tokenString string) (*model.RefreshClaims, error) {
	claims := &model.RefreshClaims{}
	if err := s.parse(tokenString, s.tokens.RefreshSecret, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}
	return claims, nil
}

func (s *AuthService) parse(tokenString, secret string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("token is not valid")
	}
	return nil
}

// AuthenticateAccessToken resolves the user behind an access token.
// The returned user is sanitized.
func (s *AuthService) AuthenticateAccessToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %d no longer exists", ErrInvalidAccessToken, claims.UserID)
		}
		return nil, err
	}
	return user.Sanitized(), nil
}

// RefreshTokens rotates the session: the presented refresh token must match the
// stored one and is replaced atomically, so it can be used at most once.
func (s *AuthService) RefreshTokens(ctx context.Context, incoming string) (*model.TokenPair, error) {
	if incoming == "" {
		return nil, ErrMissingRefreshToken
	}

	claims, err := s.ParseRefreshToken(incoming)
	if err != nil {
		return nil, err
	}

	log := logger.Log.WithField("user_id", claims.UserID)

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefreshTokenUsed
		}
		return nil, err
	}
	if !user.HasRefreshToken(incoming) {
		log.Warn("Refresh rejected: token does not match the stored one")
		return nil, ErrRefreshTokenUsed
	}

	pair, err := s.mintPair(user)
	if err != nil {
		return nil, err
	}

	swapped, err := s.users.SwapRefreshToken(ctx, user.ID, incoming, pair.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if !swapped {
		log.Warn("Refresh rejected: token rotated by a concurrent request")
		return nil, ErrRefreshTokenUsed
	}

	log.Info("Refresh token rotated")
	return pair, nil
}

// Logout revokes the user's refresh token.
func (s *AuthService) Logout(ctx context.Context, userID int) error {
	err := s.users.ClearRefreshToken(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	logger.Log.WithField("user_id", userID).Info("User logged out")
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int, req model.ChangePasswordRequest) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	if !s.CheckPasswordHash(req.OldPassword, user.Password) {
		return ErrInvalidOldPassword
	}

	hash, err := s.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"videotube-api/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// seedUser stores a user whose password is "p@ss1".
func seedUser(t *testing.T, store *memUserStore, auth *AuthService, username string) *model.User {
	t.Helper()
	hash, err := auth.HashPassword("p@ss1")
	require.NoError(t, err)
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Test " + username,
		Avatar:   "http://cdn.test/a.png",
		Password: hash,
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func TestAuthService_HashPassword(t *testing.T) {
	auth := NewAuthService(newMemUserStore(), testTokenConfig())

	hash, err := auth.HashPassword("secret")

	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.True(t, auth.CheckPasswordHash("secret", hash))
	assert.False(t, auth.CheckPasswordHash("wrong", hash))
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the issued refresh token", func(t *testing.T) {
		store := newMemUserStore()
		auth := NewAuthService(store, testTokenConfig())
		user := seedUser(t, store, auth, "alice")

		result, err := auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "p@ss1"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, result.RefreshToken, store.storedToken(user.ID))
		assert.Equal(t, "alice", result.User.Username)
		assert.Empty(t, result.User.Password)
		assert.Nil(t, result.User.RefreshToken)
	})

	t.Run("email is case insensitive", func(t *testing.T) {
		store := newMemUserStore()
		auth := NewAuthService(store, testTokenConfig())
		seedUser(t, store, auth, "alice")

		result, err := auth.Login(ctx, model.LoginRequest{Email: "  ALICE@Example.com ", Password: "p@ss1"})

		require.NoError(t, err)
		assert.Equal(t, "alice", result.User.Username)
	})

	t.Run("missing identifier", func(t *testing.T) {
		auth := NewAuthService(newMemUserStore(), testTokenConfig())

		_, err := auth.Login(ctx, model.LoginRequest{Password: "p@ss1"})

		assert.ErrorIs(t, err, ErrMissingIdentifier)
	})

	t.Run("missing password", func(t *testing.T) {
		auth := NewAuthService(newMemUserStore(), testTokenConfig())

		_, err := auth.Login(ctx, model.LoginRequest{Username: "alice"})

		assert.ErrorIs(t, err, ErrMissingPassword)
	})

	t.Run("unknown user", func(t *testing.T) {
		auth := NewAuthService(newMemUserStore(), testTokenConfig())

		_, err := auth.Login(ctx, model.LoginRequest{Username: "nobody", Password: "p@ss1"})

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("wrong password issues nothing", func(t *testing.T) {
		store := newMemUserStore()
		auth := NewAuthService(store, testTokenConfig())
		user := seedUser(t, store, auth, "alice")

		result, err := auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "wrong"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.NotErrorIs(t, err, ErrUserNotFound)
		assert.Nil(t, result)
		assert.Empty(t, store.storedToken(user.ID))
	})
}

func TestAuthService_IssueTokenPair_PersistFailure(t *testing.T) {
	repo := new(mockUserRepo)
	auth := NewAuthService(repo, testTokenConfig())
	user := &model.User{ID: 9, Username: "bob"}

	repo.On("SetRefreshToken", mock.Anything, 9, mock.AnythingOfType("string")).
		Return(errors.New("connection reset")).Once()

	pair, err := auth.IssueTokenPair(context.Background(), user)

	assert.Error(t, err)
	assert.Nil(t, pair)
	repo.AssertExpectations(t)
}

func TestAuthService_AccessTokenRoundTrip(t *testing.T) {
	store := newMemUserStore()
	auth := NewAuthService(store, testTokenConfig())
	user := seedUser(t, store, auth, "carol")

	pair, err := auth.IssueTokenPair(context.Background(), user)
	require.NoError(t, err)

	claims, err := auth.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "carol", claims.Username)

	resolved, err := auth.AuthenticateAccessToken(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Empty(t, resolved.Password)
}

func TestAuthService_ParseAccessToken_Rejects(t *testing.T) {
	store := newMemUserStore()
	auth := NewAuthService(store, testTokenConfig())
	user := seedUser(t, store, auth, "dave")

	t.Run("expired token with valid signature", func(t *testing.T) {
		auth.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := auth.GenerateAccessToken(user)
		require.NoError(t, err)
		auth.now = time.Now

		_, err = auth.ParseAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidAccessToken)
	})

	t.Run("refresh token presented as access token", func(t *testing.T) {
		token, err := auth.GenerateRefreshToken(user)
		require.NoError(t, err)

		_, err = auth.ParseAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidAccessToken)
	})

	t.Run("foreign signature", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &model.AccessClaims{
			UserID: user.ID,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		token, err := forged.SignedString([]byte("someone-else"))
		require.NoError(t, err)

		_, err = auth.ParseAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidAccessToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.ParseAccessToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidAccessToken)
	})

	t.Run("deleted user", func(t *testing.T) {
		token, err := auth.GenerateAccessToken(&model.User{ID: 4242})
		require.NoError(t, err)

		_, err = auth.AuthenticateAccessToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidAccessToken)
	})
}

func TestAuthService_RefreshTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("rotation invalidates the predecessor", func(t *testing.T) {
		store := newMemUserStore()
		auth := NewAuthService(store, testTokenConfig())
		user := seedUser(t, store, auth, "erin")
		first, err := auth.IssueTokenPair(ctx, user)
		require.NoError(t, err)

		second, err := auth.RefreshTokens(ctx, first.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
		assert.Equal(t, second.RefreshToken, store.storedToken(user.ID))

		_, err = auth.RefreshTokens(ctx, first.RefreshToken)
		assert.ErrorIs(t, err, ErrRefreshTokenUsed)

		_, err = auth.RefreshTokens(ctx, second.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("logout revokes a still valid token", func(t *testing.T) {
		store := newMemUserStore()
		auth := NewAuthService(store, testTokenConfig())
		user := seedUser(t, store, auth, "frank")
		pair, err := auth.IssueTokenPair(ctx, user)
		require.NoError(t, err)

		require.NoError(t, auth.Logout(ctx, user.ID))
		_, err = auth.ParseRefreshToken(pair.RefreshToken)
		require.NoError(t, err)

		_, err = auth.RefreshTokens(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrRefreshTokenUsed)
	})

	t.Run("missing token", func(t *testing.T) {
		auth := NewAuthService(newMemUserStore(), testTokenConfig())

		_, err := auth.RefreshTokens(ctx, "")
		assert.ErrorIs(t, err, ErrMissingRefreshToken)
	})

	t.Run("access token presented as refresh token", func(t *testing.T) {
		store := newMemUserStore()
		auth := NewAuthService(store, testTokenConfig())
		user := seedUser(t, store, auth, "gina")
		pair, err := auth.IssueTokenPair(ctx, user)
		require.NoError(t, err)

		_, err = auth.RefreshTokens(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		store := newMemUserStore()
		auth := NewAuthService(store, testTokenConfig())
		user := seedUser(t, store, auth, "hank")
		auth.now = func() time.Time { return time.Now().Add(-300 * time.Hour) }
		pair, err := auth.IssueTokenPair(ctx, user)
		require.NoError(t, err)
		auth.now = time.Now

		_, err = auth.RefreshTokens(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("lost compare and swap", func(t *testing.T) {
		repo := new(mockUserRepo)
		auth := NewAuthService(repo, testTokenConfig())
		user := &model.User{ID: 3, Username: "ivan"}
		incoming, err := auth.GenerateRefreshToken(user)
		require.NoError(t, err)
		stored := *user
		stored.RefreshToken = &incoming

		repo.On("GetUserByID", mock.Anything, 3).Return(&stored, nil).Once()
		repo.On("SwapRefreshToken", mock.Anything, 3, incoming, mock.AnythingOfType("string")).Return(false, nil).Once()

		_, err = auth.RefreshTokens(ctx, incoming)

		assert.ErrorIs(t, err, ErrRefreshTokenUsed)
		repo.AssertExpectations(t)
	})

	t.Run("concurrent refreshes have a single winner", func(t *testing.T) {
		store := newMemUserStore()
		auth := NewAuthService(store, testTokenConfig())
		user := seedUser(t, store, auth, "judy")
		pair, err := auth.IssueTokenPair(ctx, user)
		require.NoError(t, err)

		const callers = 8
		var wg sync.WaitGroup
		results := make(chan error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := auth.RefreshTokens(ctx, pair.RefreshToken)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		wins := 0
		for err := range results {
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, ErrRefreshTokenUsed)
			}
		}
		assert.Equal(t, 1, wins)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	store := newMemUserStore()
	auth := NewAuthService(store, testTokenConfig())
	user := seedUser(t, store, auth, "kate")

	err := auth.ChangePassword(ctx, user.ID, model.ChangePasswordRequest{OldPassword: "nope", NewPassword: "fresh-pass"})
	assert.ErrorIs(t, err, ErrInvalidOldPassword)

	err = auth.ChangePassword(ctx, user.ID, model.ChangePasswordRequest{OldPassword: "p@ss1", NewPassword: "fresh-pass"})
	require.NoError(t, err)

	_, err = auth.Login(ctx, model.LoginRequest{Username: "kate", Password: "fresh-pass"})
	assert.NoError(t, err)
	_, err = auth.Login(ctx, model.LoginRequest{Username: "kate", Password: "p@ss1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/ecovekt/backend/internal/domain/error"
)

const testSecret = "test-secret"

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	token, err := svc.GenerateAccessToken(context.Background(), "uid-1", "ola@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UserID)
	assert.Equal(t, "ola@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("other", time.Hour)
		token, err := other.GenerateAccessToken(context.Background(), "uid", "")
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(context.Background(), token)
		assert.ErrorIs(t, err, domainerror.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		claims := CustomClaims{
			UserID: "uid",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(context.Background(), token)
		assert.ErrorIs(t, err, domainerror.ErrExpiredToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, domainerror.ErrInvalidToken)
	})

	t.Run("empty user", func(t *testing.T) {
		_, err := svc.GenerateAccessToken(context.Background(), "", "")
		assert.Error(t, err)
	})
}

func TestContextIdentityProvider(t *testing.T) {
	p := NewContextIdentityProvider()

	_, ok := p.CurrentUserID(context.Background())
	assert.False(t, ok)

	userID, ok := p.CurrentUserID(WithUserID(context.Background(), "uid-9"))
	assert.True(t, ok)
	assert.Equal(t, "uid-9", userID)

	_, ok = p.CurrentUserID(WithUserID(context.Background(), ""))
	assert.False(t, ok)
}

func TestTokenIdentityProvider(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	tokenA, err := svc.GenerateAccessToken(context.Background(), "uid-a", "")
	require.NoError(t, err)
	tokenB, err := svc.GenerateAccessToken(context.Background(), "uid-b", "")
	require.NoError(t, err)

	p := NewTokenIdentityProvider("")
	_, ok := p.CurrentUserID(context.Background())
	assert.False(t, ok)

	type change struct {
		userID string
		ok     bool
	}
	var changes []change
	unsubscribe := p.OnIdentityChange(func(userID string, ok bool) {
		changes = append(changes, change{userID, ok})
	})

	p.SetToken(tokenA)
	p.SetToken(tokenA)
	p.SetToken(tokenB)
	p.SetToken("garbage")

	assert.Equal(t, []change{{"uid-a", true}, {"uid-b", true}, {"", false}}, changes)

	unsubscribe()
	p.SetToken(tokenA)
	assert.Len(t, changes, 3)

	userID, ok := p.CurrentUserID(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "uid-a", userID)
}

func TestSystemClock(t *testing.T) {
	now := NewSystemClock().Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

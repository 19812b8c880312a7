package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"

	"github.com/fekuna/omnipos-backoffice/internal/apperror"
)

func TestJWTRoundTrip(t *testing.T) {
	v, err := NewJWTValidator("secret", "omnipos-auth")
	require.NoError(t, err)

	seller := UserContext{MerchantID: "m1", UserID: "u1", Role: RoleSeller}
	token, err := v.IssueToken(seller, time.Hour)
	require.NoError(t, err)

	claims, err := v.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, seller, claims.User())
}

func TestJWTRejects(t *testing.T) {
	v, _ := NewJWTValidator("secret", "omnipos-auth")
	other, _ := NewJWTValidator("other-secret", "omnipos-auth")
	wrongIssuer, _ := NewJWTValidator("secret", "someone-else")

	expired, err := v.IssueToken(UserContext{MerchantID: "m1", UserID: "u1", Role: RoleSeller}, -time.Minute)
	require.NoError(t, err)
	forged, _ := other.IssueToken(UserContext{MerchantID: "m1", UserID: "u1", Role: RoleSeller}, time.Hour)
	foreign, _ := wrongIssuer.IssueToken(UserContext{MerchantID: "m1", UserID: "u1", Role: RoleSeller}, time.Hour)
	noMerchant, _ := v.IssueToken(UserContext{UserID: "u1", Role: RoleBuyer}, time.Hour)
	badRole, _ := v.IssueToken(UserContext{MerchantID: "m1", UserID: "u1", Role: "root"}, time.Hour)

	_, err = v.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
	_, err = v.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)
	_, err = v.ValidateToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = v.ValidateToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = v.ValidateToken(noMerchant)
	assert.ErrorIs(t, err, ErrInvalidClaims)
	_, err = v.ValidateToken(badRole)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestAdminTokenWithoutMerchant(t *testing.T) {
	v, _ := NewJWTValidator("secret", "")
	token, _ := v.IssueToken(UserContext{UserID: "ops", Role: RoleAdmin}, time.Hour)
	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestNewJWTValidatorRequiresSecret(t *testing.T) {
	_, err := NewJWTValidator("", "x")
	assert.Error(t, err)
}

func TestGetMerchantID(t *testing.T) {
	ctx := WithUser(context.Background(), UserContext{MerchantID: "m1", UserID: "u1", Role: RoleSeller})
	assert.Equal(t, "m1", GetMerchantID(ctx))

	md := metadata.Pairs(MerchantHeader, "m2")
	assert.Equal(t, "m2", GetMerchantID(metadata.NewIncomingContext(context.Background(), md)))

	assert.Empty(t, GetMerchantID(context.Background()))
}

func TestResolveMerchant(t *testing.T) {
	seller := UserContext{MerchantID: "m1", UserID: "u1", Role: RoleSeller}
	admin := UserContext{UserID: "ops", Role: RoleAdmin}

	got, err := ResolveMerchant(seller, "")
	require.NoError(t, err)
	assert.Equal(t, "m1", got)

	got, err = ResolveMerchant(seller, "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", got)

	_, err = ResolveMerchant(seller, "m2")
	assert.True(t, apperror.IsForbidden(err))

	got, err = ResolveMerchant(admin, "m9")
	require.NoError(t, err)
	assert.Equal(t, "m9", got)

	_, err = ResolveMerchant(admin, "")
	assert.True(t, apperror.IsType(err, apperror.ErrorTypeUnauthorized))
}

func TestCanManage(t *testing.T) {
	assert.True(t, UserContext{Role: RoleSeller}.CanManage())
	assert.True(t, UserContext{Role: RoleAdmin}.CanManage())
	assert.False(t, UserContext{Role: RoleBuyer}.CanManage())
}

func headers(kv ...string) func(string) string {
	m := map[string]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return func(k string) string { return m[k] }
}

func TestAuthenticator(t *testing.T) {
	v, _ := NewJWTValidator("secret", "omnipos-auth")
	seller, _ := v.IssueToken(UserContext{MerchantID: "m1", UserID: "u1", Role: RoleSeller}, time.Hour)
	admin, _ := v.IssueToken(UserContext{UserID: "ops", Role: RoleAdmin}, time.Hour)

	t.Run("bearer token", func(t *testing.T) {
		u, err := NewAuthenticator(v, false).Authenticate("Bearer "+seller, headers())
		require.NoError(t, err)
		assert.Equal(t, UserContext{MerchantID: "m1", UserID: "u1", Role: RoleSeller}, u)
	})

	t.Run("admin override", func(t *testing.T) {
		u, err := NewAuthenticator(v, false).Authenticate("Bearer "+admin, headers(MerchantHeader, "m7"))
		require.NoError(t, err)
		assert.Equal(t, "m7", u.MerchantID)
	})

	t.Run("seller cannot switch merchant", func(t *testing.T) {
		_, err := NewAuthenticator(v, false).Authenticate("Bearer "+seller, headers(MerchantHeader, "m2"))
		assert.True(t, apperror.IsForbidden(err))
	})

	t.Run("bad token", func(t *testing.T) {
		_, err := NewAuthenticator(v, true).Authenticate("Bearer nope", headers(MerchantHeader, "m1"))
		assert.True(t, apperror.IsType(err, apperror.ErrorTypeUnauthorized))
	})

	t.Run("gateway headers", func(t *testing.T) {
		u, err := NewAuthenticator(nil, true).Authenticate("", headers(MerchantHeader, "m1", UserHeader, "u9", RoleHeader, "level2"))
		require.NoError(t, err)
		assert.Equal(t, UserContext{MerchantID: "m1", UserID: "u9", Role: RoleBuyer}, u)
	})

	t.Run("gateway headers without user", func(t *testing.T) {
		_, err := NewAuthenticator(nil, true).Authenticate("", headers(MerchantHeader, "m1", RoleHeader, "level1"))
		assert.True(t, apperror.IsType(err, apperror.ErrorTypeUnauthorized))
	})

	t.Run("gateway headers untrusted", func(t *testing.T) {
		_, err := NewAuthenticator(v, false).Authenticate("", headers(MerchantHeader, "m1"))
		assert.True(t, apperror.IsType(err, apperror.ErrorTypeUnauthorized))
	})

	t.Run("token without validator", func(t *testing.T) {
		_, err := NewAuthenticator(nil, true).Authenticate("Bearer "+seller, headers())
		assert.True(t, apperror.IsType(err, apperror.ErrorTypeUnauthorized))
	})
}

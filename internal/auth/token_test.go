package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	for _, p := range []Principal{
		{ID: 42, Role: RoleCompany},
		{ID: 7, Role: RolePartner},
	} {
		token, err := issuer.Issue(p)
		require.NoError(t, err)

		got, err := issuer.Verify(token)
		require.NoError(t, err)
		require.Equal(t, p, got)
	}
}

func TestTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(Principal{ID: 42, Role: RoleCompany})
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	token, err := issuer.Issue(Principal{ID: 42, Role: RoleCompany})
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Verify(token)
		require.ErrorIs(t, err, ErrTokenInvalid)
	}
}

package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateAndVerify(t *testing.T) {
	s := NewSigner("secret", false)

	token, expires, err := s.CreateToken(true, 77)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(4*7*24*time.Hour), expires, time.Minute)

	claims, err := s.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, int64(77), claims.UserID)
	require.True(t, claims.Remember)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := NewSigner("secret", false).CreateToken(false, 77)
	require.NoError(t, err)

	_, err = NewSigner("other", false).VerifyToken(token)
	require.Error(t, err)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := NewSigner("secret", false).VerifyToken("not.a.token")
	require.Error(t, err)
}

func TestCookie(t *testing.T) {
	s := NewSigner("secret", true)

	session := s.Cookie("abc", time.Now(), false)
	require.Equal(t, CookieName, session.Name)
	require.True(t, session.Secure)
	require.True(t, session.Expires.IsZero())

	remembered := s.Cookie("abc", time.Now().Add(time.Hour), true)
	require.False(t, remembered.Expires.IsZero())
}

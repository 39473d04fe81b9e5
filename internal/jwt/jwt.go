// Package jwt issues and verifies the ID tokens handed out on login.
package jwt

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "JWT"

var ErrInvalidToken = errors.New("invalid token")

type UserToken struct {
	UserID   int64 `json:"userID,string"`
	Remember bool  `json:"rem"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret  []byte
	isHttps bool
}

func NewSigner(key string, isHttps bool) *Signer {
	return &Signer{
		secret:  []byte(key),
		isHttps: isHttps,
	}
}

func lifetime(rememberMe bool) time.Duration {
	if rememberMe {
		return time.Hour * 24 * 7 * 4 // 4 weeks
	}
	return time.Hour * 24
}

// CreateToken signs a token for userID and returns it with its expiry.
func (s *Signer) CreateToken(rememberMe bool, userID int64) (string, time.Time, error) {
	currentTime := time.Now().UTC()
	expirationDate := currentTime.Add(lifetime(rememberMe))

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, UserToken{
		UserID:   userID,
		Remember: rememberMe,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(expirationDate),
		},
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expirationDate, nil
}

// VerifyToken rejects tokens with a bad signature, a foreign algorithm or a past expiry.
func (s *Signer) VerifyToken(tokenString string) (UserToken, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserToken{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return UserToken{}, err
	}

	claims, ok := token.Claims.(*UserToken)
	if !ok || claims.UserID == 0 {
		return UserToken{}, ErrInvalidToken
	}
	return *claims, nil
}

func (s *Signer) Cookie(token string, expires time.Time, rememberMe bool) http.Cookie {
	cookie := http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isHttps,
		SameSite: http.SameSiteLaxMode,
	}

	if rememberMe {
		cookie.Expires = expires
	}

	return cookie
}

// DeleteCookie makes the client drop its JWT cookie.
func DeleteCookie() http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	}
}

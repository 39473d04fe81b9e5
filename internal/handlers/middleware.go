package handlers

import (
	"chatapp-client/internal/jwt"
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"context"
	"errors"
	"net/http"
	"time"
)

// renewAfter is how old a token gets before UserVerifier replaces it.
const renewAfter = 15 * time.Minute

type UserKeyType struct{}

func AllowCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserVerifier lets a request through only with a JWT cookie of a live,
// unrevoked session, and passes the user on in the context.
func (s *Server) UserVerifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jwtCookie, err := r.Cookie(jwt.CookieName)
		if err != nil {
			s.sugar.Debug(err)
			switch {
			case errors.Is(err, http.ErrNoCookie):
				http.Error(w, "No jwt cookie was provided", http.StatusUnauthorized)
			default:
				http.Error(w, "Couldn't read jwt cookie", http.StatusInternalServerError)
			}
			return
		}

		token := jwtCookie.Value

		// revocation, expiry and deleted accounts all end up here as an error
		user, err := resource.Await(r.Context(), s.uc.GetCurrentUser.Invoke(r.Context(), token))
		if err != nil {
			s.sugar.Debug(err)
			deleteCookie := jwt.DeleteCookie()
			http.SetCookie(w, &deleteCookie)
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := s.backend.Signer.VerifyToken(token)
		if err != nil {
			s.sugar.Error(err)
			http.Error(w, "", http.StatusInternalServerError)
			return
		}

		if time.Since(claims.IssuedAt.Time) >= renewAfter {
			renewed, expires, err := s.backend.Signer.CreateToken(claims.Remember, user.ID)
			if err != nil {
				s.sugar.Error(err)
				http.Error(w, "Couldn't renew cookie", http.StatusInternalServerError)
				return
			}

			cookie := s.backend.Signer.Cookie(renewed, expires, claims.Remember)
			http.SetCookie(w, &cookie)
		}

		ctx := context.WithValue(r.Context(), UserKeyType{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUser(r *http.Request) models.User {
	return r.Context().Value(UserKeyType{}).(models.User)
}

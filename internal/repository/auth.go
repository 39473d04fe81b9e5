package repository

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/snowflake"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthRepository struct {
	*Backend
}

func NewAuthRepository(b *Backend) *AuthRepository {
	return &AuthRepository{b}
}

func revokedKey(token string) string {
	return fmt.Sprintf("revoked:%s", token)
}

func resetKey(token string) string {
	return fmt.Sprintf("password_reset:%s", token)
}

func (r *AuthRepository) Register(ctx context.Context, email string, password string, userName string) resource.Stream[models.User] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.User, error) {
		userID, err := snowflake.Generate()
		if err != nil {
			return models.User{}, err
		}

		hash, err := r.hashPassword(password)
		if err != nil {
			return models.User{}, err
		}

		user := models.User{
			ID:          userID,
			Email:       email,
			UserName:    userName,
			DisplayName: userName,
			Status:      models.StatusOnline,
			CreatedAt:   snowflake.Time(userID),
		}

		_, err = r.DB.Builder.Insert("users").
			Columns("id", "email", "username", "display_name", "picture", "status", "bio", "password").
			Values(user.ID, user.Email, user.UserName, user.DisplayName, user.Picture, user.Status, user.Bio, hash).
			RunWith(r.DB).ExecContext(ctx)
		if err != nil {
			return models.User{}, err
		}

		r.Sugar.Debugf("Registered user ID [%d]", user.ID)

		return user, nil
	})
}

func (r *AuthRepository) Login(ctx context.Context, email string, password string, remember bool) resource.Stream[models.Session] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.Session, error) {
		row := r.DB.Builder.Select(append(userColumns, "users.password")...).
			From("users").
			Where(sq.Eq{"users.email": email}).
			RunWith(r.DB).QueryRowContext(ctx)

		var user models.User
		var hash string
		err := row.Scan(&user.ID, &user.Email, &user.UserName, &user.DisplayName, &user.Picture, &user.Status, &user.Bio, &hash)
		if err != nil {
			if errors.Is(classify(err), ErrNotFound) {
				return models.Session{}, ErrInvalidCredentials
			}
			return models.Session{}, err
		}
		user.CreatedAt = snowflake.Time(user.ID)

		err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if err != nil {
			return models.Session{}, ErrInvalidCredentials
		}

		token, expires, err := r.Signer.CreateToken(remember, user.ID)
		if err != nil {
			return models.Session{}, err
		}

		return models.Session{
			User:      user,
			Token:     token,
			Remember:  remember,
			ExpiresAt: expires,
		}, nil
	})
}

// CurrentUser resolves the user a token was issued to.
func (r *AuthRepository) CurrentUser(ctx context.Context, token string) resource.Stream[models.User] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.User, error) {
		claims, err := r.Signer.VerifyToken(token)
		if err != nil {
			r.Sugar.Debug(err)
			return models.User{}, ErrSessionExpired
		}

		revoked, err := r.KV.Get(ctx, revokedKey(token))
		if err != nil {
			return models.User{}, err
		}
		if revoked != "" {
			return models.User{}, ErrSessionExpired
		}

		user, err := getUser(ctx, r.Backend, claims.UserID)
		if errors.Is(classify(err), ErrNotFound) {
			// account was deleted while the token was still around
			return models.User{}, ErrSessionExpired
		}
		return user, err
	})
}

func (r *AuthRepository) Logout(ctx context.Context, token string) resource.Stream[struct{}] {
	return once(ctx, r.Sugar, func(ctx context.Context) (struct{}, error) {
		claims, err := r.Signer.VerifyToken(token)
		if err != nil {
			// nothing to revoke
			return struct{}{}, nil
		}

		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl <= 0 {
			return struct{}{}, nil
		}

		return struct{}{}, r.KV.Set(ctx, revokedKey(token), "y", ttl)
	})
}

// SendPasswordReset mails a reset link. An unknown email succeeds the same
// way, so the result doesn't tell which addresses have an account.
func (r *AuthRepository) SendPasswordReset(ctx context.Context, email string) resource.Stream[struct{}] {
	return once(ctx, r.Sugar, func(ctx context.Context) (struct{}, error) {
		var userID int64
		var userName string
		err := r.DB.Builder.Select("id", "username").
			From("users").
			Where(sq.Eq{"email": email}).
			RunWith(r.DB).QueryRowContext(ctx).Scan(&userID, &userName)
		if errors.Is(err, sql.ErrNoRows) {
			r.Sugar.Debugf("Password reset requested for unknown email %s", email)
			return struct{}{}, nil
		}
		if err != nil {
			return struct{}{}, err
		}

		token, err := uuid.NewV7()
		if err != nil {
			return struct{}{}, err
		}

		err = r.KV.Set(ctx, resetKey(token.String()), strconv.FormatInt(userID, 10), 1*time.Hour)
		if err != nil {
			return struct{}{}, err
		}

		return struct{}{}, r.Email.SendPasswordReset(ctx, email, userName, token.String())
	})
}

// ResetPassword consumes a reset token; it can't be used twice.
func (r *AuthRepository) ResetPassword(ctx context.Context, token string, password string) resource.Stream[struct{}] {
	return once(ctx, r.Sugar, func(ctx context.Context) (struct{}, error) {
		value, err := r.KV.GetDel(ctx, resetKey(token))
		if err != nil {
			return struct{}{}, err
		}
		if value == "" {
			return struct{}{}, ErrInvalidResetToken
		}

		userID, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return struct{}{}, err
		}

		hash, err := r.hashPassword(password)
		if err != nil {
			return struct{}{}, err
		}

		_, err = r.DB.Builder.Update("users").
			Set("password", hash).
			Where(sq.Eq{"id": userID}).
			RunWith(r.DB).ExecContext(ctx)
		return struct{}{}, err
	})
}

package repository

import (
	"chatapp-client/internal/hub"
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"context"
	"fmt"
	"io"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const searchLimit = 25

// likeEscaper makes LIKE wildcards typed by the user match literally. '!' is
// used as the escape character since sqlite has no default one and mysql
// treats a backslash in a string literal as an escape of its own.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}

type UserRepository struct {
	*Backend
}

func NewUserRepository(b *Backend) *UserRepository {
	return &UserRepository{b}
}

func userTopic(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func getUser(ctx context.Context, b *Backend, userID int64) (models.User, error) {
	row := b.DB.Builder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"users.id": userID}).
		RunWith(b.DB).QueryRowContext(ctx)
	return scanUser(row)
}

func (r *UserRepository) GetUser(ctx context.Context, userID int64) resource.Stream[models.User] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.User, error) {
		return getUser(ctx, r.Backend, userID)
	})
}

func (r *UserRepository) ObserveUser(ctx context.Context, userID int64) resource.Stream[models.User] {
	return watch(ctx, r.Backend, []string{userTopic(userID)}, func(ctx context.Context) (models.User, error) {
		return getUser(ctx, r.Backend, userID)
	})
}

// update writes columns of userID and announces the new record.
func (r *UserRepository) update(ctx context.Context, userID int64, columns map[string]interface{}) (models.User, error) {
	_, err := r.DB.Builder.Update("users").
		SetMap(columns).
		Where(sq.Eq{"id": userID}).
		RunWith(r.DB).ExecContext(ctx)
	if err != nil {
		return models.User{}, err
	}

	user, err := getUser(ctx, r.Backend, userID)
	if err != nil {
		return models.User{}, err
	}

	r.emit(ctx, hub.UserModified, user, userTopic(userID))
	return user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, displayName string, bio string) resource.Stream[models.User] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.User, error) {
		return r.update(ctx, userID, map[string]interface{}{
			"display_name": displayName,
			"bio":          bio,
		})
	})
}

func (r *UserRepository) UpdateStatus(ctx context.Context, userID int64, status string) resource.Stream[models.User] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.User, error) {
		return r.update(ctx, userID, map[string]interface{}{"status": status})
	})
}

func (r *UserRepository) UploadPicture(ctx context.Context, userID int64, picture io.Reader) resource.Stream[models.User] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.User, error) {
		path, err := r.Storage.SavePicture("avatars", picture)
		if err != nil {
			return models.User{}, err
		}
		return r.update(ctx, userID, map[string]interface{}{"picture": path})
	})
}

// SearchUsers matches query against user and display names, ignoring case.
func (r *UserRepository) SearchUsers(ctx context.Context, query string) resource.Stream[[]models.User] {
	return once(ctx, r.Sugar, func(ctx context.Context) ([]models.User, error) {
		pattern := containsPattern(query)

		rows, err := r.DB.Builder.Select(userColumns...).
			From("users").
			Where(sq.Or{
				sq.Expr("LOWER(users.username) LIKE ? ESCAPE '!'", pattern),
				sq.Expr("LOWER(users.display_name) LIKE ? ESCAPE '!'", pattern),
			}).
			OrderBy("users.username").
			Limit(searchLimit).
			RunWith(r.DB).QueryContext(ctx)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		users := []models.User{}
		for rows.Next() {
			user, err := scanUser(rows)
			if err != nil {
				return nil, err
			}
			user.Email = ""
			users = append(users, user)
		}

		return users, rows.Err()
	})
}

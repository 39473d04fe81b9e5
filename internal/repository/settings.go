package repository

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
)

type SettingsRepository struct {
	*Backend
}

func NewSettingsRepository(b *Backend) *SettingsRepository {
	return &SettingsRepository{b}
}

// GetSettings falls back to the defaults for users that never saved any.
func (r *SettingsRepository) GetSettings(ctx context.Context, userID int64) resource.Stream[models.UserSettings] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.UserSettings, error) {
		settings := models.UserSettings{UserID: userID}
		err := r.DB.Builder.Select("theme", "language", "notifications", "compact").
			From("user_settings").
			Where(sq.Eq{"user_id": userID}).
			RunWith(r.DB).QueryRowContext(ctx).
			Scan(&settings.Theme, &settings.Language, &settings.NotificationsEnabled, &settings.CompactMode)
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultSettings(userID), nil
		}
		if err != nil {
			return models.UserSettings{}, err
		}
		return settings, nil
	})
}

func (r *SettingsRepository) UpdateSettings(ctx context.Context, settings models.UserSettings) resource.Stream[models.UserSettings] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.UserSettings, error) {
		defaults := models.DefaultSettings(settings.UserID)
		if settings.Theme == "" {
			settings.Theme = defaults.Theme
		}
		if settings.Language == "" {
			settings.Language = defaults.Language
		}

		err := r.inTx(ctx, func(tx *sql.Tx) error {
			var count int
			err := r.DB.Builder.Select("COUNT(*)").
				From("user_settings").
				Where(sq.Eq{"user_id": settings.UserID}).
				RunWith(tx).QueryRowContext(ctx).Scan(&count)
			if err != nil {
				return err
			}

			if count > 0 {
				_, err = r.DB.Builder.Update("user_settings").
					Set("theme", settings.Theme).
					Set("language", settings.Language).
					Set("notifications", settings.NotificationsEnabled).
					Set("compact", settings.CompactMode).
					Where(sq.Eq{"user_id": settings.UserID}).
					RunWith(tx).ExecContext(ctx)
				return err
			}

			_, err = r.DB.Builder.Insert("user_settings").
				Columns("user_id", "theme", "language", "notifications", "compact").
				Values(settings.UserID, settings.Theme, settings.Language, settings.NotificationsEnabled, settings.CompactMode).
				RunWith(tx).ExecContext(ctx)
			return err
		})
		if err != nil {
			return models.UserSettings{}, err
		}

		return settings, nil
	})
}

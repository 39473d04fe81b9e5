package usecase

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/validator"
	"context"
)

type SettingsRepository interface {
	GetSettings(ctx context.Context, userID int64) resource.Stream[models.UserSettings]
	UpdateSettings(ctx context.Context, settings models.UserSettings) resource.Stream[models.UserSettings]
}

type GetSettings struct {
	repo SettingsRepository
}

func (u *GetSettings) Invoke(ctx context.Context, userID int64) resource.Stream[models.UserSettings] {
	if userID == 0 {
		return resource.Fail[models.UserSettings](MsgBlankUserID)
	}
	return u.repo.GetSettings(ctx, userID)
}

type UpdateSettings struct {
	repo SettingsRepository
}

// Invoke saves settings after checking its tags, failing with codes such as "theme_oneof".
func (u *UpdateSettings) Invoke(ctx context.Context, settings models.UserSettings) resource.Stream[models.UserSettings] {
	if settings.UserID == 0 {
		return resource.Fail[models.UserSettings](MsgBlankUserID)
	}
	if err := validator.Struct(settings); err != nil {
		return resource.Fail[models.UserSettings](err.Error())
	}
	return u.repo.UpdateSettings(ctx, settings)
}

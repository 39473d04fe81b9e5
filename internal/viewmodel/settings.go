package viewmodel

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/usecase"
	"context"

	"go.uber.org/zap"
)

type SettingsState struct {
	Progress
	Settings models.UserSettings `json:"settings"`
}

type Settings struct {
	*Holder[SettingsState]
	uc     *usecase.Set
	userID int64
}

func NewSettings(ctx context.Context, sugar *zap.SugaredLogger, uc *usecase.Set, userID int64) *Settings {
	vm := &Settings{
		Holder: newHolder(ctx, sugar, SettingsState{}),
		uc:     uc,
		userID: userID,
	}
	follow(vm.Holder, uc.GetSettings.Invoke(vm.ctx, userID), foldSettings)
	return vm
}

func foldSettings(s SettingsState, r resource.Resource[models.UserSettings]) SettingsState {
	s.Progress = progressOf(r)
	if r.IsSuccess() {
		s.Settings = r.Data
	}
	return s
}

// Update saves settings for the screen's user.
func (vm *Settings) Update(settings models.UserSettings) <-chan struct{} {
	settings.UserID = vm.userID
	return follow(vm.Holder, vm.uc.UpdateSettings.Invoke(vm.ctx, settings), foldSettings)
}

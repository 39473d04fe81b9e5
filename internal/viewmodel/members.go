package viewmodel

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/usecase"
	"context"

	"go.uber.org/zap"
)

type MembersState struct {
	Progress
	ServerID int64         `json:"serverID,string"`
	Members  []models.User `json:"members"`
}

type Members struct {
	*Holder[MembersState]
	uc *usecase.Set
}

func NewMembers(ctx context.Context, sugar *zap.SugaredLogger, uc *usecase.Set, serverID int64) *Members {
	vm := &Members{
		Holder: newHolder(ctx, sugar, MembersState{ServerID: serverID}),
		uc:     uc,
	}

	stream := uc.ObserveServerMembers.Invoke(vm.ctx, serverID)
	follow(vm.Holder, stream, func(s MembersState, r resource.Resource[[]models.User]) MembersState {
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			s.Members = r.Data
		}
		return s
	})

	return vm
}

func (vm *Members) OpenProfile(userID int64) {
	vm.navigate(Destination{Route: RouteProfile, UserID: userID})
}

// Refresh reloads the member list once, outside of the listener.
func (vm *Members) Refresh() <-chan struct{} {
	stream := vm.uc.GetServerMembers.Invoke(vm.ctx, vm.State().ServerID)
	return follow(vm.Holder, stream, func(s MembersState, r resource.Resource[[]models.User]) MembersState {
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			s.Members = r.Data
		}
		return s
	})
}

package viewmodel

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/usecase"
	"context"
	"io"

	"go.uber.org/zap"
)

type ProfileState struct {
	Progress
	User   models.User `json:"user"`
	IsSelf bool        `json:"isSelf"`
}

// Profile shows a user; the user's own profile can be edited.
type Profile struct {
	*Holder[ProfileState]
	uc       *usecase.Set
	viewerID int64
	userID   int64
}

func NewProfile(ctx context.Context, sugar *zap.SugaredLogger, uc *usecase.Set, viewerID int64, userID int64) *Profile {
	vm := &Profile{
		Holder:   newHolder(ctx, sugar, ProfileState{IsSelf: viewerID == userID}),
		uc:       uc,
		viewerID: viewerID,
		userID:   userID,
	}

	stream := uc.ObserveUser.Invoke(vm.ctx, userID)
	follow(vm.Holder, stream, vm.foldUser)

	return vm
}

func (vm *Profile) foldUser(s ProfileState, r resource.Resource[models.User]) ProfileState {
	s.Progress = progressOf(r)
	if r.IsSuccess() {
		s.User = r.Data
	}
	return s
}

// edit runs a change to the viewer's own profile.
func (vm *Profile) edit(invoke func() resource.Stream[models.User]) <-chan struct{} {
	if vm.viewerID != vm.userID {
		return follow(vm.Holder, resource.Fail[models.User]("not_own_profile"), vm.foldUser)
	}
	return follow(vm.Holder, invoke(), vm.foldUser)
}

func (vm *Profile) UpdateProfile(displayName string, bio string) <-chan struct{} {
	return vm.edit(func() resource.Stream[models.User] {
		return vm.uc.UpdateProfile.Invoke(vm.ctx, vm.userID, displayName, bio)
	})
}

func (vm *Profile) UpdateStatus(status string) <-chan struct{} {
	return vm.edit(func() resource.Stream[models.User] {
		return vm.uc.UpdateStatus.Invoke(vm.ctx, vm.userID, status)
	})
}

func (vm *Profile) UploadPicture(picture io.Reader) <-chan struct{} {
	return vm.edit(func() resource.Stream[models.User] {
		return vm.uc.UploadProfilePicture.Invoke(vm.ctx, vm.userID, picture)
	})
}

// SendMessage opens the conversation with the shown user.
func (vm *Profile) SendMessage() <-chan struct{} {
	stream := vm.uc.GetOrCreateConversation.Invoke(vm.ctx, vm.viewerID, vm.userID)
	return follow(vm.Holder, stream, func(s ProfileState, r resource.Resource[models.DirectMessageConversation]) ProfileState {
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			vm.navigate(Destination{Route: RouteChat, ConversationID: r.Data.ID})
		}
		return s
	})
}

package viewmodel

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/usecase"
	"context"

	"go.uber.org/zap"
)

type DirectMessagesState struct {
	Progress
	Conversations []models.DirectMessageConversation `json:"conversations"`
	SearchResults []models.User                      `json:"searchResults"`
}

// DirectMessages lists the conversations of a user and finds people to talk to.
type DirectMessages struct {
	*Holder[DirectMessagesState]
	uc     *usecase.Set
	userID int64
}

func NewDirectMessages(ctx context.Context, sugar *zap.SugaredLogger, uc *usecase.Set, userID int64) *DirectMessages {
	vm := &DirectMessages{
		Holder: newHolder(ctx, sugar, DirectMessagesState{}),
		uc:     uc,
		userID: userID,
	}

	stream := uc.ObserveConversations.Invoke(vm.ctx, userID)
	follow(vm.Holder, stream, func(s DirectMessagesState, r resource.Resource[[]models.DirectMessageConversation]) DirectMessagesState {
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			s.Conversations = r.Data
		}
		return s
	})

	return vm
}

func (vm *DirectMessages) Search(query string) <-chan struct{} {
	stream := vm.uc.SearchUsers.Invoke(vm.ctx, query)
	return follow(vm.Holder, stream, func(s DirectMessagesState, r resource.Resource[[]models.User]) DirectMessagesState {
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			s.SearchResults = r.Data
		}
		return s
	})
}

// Open starts or resumes the conversation with otherID and navigates to it.
func (vm *DirectMessages) Open(otherID int64) <-chan struct{} {
	stream := vm.uc.GetOrCreateConversation.Invoke(vm.ctx, vm.userID, otherID)
	return follow(vm.Holder, stream, func(s DirectMessagesState, r resource.Resource[models.DirectMessageConversation]) DirectMessagesState {
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			vm.navigate(Destination{Route: RouteChat, ConversationID: r.Data.ID})
		}
		return s
	})
}

package viewmodel

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/usecase"
	"context"
	"sync"

	"go.uber.org/zap"
)

// pageSize is how many more messages LoadOlder asks for.
const pageSize = 50

type ChatState struct {
	Progress
	Target   models.MessageTarget `json:"target"`
	Messages []models.Message     `json:"messages"`
	Limit    int                  `json:"limit"`
	HasOlder bool                 `json:"hasOlder"` // the window is full and can still grow
	Sending  bool                 `json:"sending"`
}

// Chat shows the messages of a server channel or a conversation.
type Chat struct {
	*Holder[ChatState]
	uc     *usecase.Set
	userID int64

	mutex          sync.Mutex
	cancelMessages context.CancelFunc
}

func NewChat(ctx context.Context, sugar *zap.SugaredLogger, uc *usecase.Set, userID int64, target models.MessageTarget) *Chat {
	vm := &Chat{
		Holder: newHolder(ctx, sugar, ChatState{Target: target, Limit: pageSize}),
		uc:     uc,
		userID: userID,
	}
	vm.observe(pageSize)
	return vm
}

func (vm *Chat) observe(limit int) {
	ctx, cancel := vm.child()

	vm.mutex.Lock()
	if vm.cancelMessages != nil {
		vm.cancelMessages()
	}
	vm.cancelMessages = cancel
	vm.mutex.Unlock()

	target := vm.State().Target
	stream := vm.uc.ObserveMessages.Invoke(ctx, target, vm.userID, limit)
	follow(vm.Holder, stream, func(s ChatState, r resource.Resource[[]models.Message]) ChatState {
		if s.Limit != limit {
			return s
		}
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			s.Messages = r.Data
			s.HasOlder = len(r.Data) >= limit && limit < models.MaxMessageWindow
		}
		return s
	})
}

func nextLimit(limit int) int {
	return min(limit+pageSize, models.MaxMessageWindow)
}

// LoadOlder grows the window by one page. It does nothing while HasOlder is unset.
func (vm *Chat) LoadOlder() {
	grown := false
	var limit int
	vm.update(func(s ChatState) ChatState {
		if !s.HasOlder {
			return s
		}
		s.Limit = nextLimit(s.Limit)
		s.HasOlder = false
		limit = s.Limit
		grown = true
		return s
	})
	if grown {
		vm.observe(limit)
	}
}

func (vm *Chat) Send(text string) <-chan struct{} {
	stream := vm.uc.SendMessage.Invoke(vm.ctx, vm.State().Target, vm.userID, text)
	return follow(vm.Holder, stream, func(s ChatState, r resource.Resource[models.Message]) ChatState {
		s.Progress = progressOf(r)
		s.Sending = r.IsLoading()
		return s
	})
}

func (vm *Chat) Edit(messageID int64, text string) <-chan struct{} {
	stream := vm.uc.EditMessage.Invoke(vm.ctx, vm.userID, messageID, text)
	return follow(vm.Holder, stream, func(s ChatState, r resource.Resource[models.Message]) ChatState {
		s.Progress = progressOf(r)
		return s
	})
}

func (vm *Chat) Delete(messageID int64) <-chan struct{} {
	stream := vm.uc.DeleteMessage.Invoke(vm.ctx, vm.userID, messageID)
	return follow(vm.Holder, stream, func(s ChatState, r resource.Resource[struct{}]) ChatState {
		s.Progress = progressOf(r)
		return s
	})
}

// React toggles reaction index on messageID.
func (vm *Chat) React(messageID int64, index int) <-chan struct{} {
	stream := vm.uc.AddReaction.Invoke(vm.ctx, vm.userID, messageID, index)
	return follow(vm.Holder, stream, func(s ChatState, r resource.Resource[bool]) ChatState {
		s.Progress = progressOf(r)
		return s
	})
}

func (vm *Chat) OpenProfile(userID int64) {
	vm.navigate(Destination{Route: RouteProfile, UserID: userID})
}

package viewmodel

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/usecase"
	"context"
	"io"
	"sync"

	"go.uber.org/zap"
)

type HomeState struct {
	Progress
	Servers          []models.Server  `json:"servers"`
	SelectedServerID int64            `json:"selectedServerID,string"`
	Channels         []models.Channel `json:"channels"`
}

// Home lists the servers of a user and the channels of the selected one.
type Home struct {
	*Holder[HomeState]
	uc     *usecase.Set
	userID int64

	mutex          sync.Mutex
	cancelChannels context.CancelFunc
}

func NewHome(ctx context.Context, sugar *zap.SugaredLogger, uc *usecase.Set, userID int64) *Home {
	vm := &Home{
		Holder: newHolder(ctx, sugar, HomeState{}),
		uc:     uc,
		userID: userID,
	}

	stream := uc.ObserveServers.Invoke(vm.ctx, userID)
	follow(vm.Holder, stream, func(s HomeState, r resource.Resource[[]models.Server]) HomeState {
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			s.Servers = r.Data
			if s.SelectedServerID != 0 && !containsServer(r.Data, s.SelectedServerID) {
				// left or deleted elsewhere
				s.SelectedServerID = 0
				s.Channels = nil
			}
		}
		return s
	})

	return vm
}

func containsServer(servers []models.Server, serverID int64) bool {
	for _, server := range servers {
		if server.ID == serverID {
			return true
		}
	}
	return false
}

// SelectServer replaces the channel subscription with one for serverID.
func (vm *Home) SelectServer(serverID int64) {
	ctx, cancel := vm.child()

	vm.mutex.Lock()
	if vm.cancelChannels != nil {
		vm.cancelChannels()
	}
	vm.cancelChannels = cancel
	vm.mutex.Unlock()

	vm.update(func(s HomeState) HomeState {
		s.SelectedServerID = serverID
		s.Channels = nil
		return s
	})

	stream := vm.uc.ObserveChannels.Invoke(ctx, serverID)
	follow(vm.Holder, stream, func(s HomeState, r resource.Resource[[]models.Channel]) HomeState {
		if s.SelectedServerID != serverID {
			// a newer selection owns the snapshot
			return s
		}
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			s.Channels = r.Data
		}
		return s
	})
}

func (vm *Home) CreateServer(name string, picture io.Reader) <-chan struct{} {
	stream := vm.uc.CreateServer.Invoke(vm.ctx, vm.userID, name, picture)
	return vm.thenSelect(stream)
}

func (vm *Home) JoinServer(serverID int64) <-chan struct{} {
	stream := vm.uc.JoinServer.Invoke(vm.ctx, serverID, vm.userID)
	return vm.thenSelect(stream)
}

// thenSelect selects the server stream ends with.
func (vm *Home) thenSelect(stream resource.Stream[models.Server]) <-chan struct{} {
	done := make(chan struct{})
	var selected models.Server

	folded := follow(vm.Holder, stream, func(s HomeState, r resource.Resource[models.Server]) HomeState {
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			selected = r.Data
		}
		return s
	})

	go func() {
		defer close(done)
		<-folded
		if selected.ID != 0 {
			vm.SelectServer(selected.ID)
		}
	}()

	return done
}

func (vm *Home) LeaveServer(serverID int64) <-chan struct{} {
	stream := vm.uc.LeaveServer.Invoke(vm.ctx, serverID, vm.userID)
	return follow(vm.Holder, stream, vm.progressOnly)
}

func (vm *Home) RenameServer(serverID int64, name string) <-chan struct{} {
	stream := vm.uc.RenameServer.Invoke(vm.ctx, vm.userID, serverID, name)
	return follow(vm.Holder, stream, func(s HomeState, r resource.Resource[models.Server]) HomeState {
		s.Progress = progressOf(r)
		return s
	})
}

func (vm *Home) DeleteServer(serverID int64) <-chan struct{} {
	stream := vm.uc.DeleteServer.Invoke(vm.ctx, vm.userID, serverID)
	return follow(vm.Holder, stream, vm.progressOnly)
}

// CreateChannel adds a channel to the selected server.
func (vm *Home) CreateChannel(name string, channelType string) <-chan struct{} {
	stream := vm.uc.CreateChannel.Invoke(vm.ctx, vm.userID, vm.State().SelectedServerID, name, channelType)
	return follow(vm.Holder, stream, func(s HomeState, r resource.Resource[models.Channel]) HomeState {
		s.Progress = progressOf(r)
		return s
	})
}

func (vm *Home) DeleteChannel(channelID int64) <-chan struct{} {
	stream := vm.uc.DeleteChannel.Invoke(vm.ctx, vm.userID, channelID)
	return follow(vm.Holder, stream, vm.progressOnly)
}

// OpenChannel navigates to the chat or voice screen of a channel of the selected server.
func (vm *Home) OpenChannel(channelID int64) {
	s := vm.State()
	for _, channel := range s.Channels {
		if channel.ID != channelID {
			continue
		}

		route := RouteChat
		if channel.Type == models.ChannelTypeVoice {
			route = RouteVoice
		}
		vm.navigate(Destination{Route: route, ServerID: channel.ServerID, ChannelID: channel.ID})
		return
	}
	vm.sugar.Debugf("Channel ID [%d] isn't in the selected server", channelID)
}

func (vm *Home) OpenDirectMessages() {
	vm.navigate(Destination{Route: RouteDirectMessages})
}

func (vm *Home) OpenMembers() {
	serverID := vm.State().SelectedServerID
	if serverID == 0 {
		return
	}
	vm.navigate(Destination{Route: RouteMembers, ServerID: serverID})
}

func (vm *Home) progressOnly(s HomeState, r resource.Resource[struct{}]) HomeState {
	s.Progress = progressOf(r)
	return s
}

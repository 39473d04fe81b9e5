package viewmodel

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/usecase"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type VoiceState struct {
	Progress
	ChannelID    int64                    `json:"channelID,string"`
	Participants []models.ParticipantInfo `json:"participants"`
	Joined       bool                     `json:"joined"`
	Muted        bool                     `json:"muted"`
	Deafened     bool                     `json:"deafened"`
}

// Voice shows who is connected to a voice channel and connects the user.
type Voice struct {
	*Holder[VoiceState]
	uc   *usecase.Set
	user models.User

	mutex sync.Mutex
	joins []<-chan struct{}
}

func NewVoice(ctx context.Context, sugar *zap.SugaredLogger, uc *usecase.Set, user models.User, channelID int64) *Voice {
	vm := &Voice{
		Holder: newHolder(ctx, sugar, VoiceState{ChannelID: channelID}),
		uc:     uc,
		user:   user,
	}

	stream := uc.ObserveVoiceParticipants.Invoke(vm.ctx, channelID)
	follow(vm.Holder, stream, func(s VoiceState, r resource.Resource[[]models.ParticipantInfo]) VoiceState {
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			s.Participants = r.Data
			s.Joined = false
			for _, participant := range r.Data {
				if participant.UserID == user.ID {
					s.Joined = true
					s.Muted = participant.Muted
					s.Deafened = participant.Deafened
				}
			}
		}
		return s
	})

	return vm
}

func (vm *Voice) foldParticipant(s VoiceState, r resource.Resource[models.ParticipantInfo]) VoiceState {
	s.Progress = progressOf(r)
	if r.IsSuccess() {
		s.Joined = true
		s.Muted = r.Data.Muted
		s.Deafened = r.Data.Deafened
	}
	return s
}

func (vm *Voice) Join() <-chan struct{} {
	stream := vm.uc.JoinVoiceChannel.Invoke(vm.ctx, vm.State().ChannelID, vm.user)
	done := follow(vm.Holder, stream, vm.foldParticipant)

	vm.mutex.Lock()
	vm.joins = append(vm.joins, done)
	vm.mutex.Unlock()

	return done
}

func (vm *Voice) SetMuted(muted bool, deafened bool) <-chan struct{} {
	stream := vm.uc.SetVoiceMuted.Invoke(vm.ctx, vm.State().ChannelID, vm.user.ID, muted, deafened)
	return follow(vm.Holder, stream, vm.foldParticipant)
}

// Leave disconnects and sends the UI back home.
func (vm *Voice) Leave() <-chan struct{} {
	stream := vm.uc.LeaveVoiceChannel.Invoke(vm.ctx, vm.State().ChannelID, vm.user.ID)
	return follow(vm.Holder, stream, func(s VoiceState, r resource.Resource[struct{}]) VoiceState {
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			s.Joined = false
			vm.navigate(Destination{Route: RouteHome})
		}
		return s
	})
}

// Close disconnects the user if the screen ever joined, then ends the screen.
// A join still running is waited for first: its write lands even when the
// screen's scope already ended, and the snapshot never hears about it.
func (vm *Voice) Close() {
	vm.mutex.Lock()
	joins := vm.joins
	vm.joins = nil
	vm.mutex.Unlock()

	// the screen scope is about to end, so leave outside of it
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, done := range joins {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}

	s := vm.State()
	if s.Joined || len(joins) > 0 {
		_, err := resource.Await(ctx, vm.uc.LeaveVoiceChannel.Invoke(ctx, s.ChannelID, vm.user.ID))
		if err != nil {
			// not connected is fine, the join may have failed
			vm.sugar.Debug(err)
		}
	}
	vm.Holder.Close()
}

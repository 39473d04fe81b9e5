package viewmodel

import (
	"chatapp-client/internal/models"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfileEditsOnlyOwn(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")

	own := NewProfile(e.ctx, e.sugar, e.uc, alice.ID, alice.ID)
	defer own.Close()

	<-own.UpdateProfile("Alice", "gopher")
	s := waitState(t, own.Holder, func(s ProfileState) bool { return s.User.DisplayName == "Alice" })
	require.True(t, s.IsSelf)
	require.Equal(t, "gopher", s.User.Bio)

	other := NewProfile(e.ctx, e.sugar, e.uc, bob.ID, alice.ID)
	defer other.Close()

	<-other.UpdateStatus(models.StatusIdle)
	require.Equal(t, "not_own_profile", other.State().Error)

	<-other.SendMessage()
	require.Equal(t, RouteChat, nextDestination(t, other.Navigation()).Route)
}

func TestSettingsLoadAndUpdate(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")

	vm := NewSettings(e.ctx, e.sugar, e.uc, alice.ID)
	defer vm.Close()

	s := waitState(t, vm.Holder, func(s SettingsState) bool { return s.Settings.UserID == alice.ID })
	require.Equal(t, "system", s.Settings.Theme)

	updated := s.Settings
	updated.Theme = "dark"
	<-vm.Update(updated)
	require.Equal(t, "dark", vm.State().Settings.Theme)

	updated.Theme = "neon"
	<-vm.Update(updated)
	require.Equal(t, "theme_oneof", vm.State().Error)
	require.Equal(t, "dark", vm.State().Settings.Theme)
}

func TestVoiceJoinMuteAndCloseLeaves(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")

	home := NewHome(e.ctx, e.sugar, e.uc, alice.ID)
	defer home.Close()
	<-home.CreateServer("Gophers", nil)
	hs := waitState(t, home.Holder, func(s HomeState) bool { return len(s.Channels) == 2 })
	voiceChannel := hs.Channels[1]

	vm := NewVoice(e.ctx, e.sugar, e.uc, alice, voiceChannel.ID)

	<-vm.Join()
	waitState(t, vm.Holder, func(s VoiceState) bool { return s.Joined && len(s.Participants) == 1 })

	<-vm.SetMuted(false, true)
	s := vm.State()
	require.True(t, s.Muted)
	require.True(t, s.Deafened)

	vm.Close()

	watcher := NewVoice(e.ctx, e.sugar, e.uc, alice, voiceChannel.ID)
	defer watcher.Close()
	s = waitState(t, watcher.Holder, func(s VoiceState) bool { return !s.IsLoading && s.Participants != nil })
	require.Empty(t, s.Participants)
	require.False(t, s.Joined)
}

func TestVoiceCloseDuringJoinLeaves(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")

	home := NewHome(e.ctx, e.sugar, e.uc, alice.ID)
	defer home.Close()
	<-home.CreateServer("Gophers", nil)
	hs := waitState(t, home.Holder, func(s HomeState) bool { return len(s.Channels) == 2 })
	voiceChannel := hs.Channels[1]

	for i := 0; i < 5; i++ {
		vm := NewVoice(e.ctx, e.sugar, e.uc, alice, voiceChannel.ID)
		vm.Join()
		vm.Close()
	}

	watcher := NewVoice(e.ctx, e.sugar, e.uc, alice, voiceChannel.ID)
	defer watcher.Close()
	s := waitState(t, watcher.Holder, func(s VoiceState) bool { return !s.IsLoading && s.Participants != nil })
	require.Empty(t, s.Participants)
	require.False(t, s.Joined)
}

func TestMembersListsAndRefreshes(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")

	home := NewHome(e.ctx, e.sugar, e.uc, alice.ID)
	defer home.Close()
	<-home.CreateServer("Gophers", nil)
	serverID := home.State().SelectedServerID

	vm := NewMembers(e.ctx, e.sugar, e.uc, serverID)
	defer vm.Close()

	waitState(t, vm.Holder, func(s MembersState) bool { return len(s.Members) == 1 })

	<-vm.Refresh()
	require.Len(t, vm.State().Members, 1)

	vm.OpenProfile(alice.ID)
	d := nextDestination(t, vm.Navigation())
	require.Equal(t, RouteProfile, d.Route)
	require.Equal(t, alice.ID, d.UserID)
}

func TestCloseCancelsSubscriptions(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")

	vm := NewHome(context.Background(), e.sugar, e.uc, alice.ID)
	states := vm.Observe(context.Background())
	<-states

	vm.Close()
	for range states {
	}

	// intents after close end without a terminal state
	<-vm.CreateServer("Late", nil)
	require.Empty(t, vm.State().Servers)
}

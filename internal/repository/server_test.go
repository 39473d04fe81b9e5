package repository

import (
	"chatapp-client/internal/models"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateServer(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	servers := NewServerRepository(b)
	channels := NewChannelRepository(b)
	alice := register(t, b, "alice")

	server := mustSucceed(t, servers.CreateServer(ctx, alice.ID, "Gophers", nil))
	require.NotZero(t, server.ID)
	require.Equal(t, alice.ID, server.OwnerID)
	require.Equal(t, "Gophers", server.Name)

	got := mustSucceed(t, servers.GetServer(ctx, server.ID))
	require.Equal(t, server, got)

	members := mustSucceed(t, servers.GetMembers(ctx, server.ID))
	require.Len(t, members, 1)
	require.Equal(t, alice.ID, members[0].ID)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	list := waitFor(t, channels.ObserveChannels(ctx, server.ID), func(c []models.Channel) bool { return len(c) == 2 })
	require.Equal(t, "general", list[0].Name)
	require.Equal(t, models.ChannelTypeText, list[0].Type)
	require.Equal(t, models.ChannelTypeVoice, list[1].Type)

	mustFail(t, servers.CreateServer(ctx, alice.ID+1, "Orphan", nil), ErrNotFound)
	mustFail(t, servers.GetServer(ctx, server.ID+1), ErrNotFound)
}

func TestJoinAndLeaveServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := newBackend(t)
	servers := NewServerRepository(b)
	alice := register(t, b, "alice")
	bob := register(t, b, "bob")

	server := mustSucceed(t, servers.CreateServer(ctx, alice.ID, "Gophers", nil))

	bobServers := servers.ObserveUserServers(ctx, bob.ID)
	waitFor(t, bobServers, func(s []models.Server) bool { return len(s) == 0 })

	mustSucceed(t, servers.JoinServer(ctx, server.ID, bob.ID))
	waitFor(t, bobServers, func(s []models.Server) bool { return len(s) == 1 && s[0].ID == server.ID })

	mustFail(t, servers.JoinServer(ctx, server.ID, bob.ID), ErrAlreadyExists)
	mustFail(t, servers.JoinServer(ctx, server.ID+1, bob.ID), ErrNotFound)

	members := mustSucceed(t, servers.GetMembers(ctx, server.ID))
	require.Len(t, members, 2)

	mustFail(t, servers.LeaveServer(ctx, server.ID, alice.ID), ErrOwnerCantLeave)

	mustSucceed(t, servers.LeaveServer(ctx, server.ID, bob.ID))
	waitFor(t, bobServers, func(s []models.Server) bool { return len(s) == 0 })

	mustFail(t, servers.LeaveServer(ctx, server.ID, bob.ID), ErrNotFound)
}

func TestRenameAndDeleteServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := newBackend(t)
	servers := NewServerRepository(b)
	alice := register(t, b, "alice")
	bob := register(t, b, "bob")

	server := mustSucceed(t, servers.CreateServer(ctx, alice.ID, "Gophers", nil))
	mustSucceed(t, servers.JoinServer(ctx, server.ID, bob.ID))

	bobServers := servers.ObserveUserServers(ctx, bob.ID)
	waitFor(t, bobServers, func(s []models.Server) bool { return len(s) == 1 })

	mustFail(t, servers.RenameServer(ctx, bob.ID, server.ID, "Mine"), ErrForbidden)

	renamed := mustSucceed(t, servers.RenameServer(ctx, alice.ID, server.ID, "Go Team"))
	require.Equal(t, "Go Team", renamed.Name)
	waitFor(t, bobServers, func(s []models.Server) bool { return len(s) == 1 && s[0].Name == "Go Team" })

	mustFail(t, servers.DeleteServer(ctx, bob.ID, server.ID), ErrForbidden)
	mustSucceed(t, servers.DeleteServer(ctx, alice.ID, server.ID))
	waitFor(t, bobServers, func(s []models.Server) bool { return len(s) == 0 })

	mustFail(t, servers.GetMembers(ctx, server.ID), ErrNotFound)
}

func TestObserveMembers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := newBackend(t)
	servers := NewServerRepository(b)
	alice := register(t, b, "alice")
	bob := register(t, b, "bob")
	server := mustSucceed(t, servers.CreateServer(ctx, alice.ID, "Gophers", nil))

	members := servers.ObserveMembers(ctx, server.ID)
	waitFor(t, members, func(u []models.User) bool { return len(u) == 1 })

	mustSucceed(t, servers.JoinServer(ctx, server.ID, bob.ID))
	list := waitFor(t, members, func(u []models.User) bool { return len(u) == 2 })
	require.Equal(t, bob.ID, list[1].ID)
}

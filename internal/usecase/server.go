package usecase

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"context"
	"io"
)

type ServerRepository interface {
	CreateServer(ctx context.Context, ownerID int64, name string, picture io.Reader) resource.Stream[models.Server]
	ObserveUserServers(ctx context.Context, userID int64) resource.Stream[[]models.Server]
	GetServer(ctx context.Context, serverID int64) resource.Stream[models.Server]
	JoinServer(ctx context.Context, serverID int64, userID int64) resource.Stream[models.Server]
	LeaveServer(ctx context.Context, serverID int64, userID int64) resource.Stream[struct{}]
	RenameServer(ctx context.Context, ownerID int64, serverID int64, name string) resource.Stream[models.Server]
	DeleteServer(ctx context.Context, ownerID int64, serverID int64) resource.Stream[struct{}]
	GetMembers(ctx context.Context, serverID int64) resource.Stream[[]models.User]
	ObserveMembers(ctx context.Context, serverID int64) resource.Stream[[]models.User]
}

type CreateServer struct {
	repo ServerRepository
}

// Invoke creates a server; picture may be nil.
func (u *CreateServer) Invoke(ctx context.Context, ownerID int64, serverName string, picture io.Reader) resource.Stream[models.Server] {
	if ownerID == 0 {
		return resource.Fail[models.Server](MsgBlankUserID)
	}
	serverName, msg := name(serverName, maxServerNameLength)
	if msg != "" {
		return resource.Fail[models.Server](msg)
	}
	return u.repo.CreateServer(ctx, ownerID, serverName, picture)
}

type ObserveServers struct {
	repo ServerRepository
}

func (u *ObserveServers) Invoke(ctx context.Context, userID int64) resource.Stream[[]models.Server] {
	if userID == 0 {
		return resource.Fail[[]models.Server](MsgBlankUserID)
	}
	return u.repo.ObserveUserServers(ctx, userID)
}

type JoinServer struct {
	repo ServerRepository
}

func (u *JoinServer) Invoke(ctx context.Context, serverID int64, userID int64) resource.Stream[models.Server] {
	if serverID == 0 {
		return resource.Fail[models.Server](MsgBlankServerID)
	}
	if userID == 0 {
		return resource.Fail[models.Server](MsgBlankUserID)
	}
	return u.repo.JoinServer(ctx, serverID, userID)
}

type LeaveServer struct {
	repo ServerRepository
}

func (u *LeaveServer) Invoke(ctx context.Context, serverID int64, userID int64) resource.Stream[struct{}] {
	if serverID == 0 {
		return resource.Fail[struct{}](MsgBlankServerID)
	}
	if userID == 0 {
		return resource.Fail[struct{}](MsgBlankUserID)
	}
	return u.repo.LeaveServer(ctx, serverID, userID)
}

type RenameServer struct {
	repo ServerRepository
}

func (u *RenameServer) Invoke(ctx context.Context, ownerID int64, serverID int64, serverName string) resource.Stream[models.Server] {
	if ownerID == 0 {
		return resource.Fail[models.Server](MsgBlankUserID)
	}
	if serverID == 0 {
		return resource.Fail[models.Server](MsgBlankServerID)
	}
	serverName, msg := name(serverName, maxServerNameLength)
	if msg != "" {
		return resource.Fail[models.Server](msg)
	}
	return u.repo.RenameServer(ctx, ownerID, serverID, serverName)
}

type DeleteServer struct {
	repo ServerRepository
}

func (u *DeleteServer) Invoke(ctx context.Context, ownerID int64, serverID int64) resource.Stream[struct{}] {
	if ownerID == 0 {
		return resource.Fail[struct{}](MsgBlankUserID)
	}
	if serverID == 0 {
		return resource.Fail[struct{}](MsgBlankServerID)
	}
	return u.repo.DeleteServer(ctx, ownerID, serverID)
}

type GetServerMembers struct {
	repo ServerRepository
}

func (u *GetServerMembers) Invoke(ctx context.Context, serverID int64) resource.Stream[[]models.User] {
	if serverID == 0 {
		return resource.Fail[[]models.User](MsgBlankServerID)
	}
	return u.repo.GetMembers(ctx, serverID)
}

type ObserveServerMembers struct {
	repo ServerRepository
}

func (u *ObserveServerMembers) Invoke(ctx context.Context, serverID int64) resource.Stream[[]models.User] {
	if serverID == 0 {
		return resource.Fail[[]models.User](MsgBlankServerID)
	}
	return u.repo.ObserveMembers(ctx, serverID)
}

package usecase

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"context"
)

type ChannelRepository interface {
	CreateChannel(ctx context.Context, ownerID int64, serverID int64, name string, channelType string) resource.Stream[models.Channel]
	ObserveChannels(ctx context.Context, serverID int64) resource.Stream[[]models.Channel]
	DeleteChannel(ctx context.Context, ownerID int64, channelID int64) resource.Stream[struct{}]
}

type CreateChannel struct {
	repo ChannelRepository
}

func (u *CreateChannel) Invoke(ctx context.Context, ownerID int64, serverID int64, channelName string, channelType string) resource.Stream[models.Channel] {
	switch {
	case ownerID == 0:
		return resource.Fail[models.Channel](MsgBlankUserID)
	case serverID == 0:
		return resource.Fail[models.Channel](MsgBlankServerID)
	case channelType != models.ChannelTypeText && channelType != models.ChannelTypeVoice:
		return resource.Fail[models.Channel](MsgBadChannelType)
	}

	channelName, msg := name(channelName, maxChannelNameLength)
	if msg != "" {
		return resource.Fail[models.Channel](msg)
	}

	return u.repo.CreateChannel(ctx, ownerID, serverID, channelName, channelType)
}

type ObserveChannels struct {
	repo ChannelRepository
}

func (u *ObserveChannels) Invoke(ctx context.Context, serverID int64) resource.Stream[[]models.Channel] {
	if serverID == 0 {
		return resource.Fail[[]models.Channel](MsgBlankServerID)
	}
	return u.repo.ObserveChannels(ctx, serverID)
}

type DeleteChannel struct {
	repo ChannelRepository
}

func (u *DeleteChannel) Invoke(ctx context.Context, ownerID int64, channelID int64) resource.Stream[struct{}] {
	if ownerID == 0 {
		return resource.Fail[struct{}](MsgBlankUserID)
	}
	if channelID == 0 {
		return resource.Fail[struct{}](MsgBlankChannelID)
	}
	return u.repo.DeleteChannel(ctx, ownerID, channelID)
}

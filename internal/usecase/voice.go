package usecase

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"context"
)

type VoiceRepository interface {
	Join(ctx context.Context, channelID int64, user models.User) resource.Stream[models.ParticipantInfo]
	Leave(ctx context.Context, channelID int64, userID int64) resource.Stream[struct{}]
	SetMuted(ctx context.Context, channelID int64, userID int64, muted bool, deafened bool) resource.Stream[models.ParticipantInfo]
	ObserveParticipants(ctx context.Context, channelID int64) resource.Stream[[]models.ParticipantInfo]
}

type JoinVoiceChannel struct {
	repo VoiceRepository
}

func (u *JoinVoiceChannel) Invoke(ctx context.Context, channelID int64, user models.User) resource.Stream[models.ParticipantInfo] {
	if channelID == 0 {
		return resource.Fail[models.ParticipantInfo](MsgBlankChannelID)
	}
	if user.ID == 0 {
		return resource.Fail[models.ParticipantInfo](MsgBlankUserID)
	}
	return u.repo.Join(ctx, channelID, user)
}

type LeaveVoiceChannel struct {
	repo VoiceRepository
}

func (u *LeaveVoiceChannel) Invoke(ctx context.Context, channelID int64, userID int64) resource.Stream[struct{}] {
	if channelID == 0 {
		return resource.Fail[struct{}](MsgBlankChannelID)
	}
	if userID == 0 {
		return resource.Fail[struct{}](MsgBlankUserID)
	}
	return u.repo.Leave(ctx, channelID, userID)
}

type SetVoiceMuted struct {
	repo VoiceRepository
}

func (u *SetVoiceMuted) Invoke(ctx context.Context, channelID int64, userID int64, muted bool, deafened bool) resource.Stream[models.ParticipantInfo] {
	if channelID == 0 {
		return resource.Fail[models.ParticipantInfo](MsgBlankChannelID)
	}
	if userID == 0 {
		return resource.Fail[models.ParticipantInfo](MsgBlankUserID)
	}
	return u.repo.SetMuted(ctx, channelID, userID, muted, deafened)
}

type ObserveVoiceParticipants struct {
	repo VoiceRepository
}

func (u *ObserveVoiceParticipants) Invoke(ctx context.Context, channelID int64) resource.Stream[[]models.ParticipantInfo] {
	if channelID == 0 {
		return resource.Fail[[]models.ParticipantInfo](MsgBlankChannelID)
	}
	return u.repo.ObserveParticipants(ctx, channelID)
}

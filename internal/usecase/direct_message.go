package usecase

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"context"
)

type DirectMessageRepository interface {
	GetOrCreateConversation(ctx context.Context, userID int64, otherID int64) resource.Stream[models.DirectMessageConversation]
	ObserveConversations(ctx context.Context, userID int64) resource.Stream[[]models.DirectMessageConversation]
}

type GetOrCreateConversation struct {
	repo DirectMessageRepository
}

func (u *GetOrCreateConversation) Invoke(ctx context.Context, userID int64, otherID int64) resource.Stream[models.DirectMessageConversation] {
	switch {
	case userID == 0 || otherID == 0:
		return resource.Fail[models.DirectMessageConversation](MsgBlankUserID)
	case userID == otherID:
		return resource.Fail[models.DirectMessageConversation](MsgSelfConversation)
	}
	return u.repo.GetOrCreateConversation(ctx, userID, otherID)
}

type ObserveConversations struct {
	repo DirectMessageRepository
}

func (u *ObserveConversations) Invoke(ctx context.Context, userID int64) resource.Stream[[]models.DirectMessageConversation] {
	if userID == 0 {
		return resource.Fail[[]models.DirectMessageConversation](MsgBlankUserID)
	}
	return u.repo.ObserveConversations(ctx, userID)
}

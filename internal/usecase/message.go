package usecase

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"context"
	"strings"
	"unicode/utf8"
)

type MessageRepository interface {
	SendMessage(ctx context.Context, target models.MessageTarget, userID int64, text string) resource.Stream[models.Message]
	ObserveMessages(ctx context.Context, target models.MessageTarget, userID int64, limit int) resource.Stream[[]models.Message]
	EditMessage(ctx context.Context, userID int64, messageID int64, text string) resource.Stream[models.Message]
	DeleteMessage(ctx context.Context, userID int64, messageID int64) resource.Stream[struct{}]
	ToggleReaction(ctx context.Context, userID int64, messageID int64, index int) resource.Stream[bool]
}

// messageText trims text and returns the code for a blank or too long message, if any.
func messageText(text string) (string, string) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return text, MsgBlankMessage
	case utf8.RuneCountInString(text) > maxMessageLength:
		return text, MsgLongMessage
	default:
		return text, ""
	}
}

type SendMessage struct {
	repo MessageRepository
}

// Invoke sends text to either a server channel or a conversation.
func (u *SendMessage) Invoke(ctx context.Context, target models.MessageTarget, userID int64, text string) resource.Stream[models.Message] {
	if !validTarget(target) {
		return resource.Fail[models.Message](MsgBadTarget)
	}
	if userID == 0 {
		return resource.Fail[models.Message](MsgBlankUserID)
	}

	text, msg := messageText(text)
	if msg != "" {
		return resource.Fail[models.Message](msg)
	}

	return u.repo.SendMessage(ctx, target, userID, text)
}

type ObserveMessages struct {
	repo MessageRepository
}

// Invoke observes the latest limit messages of target; 0 picks the default.
func (u *ObserveMessages) Invoke(ctx context.Context, target models.MessageTarget, userID int64, limit int) resource.Stream[[]models.Message] {
	switch {
	case !validTarget(target):
		return resource.Fail[[]models.Message](MsgBadTarget)
	case userID == 0:
		return resource.Fail[[]models.Message](MsgBlankUserID)
	case limit < 0:
		return resource.Fail[[]models.Message](MsgBadMessageLimit)
	}
	return u.repo.ObserveMessages(ctx, target, userID, limit)
}

type EditMessage struct {
	repo MessageRepository
}

func (u *EditMessage) Invoke(ctx context.Context, userID int64, messageID int64, text string) resource.Stream[models.Message] {
	if userID == 0 {
		return resource.Fail[models.Message](MsgBlankUserID)
	}
	if messageID == 0 {
		return resource.Fail[models.Message](MsgBlankMessageID)
	}

	text, msg := messageText(text)
	if msg != "" {
		return resource.Fail[models.Message](msg)
	}

	return u.repo.EditMessage(ctx, userID, messageID, text)
}

type DeleteMessage struct {
	repo MessageRepository
}

func (u *DeleteMessage) Invoke(ctx context.Context, userID int64, messageID int64) resource.Stream[struct{}] {
	if userID == 0 {
		return resource.Fail[struct{}](MsgBlankUserID)
	}
	if messageID == 0 {
		return resource.Fail[struct{}](MsgBlankMessageID)
	}
	return u.repo.DeleteMessage(ctx, userID, messageID)
}

type AddReaction struct {
	repo MessageRepository
}

// Invoke toggles reaction index of userID on messageID and reports whether it is now present.
func (u *AddReaction) Invoke(ctx context.Context, userID int64, messageID int64, index int) resource.Stream[bool] {
	switch {
	case userID == 0:
		return resource.Fail[bool](MsgBlankUserID)
	case messageID == 0:
		return resource.Fail[bool](MsgBlankMessageID)
	case index < 0 || index >= models.ReactionCount:
		return resource.Fail[bool](MsgBadReaction)
	}
	return u.repo.ToggleReaction(ctx, userID, messageID, index)
}

package repository

import (
	"chatapp-client/internal/hub"
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/snowflake"
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

type DirectMessageRepository struct {
	*Backend
}

func NewDirectMessageRepository(b *Backend) *DirectMessageRepository {
	return &DirectMessageRepository{b}
}

var conversationColumns = append([]string{
	"direct_messages.id", "direct_messages.user_a", "direct_messages.user_b",
	"direct_messages.last_message", "direct_messages.last_message_at",
}, userColumns...)

// selectConversations joins the participant that isn't userID as the other user.
func (r *DirectMessageRepository) selectConversations(userID int64) sq.SelectBuilder {
	return r.DB.Builder.Select(conversationColumns...).
		From("direct_messages").
		Join("users ON users.id = CASE WHEN direct_messages.user_a = ? THEN direct_messages.user_b ELSE direct_messages.user_a END", userID)
}

func scanConversation(row sq.RowScanner) (models.DirectMessageConversation, error) {
	var c models.DirectMessageConversation
	var lastMessageAt int64
	u := &c.Other
	err := row.Scan(&c.ID, &c.Participants[0], &c.Participants[1], &c.LastMessage, &lastMessageAt,
		&u.ID, &u.Email, &u.UserName, &u.DisplayName, &u.Picture, &u.Status, &u.Bio)
	if err != nil {
		return models.DirectMessageConversation{}, err
	}

	if lastMessageAt != 0 {
		c.LastMessageAt = time.UnixMilli(lastMessageAt)
	}
	u.Email = ""
	u.CreatedAt = snowflake.Time(u.ID)
	return c, nil
}

// orderedPair stores a conversation once regardless of who started it.
func orderedPair(userID int64, otherID int64) (int64, int64) {
	if userID < otherID {
		return userID, otherID
	}
	return otherID, userID
}

func (r *DirectMessageRepository) find(ctx context.Context, userID int64, otherID int64) (models.DirectMessageConversation, error) {
	a, b := orderedPair(userID, otherID)
	row := r.selectConversations(userID).
		Where(sq.Eq{"direct_messages.user_a": a, "direct_messages.user_b": b}).
		RunWith(r.DB).QueryRowContext(ctx)
	return scanConversation(row)
}

// GetOrCreateConversation returns the conversation between userID and otherID, starting it if needed.
func (r *DirectMessageRepository) GetOrCreateConversation(ctx context.Context, userID int64, otherID int64) resource.Stream[models.DirectMessageConversation] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.DirectMessageConversation, error) {
		conversation, err := r.find(ctx, userID, otherID)
		if err == nil {
			return conversation, nil
		}
		if !errors.Is(classify(err), ErrNotFound) {
			return models.DirectMessageConversation{}, err
		}

		if _, err := getUser(ctx, r.Backend, otherID); err != nil {
			return models.DirectMessageConversation{}, err
		}

		conversationID, err := snowflake.Generate()
		if err != nil {
			return models.DirectMessageConversation{}, err
		}

		a, b := orderedPair(userID, otherID)
		_, err = r.DB.Builder.Insert("direct_messages").
			Columns("id", "user_a", "user_b", "last_message", "last_message_at").
			Values(conversationID, a, b, "", 0).
			RunWith(r.DB).ExecContext(ctx)
		if err != nil && !isUniqueViolation(err) {
			return models.DirectMessageConversation{}, err
		}
		// on a unique violation the other side created it first

		conversation, err = r.find(ctx, userID, otherID)
		if err != nil {
			return models.DirectMessageConversation{}, err
		}

		r.Sugar.Debugf("Started conversation ID [%d] between user IDs [%d] and [%d]", conversation.ID, a, b)
		r.emit(ctx, hub.ConversationModified, map[string]string{"conversationID": fmt.Sprint(conversation.ID)}, userTopic(a), userTopic(b))

		return conversation, nil
	})
}

func (r *DirectMessageRepository) conversations(ctx context.Context, userID int64) ([]models.DirectMessageConversation, error) {
	rows, err := r.selectConversations(userID).
		Where(sq.Or{sq.Eq{"direct_messages.user_a": userID}, sq.Eq{"direct_messages.user_b": userID}}).
		OrderBy("direct_messages.last_message_at DESC", "direct_messages.id DESC").
		RunWith(r.DB).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := []models.DirectMessageConversation{}
	for rows.Next() {
		conversation, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conversation)
	}

	return conversations, rows.Err()
}

// ObserveConversations lists the conversations of userID, most recently active first.
func (r *DirectMessageRepository) ObserveConversations(ctx context.Context, userID int64) resource.Stream[[]models.DirectMessageConversation] {
	return watch(ctx, r.Backend, []string{userTopic(userID)}, func(ctx context.Context) ([]models.DirectMessageConversation, error) {
		return r.conversations(ctx, userID)
	})
}

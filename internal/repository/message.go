package repository

import (
	"chatapp-client/internal/hub"
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/snowflake"
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const defaultMessageLimit = 50

type MessageRepository struct {
	*Backend
}

func NewMessageRepository(b *Backend) *MessageRepository {
	return &MessageRepository{b}
}

var messageColumns = append([]string{
	"messages.id", "messages.channel_id", "channels.server_id", "messages.conversation_id",
	"messages.user_id", "messages.message", "messages.attachments", "messages.edited",
}, userColumns...)

func (r *MessageRepository) selectMessages() sq.SelectBuilder {
	return r.DB.Builder.Select(messageColumns...).
		From("messages").
		Join("users ON users.id = messages.user_id").
		LeftJoin("channels ON channels.id = messages.channel_id")
}

func scanMessage(row sq.RowScanner) (models.Message, error) {
	var m models.Message
	var channelID, serverID, conversationID sql.NullInt64
	u := &m.User
	err := row.Scan(&m.ID, &channelID, &serverID, &conversationID, &m.UserID, &m.Message, &m.Attachments, &m.Edited,
		&u.ID, &u.Email, &u.UserName, &u.DisplayName, &u.Picture, &u.Status, &u.Bio)
	if err != nil {
		return models.Message{}, err
	}

	m.ChannelID = channelID.Int64
	m.ServerID = serverID.Int64
	m.ConversationID = conversationID.Int64
	m.CreatedAt = snowflake.Time(m.ID)
	u.Email = ""
	u.CreatedAt = snowflake.Time(u.ID)
	return m, nil
}

func (r *MessageRepository) getMessage(ctx context.Context, messageID int64) (models.Message, error) {
	row := r.selectMessages().
		Where(sq.Eq{"messages.id": messageID}).
		RunWith(r.DB).QueryRowContext(ctx)
	return scanMessage(row)
}

func messageTarget(message models.Message) models.MessageTarget {
	return models.MessageTarget{
		ServerID:       message.ServerID,
		ChannelID:      message.ChannelID,
		ConversationID: message.ConversationID,
	}
}

// conversationParticipants returns the two users of a conversation.
func conversationParticipants(ctx context.Context, b *Backend, conversationID int64) ([2]int64, error) {
	var participants [2]int64
	err := b.DB.Builder.Select("user_a", "user_b").
		From("direct_messages").
		Where(sq.Eq{"id": conversationID}).
		RunWith(b.DB).QueryRowContext(ctx).Scan(&participants[0], &participants[1])
	return participants, err
}

// checkAccess fails unless userID may read and write target.
func (r *MessageRepository) checkAccess(ctx context.Context, target models.MessageTarget, userID int64) error {
	if target.IsConversation() {
		participants, err := conversationParticipants(ctx, r.Backend, target.ConversationID)
		if err != nil {
			return err
		}
		if !slices.Contains(participants[:], userID) {
			return ErrForbidden
		}
		return nil
	}

	channel, err := getChannel(ctx, r.Backend, target.ChannelID)
	if err != nil {
		return err
	}
	if channel.ServerID != target.ServerID {
		return ErrNotFound
	}

	member, err := isMember(ctx, r.DB, r.Backend, channel.ServerID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrForbidden
	}
	return nil
}

func (r *MessageRepository) SendMessage(ctx context.Context, target models.MessageTarget, userID int64, text string) resource.Stream[models.Message] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.Message, error) {
		err := r.checkAccess(ctx, target, userID)
		if err != nil {
			return models.Message{}, err
		}

		messageID, err := snowflake.Generate()
		if err != nil {
			return models.Message{}, err
		}

		err = r.inTx(ctx, func(tx *sql.Tx) error {
			_, err := r.DB.Builder.Insert("messages").
				Columns("id", "channel_id", "conversation_id", "user_id", "message", "attachments", "edited").
				Values(messageID, nullID(target.ChannelID), nullID(target.ConversationID), userID, text, "", false).
				RunWith(tx).ExecContext(ctx)
			if err != nil {
				return err
			}

			if !target.IsConversation() {
				return nil
			}

			_, err = r.DB.Builder.Update("direct_messages").
				Set("last_message", text).
				Set("last_message_at", time.Now().UnixMilli()).
				Where(sq.Eq{"id": target.ConversationID}).
				RunWith(tx).ExecContext(ctx)
			return err
		})
		if err != nil {
			return models.Message{}, err
		}

		message, err := r.getMessage(ctx, messageID)
		if err != nil {
			return models.Message{}, err
		}

		r.emit(ctx, hub.MessageCreated, message, target.Topic())
		if target.IsConversation() {
			r.announceConversation(ctx, target.ConversationID)
		}

		return message, nil
	})
}

func (r *MessageRepository) announceConversation(ctx context.Context, conversationID int64) {
	participants, err := conversationParticipants(ctx, r.Backend, conversationID)
	if err != nil {
		r.Sugar.Error(err)
		return
	}
	payload := map[string]string{"conversationID": fmt.Sprint(conversationID)}
	r.emit(ctx, hub.ConversationModified, payload, userTopic(participants[0]), userTopic(participants[1]))
}

// latest returns the newest limit messages of target, oldest first, with reactions counted for userID.
func (r *MessageRepository) latest(ctx context.Context, target models.MessageTarget, userID int64, limit uint64) ([]models.Message, error) {
	where := sq.Eq{"messages.channel_id": target.ChannelID}
	if target.IsConversation() {
		where = sq.Eq{"messages.conversation_id": target.ConversationID}
	}

	rows, err := r.selectMessages().
		Where(where).
		OrderBy("messages.id DESC").
		Limit(limit).
		RunWith(r.DB).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	slices.Reverse(messages)

	err = r.fillReactions(ctx, messages, userID)
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *MessageRepository) fillReactions(ctx context.Context, messages []models.Message, userID int64) error {
	if len(messages) == 0 {
		return nil
	}

	index := make(map[int64]*models.Message, len(messages))
	messageIDs := make([]int64, 0, len(messages))
	for i := range messages {
		index[messages[i].ID] = &messages[i]
		messageIDs = append(messageIDs, messages[i].ID)
	}

	rows, err := r.DB.Builder.Select("message_id", "user_id", "reaction").
		From("message_reactions").
		Where(sq.Eq{"message_id": messageIDs}).
		RunWith(r.DB).QueryContext(ctx)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var messageID, reactorID int64
		var reaction int
		if err := rows.Scan(&messageID, &reactorID, &reaction); err != nil {
			return err
		}

		message, found := index[messageID]
		if !found || reaction < 0 || reaction >= models.ReactionCount {
			continue
		}
		message.Reactions[reaction]++
		if reactorID == userID {
			message.Reacted[reaction] = true
		}
	}

	return rows.Err()
}

// ObserveMessages lists the newest limit messages of target as userID sees them.
// A limit of 0 falls back to 50, and limits above models.MaxMessageWindow are capped.
// Access is checked on every load, so a viewer who loses access gets an Error
// and the stream ends.
func (r *MessageRepository) ObserveMessages(ctx context.Context, target models.MessageTarget, userID int64, limit int) resource.Stream[[]models.Message] {
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	limit = min(limit, models.MaxMessageWindow)

	topics := []string{target.Topic()}
	if !target.IsConversation() {
		// membership changes are announced on the server
		topics = append(topics, serverTopic(target.ServerID))
	}

	return watch(ctx, r.Backend, topics, func(ctx context.Context) ([]models.Message, error) {
		if err := r.checkAccess(ctx, target, userID); err != nil {
			return nil, err
		}
		return r.latest(ctx, target, userID, uint64(limit))
	})
}

// authored loads messageID and fails with ErrForbidden unless userID wrote it.
func (r *MessageRepository) authored(ctx context.Context, userID int64, messageID int64) (models.Message, error) {
	message, err := r.getMessage(ctx, messageID)
	if err != nil {
		return models.Message{}, err
	}
	if message.UserID != userID {
		return models.Message{}, ErrForbidden
	}
	return message, nil
}

func (r *MessageRepository) EditMessage(ctx context.Context, userID int64, messageID int64, text string) resource.Stream[models.Message] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.Message, error) {
		message, err := r.authored(ctx, userID, messageID)
		if err != nil {
			return models.Message{}, err
		}

		_, err = r.DB.Builder.Update("messages").
			Set("message", text).
			Set("edited", true).
			Where(sq.Eq{"id": messageID}).
			RunWith(r.DB).ExecContext(ctx)
		if err != nil {
			return models.Message{}, err
		}

		message.Message = text
		message.Edited = true

		r.emit(ctx, hub.MessageModified, message, messageTarget(message).Topic())

		return message, nil
	})
}

func (r *MessageRepository) DeleteMessage(ctx context.Context, userID int64, messageID int64) resource.Stream[struct{}] {
	return once(ctx, r.Sugar, func(ctx context.Context) (struct{}, error) {
		message, err := r.authored(ctx, userID, messageID)
		if err != nil {
			return struct{}{}, err
		}

		_, err = r.DB.Builder.Delete("messages").
			Where(sq.Eq{"id": messageID}).
			RunWith(r.DB).ExecContext(ctx)
		if err != nil {
			return struct{}{}, err
		}

		r.Sugar.Debugf("User ID [%d] deleted message ID [%d]", userID, messageID)
		r.emit(ctx, hub.MessageDeleted, map[string]string{"messageID": fmt.Sprint(messageID)}, messageTarget(message).Topic())

		return struct{}{}, nil
	})
}

// ToggleReaction adds reaction index of userID to messageID, or removes it if it was there.
// It reports whether the reaction is now present.
func (r *MessageRepository) ToggleReaction(ctx context.Context, userID int64, messageID int64, index int) resource.Stream[bool] {
	return once(ctx, r.Sugar, func(ctx context.Context) (bool, error) {
		message, err := r.getMessage(ctx, messageID)
		if err != nil {
			return false, err
		}

		target := messageTarget(message)
		err = r.checkAccess(ctx, target, userID)
		if err != nil {
			return false, err
		}

		where := sq.Eq{"message_id": messageID, "user_id": userID, "reaction": index}
		result, err := r.DB.Builder.Delete("message_reactions").
			Where(where).
			RunWith(r.DB).ExecContext(ctx)
		if err != nil {
			return false, err
		}
		removed, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		added := removed == 0
		if added {
			_, err = r.DB.Builder.Insert("message_reactions").
				Columns("message_id", "user_id", "reaction").
				Values(messageID, userID, index).
				RunWith(r.DB).ExecContext(ctx)
			if err != nil {
				return false, err
			}
		}

		r.emit(ctx, hub.MessageModified, map[string]string{"messageID": fmt.Sprint(messageID)}, target.Topic())

		return added, nil
	})
}

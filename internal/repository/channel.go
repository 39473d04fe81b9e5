package repository

import (
	"chatapp-client/internal/hub"
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/snowflake"
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

type ChannelRepository struct {
	*Backend
}

func NewChannelRepository(b *Backend) *ChannelRepository {
	return &ChannelRepository{b}
}

func getChannel(ctx context.Context, b *Backend, channelID int64) (models.Channel, error) {
	row := b.DB.Builder.Select(channelColumns...).
		From("channels").
		Where(sq.Eq{"channels.id": channelID}).
		RunWith(b.DB).QueryRowContext(ctx)
	return scanChannel(row)
}

func (r *ChannelRepository) CreateChannel(ctx context.Context, ownerID int64, serverID int64, name string, channelType string) resource.Stream[models.Channel] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.Channel, error) {
		err := requireOwner(ctx, r.DB, r.Backend, serverID, ownerID)
		if err != nil {
			return models.Channel{}, err
		}

		channelID, err := snowflake.Generate()
		if err != nil {
			return models.Channel{}, err
		}

		channel := models.Channel{
			ID:        channelID,
			ServerID:  serverID,
			Name:      name,
			Type:      channelType,
			CreatedAt: snowflake.Time(channelID),
		}

		_, err = r.DB.Builder.Insert("channels").
			Columns("id", "server_id", "name", "type").
			Values(channel.ID, channel.ServerID, channel.Name, channel.Type).
			RunWith(r.DB).ExecContext(ctx)
		if err != nil {
			return models.Channel{}, err
		}

		r.Sugar.Debugf("Created %s channel ID [%d] in server ID [%d]", channel.Type, channel.ID, serverID)
		r.emit(ctx, hub.ChannelCreated, channel, serverTopic(serverID))

		return channel, nil
	})
}

func (r *ChannelRepository) channels(ctx context.Context, serverID int64) ([]models.Channel, error) {
	// an unknown server is an error rather than an empty list
	if _, err := getServer(ctx, r.DB, r.Backend, serverID); err != nil {
		return nil, err
	}

	rows, err := r.DB.Builder.Select(channelColumns...).
		From("channels").
		Where(sq.Eq{"channels.server_id": serverID}).
		OrderBy("channels.id").
		RunWith(r.DB).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	channels := []models.Channel{}
	for rows.Next() {
		channel, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}

	return channels, rows.Err()
}

// ObserveChannels lists the channels of serverID in creation order.
func (r *ChannelRepository) ObserveChannels(ctx context.Context, serverID int64) resource.Stream[[]models.Channel] {
	return watch(ctx, r.Backend, []string{serverTopic(serverID)}, func(ctx context.Context) ([]models.Channel, error) {
		return r.channels(ctx, serverID)
	})
}

func (r *ChannelRepository) DeleteChannel(ctx context.Context, ownerID int64, channelID int64) resource.Stream[struct{}] {
	return once(ctx, r.Sugar, func(ctx context.Context) (struct{}, error) {
		channel, err := getChannel(ctx, r.Backend, channelID)
		if err != nil {
			return struct{}{}, err
		}

		err = requireOwner(ctx, r.DB, r.Backend, channel.ServerID, ownerID)
		if err != nil {
			return struct{}{}, err
		}

		_, err = r.DB.Builder.Delete("channels").
			Where(sq.Eq{"id": channelID}).
			RunWith(r.DB).ExecContext(ctx)
		if err != nil {
			return struct{}{}, err
		}

		r.emit(ctx, hub.ChannelDeleted, map[string]string{"channelID": fmt.Sprint(channelID)}, serverTopic(channel.ServerID), fmt.Sprintf("channel:%d", channelID))

		return struct{}{}, nil
	})
}

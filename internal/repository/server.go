package repository

import (
	"chatapp-client/internal/hub"
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/snowflake"
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// serversTopic announces changes every member list of servers depends on.
const serversTopic = "servers"

type ServerRepository struct {
	*Backend
}

func NewServerRepository(b *Backend) *ServerRepository {
	return &ServerRepository{b}
}

func serverTopic(serverID int64) string {
	return fmt.Sprintf("server:%d", serverID)
}

func getServer(ctx context.Context, runner sq.BaseRunner, b *Backend, serverID int64) (models.Server, error) {
	row := b.DB.Builder.Select(serverColumns...).
		From("servers").
		Where(sq.Eq{"servers.id": serverID}).
		RunWith(runner).QueryRowContext(ctx)
	return scanServer(row)
}

// requireOwner fails with ErrForbidden unless userID owns serverID.
func requireOwner(ctx context.Context, runner sq.BaseRunner, b *Backend, serverID int64, userID int64) error {
	server, err := getServer(ctx, runner, b, serverID)
	if err != nil {
		return err
	}
	if server.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}

func isMember(ctx context.Context, runner sq.BaseRunner, b *Backend, serverID int64, userID int64) (bool, error) {
	var count int
	err := b.DB.Builder.Select("COUNT(*)").
		From("server_members").
		Where(sq.Eq{"server_id": serverID, "user_id": userID}).
		RunWith(runner).QueryRowContext(ctx).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateServer adds the server with its owner as first member and a default text and voice channel.
// A nil picture leaves the server without one.
func (r *ServerRepository) CreateServer(ctx context.Context, ownerID int64, name string, picture io.Reader) resource.Stream[models.Server] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.Server, error) {
		serverID, err := snowflake.Generate()
		if err != nil {
			return models.Server{}, err
		}

		server := models.Server{
			ID:        serverID,
			OwnerID:   ownerID,
			Name:      name,
			CreatedAt: snowflake.Time(serverID),
		}

		if picture != nil {
			server.Picture, err = r.Storage.SavePicture("server_pictures", picture)
			if err != nil {
				return models.Server{}, err
			}
		}

		err = r.inTx(ctx, func(tx *sql.Tx) error {
			_, err := r.DB.Builder.Insert("servers").
				Columns("id", "owner_id", "name", "picture", "banner").
				Values(server.ID, server.OwnerID, server.Name, server.Picture, server.Banner).
				RunWith(tx).ExecContext(ctx)
			if err != nil {
				return err
			}

			_, err = r.DB.Builder.Insert("server_members").
				Columns("server_id", "user_id", "since").
				Values(server.ID, ownerID, time.Now().UnixMilli()).
				RunWith(tx).ExecContext(ctx)
			if err != nil {
				return err
			}

			for _, channel := range []struct{ name, kind string }{
				{"general", models.ChannelTypeText},
				{"General", models.ChannelTypeVoice},
			} {
				channelID, err := snowflake.Generate()
				if err != nil {
					return err
				}
				_, err = r.DB.Builder.Insert("channels").
					Columns("id", "server_id", "name", "type").
					Values(channelID, server.ID, channel.name, channel.kind).
					RunWith(tx).ExecContext(ctx)
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return models.Server{}, err
		}

		r.Sugar.Debugf("User ID [%d] created server ID [%d]", ownerID, server.ID)
		r.emit(ctx, hub.ServerCreated, server, userTopic(ownerID))

		return server, nil
	})
}

func (r *ServerRepository) userServers(ctx context.Context, userID int64) ([]models.Server, error) {
	rows, err := r.DB.Builder.Select(serverColumns...).
		From("servers").
		Join("server_members ON server_members.server_id = servers.id").
		Where(sq.Eq{"server_members.user_id": userID}).
		OrderBy("server_members.since", "servers.id").
		RunWith(r.DB).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	servers := []models.Server{}
	for rows.Next() {
		server, err := scanServer(rows)
		if err != nil {
			return nil, err
		}
		servers = append(servers, server)
	}

	return servers, rows.Err()
}

// ObserveUserServers lists the servers userID is a member of, in the order they were joined.
func (r *ServerRepository) ObserveUserServers(ctx context.Context, userID int64) resource.Stream[[]models.Server] {
	return watch(ctx, r.Backend, []string{userTopic(userID), serversTopic}, func(ctx context.Context) ([]models.Server, error) {
		return r.userServers(ctx, userID)
	})
}

func (r *ServerRepository) GetServer(ctx context.Context, serverID int64) resource.Stream[models.Server] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.Server, error) {
		return getServer(ctx, r.DB, r.Backend, serverID)
	})
}

func (r *ServerRepository) JoinServer(ctx context.Context, serverID int64, userID int64) resource.Stream[models.Server] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.Server, error) {
		server, err := getServer(ctx, r.DB, r.Backend, serverID)
		if err != nil {
			return models.Server{}, err
		}

		_, err = r.DB.Builder.Insert("server_members").
			Columns("server_id", "user_id", "since").
			Values(serverID, userID, time.Now().UnixMilli()).
			RunWith(r.DB).ExecContext(ctx)
		if err != nil {
			return models.Server{}, err
		}

		user, err := getUser(ctx, r.Backend, userID)
		if err != nil {
			return models.Server{}, err
		}
		user.Email = ""

		r.emit(ctx, hub.MemberJoined, user, serverTopic(serverID), userTopic(userID))

		return server, nil
	})
}

func (r *ServerRepository) LeaveServer(ctx context.Context, serverID int64, userID int64) resource.Stream[struct{}] {
	return once(ctx, r.Sugar, func(ctx context.Context) (struct{}, error) {
		server, err := getServer(ctx, r.DB, r.Backend, serverID)
		if err != nil {
			return struct{}{}, err
		}
		if server.OwnerID == userID {
			return struct{}{}, ErrOwnerCantLeave
		}

		result, err := r.DB.Builder.Delete("server_members").
			Where(sq.Eq{"server_id": serverID, "user_id": userID}).
			RunWith(r.DB).ExecContext(ctx)
		if err != nil {
			return struct{}{}, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return struct{}{}, err
		}
		if affected == 0 {
			return struct{}{}, ErrNotFound
		}

		r.emit(ctx, hub.MemberLeft, map[string]string{"userID": fmt.Sprint(userID)}, serverTopic(serverID), userTopic(userID))

		return struct{}{}, nil
	})
}

func (r *ServerRepository) RenameServer(ctx context.Context, ownerID int64, serverID int64, name string) resource.Stream[models.Server] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.Server, error) {
		err := requireOwner(ctx, r.DB, r.Backend, serverID, ownerID)
		if err != nil {
			return models.Server{}, err
		}

		_, err = r.DB.Builder.Update("servers").
			Set("name", name).
			Where(sq.Eq{"id": serverID}).
			RunWith(r.DB).ExecContext(ctx)
		if err != nil {
			return models.Server{}, err
		}

		server, err := getServer(ctx, r.DB, r.Backend, serverID)
		if err != nil {
			return models.Server{}, err
		}

		r.emit(ctx, hub.ServerModified, server, serverTopic(serverID), serversTopic)

		return server, nil
	})
}

// DeleteServer removes the server together with its channels, messages and memberships.
func (r *ServerRepository) DeleteServer(ctx context.Context, ownerID int64, serverID int64) resource.Stream[struct{}] {
	return once(ctx, r.Sugar, func(ctx context.Context) (struct{}, error) {
		err := requireOwner(ctx, r.DB, r.Backend, serverID, ownerID)
		if err != nil {
			return struct{}{}, err
		}

		_, err = r.DB.Builder.Delete("servers").
			Where(sq.Eq{"id": serverID}).
			RunWith(r.DB).ExecContext(ctx)
		if err != nil {
			return struct{}{}, err
		}

		r.Sugar.Debugf("User ID [%d] deleted server ID [%d]", ownerID, serverID)
		r.emit(ctx, hub.ServerDeleted, map[string]string{"serverID": fmt.Sprint(serverID)}, serverTopic(serverID), serversTopic)

		return struct{}{}, nil
	})
}

func (r *ServerRepository) members(ctx context.Context, serverID int64) ([]models.User, error) {
	rows, err := r.DB.Builder.Select(userColumns...).
		From("users").
		Join("server_members ON server_members.user_id = users.id").
		Where(sq.Eq{"server_members.server_id": serverID}).
		OrderBy("server_members.since", "users.id").
		RunWith(r.DB).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		user.Email = ""
		users = append(users, user)
	}

	return users, rows.Err()
}

// GetMembers lists the members of serverID, failing with ErrNotFound for unknown servers.
func (r *ServerRepository) GetMembers(ctx context.Context, serverID int64) resource.Stream[[]models.User] {
	return once(ctx, r.Sugar, func(ctx context.Context) ([]models.User, error) {
		if _, err := getServer(ctx, r.DB, r.Backend, serverID); err != nil {
			return nil, err
		}
		return r.members(ctx, serverID)
	})
}

// ObserveMembers is GetMembers as a listener.
func (r *ServerRepository) ObserveMembers(ctx context.Context, serverID int64) resource.Stream[[]models.User] {
	return watch(ctx, r.Backend, []string{serverTopic(serverID)}, func(ctx context.Context) ([]models.User, error) {
		return r.members(ctx, serverID)
	})
}

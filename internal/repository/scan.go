package repository

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/snowflake"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
)

var userColumns = []string{"users.id", "users.email", "users.username", "users.display_name", "users.picture", "users.status", "users.bio"}

func scanUser(row sq.RowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.UserName, &u.DisplayName, &u.Picture, &u.Status, &u.Bio)
	if err != nil {
		return models.User{}, err
	}
	u.CreatedAt = snowflake.Time(u.ID)
	return u, nil
}

var serverColumns = []string{"servers.id", "servers.owner_id", "servers.name", "servers.picture", "servers.banner"}

func scanServer(row sq.RowScanner) (models.Server, error) {
	var s models.Server
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Picture, &s.Banner)
	if err != nil {
		return models.Server{}, err
	}
	s.CreatedAt = snowflake.Time(s.ID)
	return s, nil
}

var channelColumns = []string{"channels.id", "channels.server_id", "channels.name", "channels.type"}

func scanChannel(row sq.RowScanner) (models.Channel, error) {
	var c models.Channel
	err := row.Scan(&c.ID, &c.ServerID, &c.Name, &c.Type)
	if err != nil {
		return models.Channel{}, err
	}
	c.CreatedAt = snowflake.Time(c.ID)
	return c, nil
}

// nullID stores an absent reference as NULL.
func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

package database

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		email VARCHAR(64) NOT NULL UNIQUE,
		username VARCHAR(32) NOT NULL UNIQUE,
		display_name VARCHAR(64) NOT NULL,
		picture TEXT NOT NULL,
		status VARCHAR(16) NOT NULL,
		bio TEXT NOT NULL,
		password VARCHAR(60) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS servers (
		id BIGINT PRIMARY KEY,
		owner_id BIGINT NOT NULL,
		name VARCHAR(64) NOT NULL,
		picture TEXT NOT NULL,
		banner TEXT NOT NULL,
		FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS server_members (
		server_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		since BIGINT NOT NULL,
		PRIMARY KEY (server_id, user_id),
		FOREIGN KEY (server_id) REFERENCES servers(id) ON DELETE CASCADE,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS channels (
		id BIGINT PRIMARY KEY,
		server_id BIGINT NOT NULL,
		name VARCHAR(32) NOT NULL,
		type VARCHAR(8) NOT NULL,
		FOREIGN KEY (server_id) REFERENCES servers(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS direct_messages (
		id BIGINT PRIMARY KEY,
		user_a BIGINT NOT NULL,
		user_b BIGINT NOT NULL,
		last_message TEXT NOT NULL,
		last_message_at BIGINT NOT NULL,
		UNIQUE (user_a, user_b),
		FOREIGN KEY (user_a) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (user_b) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id BIGINT PRIMARY KEY,
		channel_id BIGINT,
		conversation_id BIGINT,
		user_id BIGINT NOT NULL,
		message TEXT NOT NULL,
		attachments TEXT NOT NULL,
		edited BOOLEAN NOT NULL,
		FOREIGN KEY (channel_id) REFERENCES channels(id) ON DELETE CASCADE,
		FOREIGN KEY (conversation_id) REFERENCES direct_messages(id) ON DELETE CASCADE,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS message_reactions (
		message_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		reaction SMALLINT NOT NULL,
		PRIMARY KEY (message_id, user_id, reaction),
		FOREIGN KEY (message_id) REFERENCES messages(id) ON DELETE CASCADE,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS user_settings (
		user_id BIGINT PRIMARY KEY,
		theme VARCHAR(16) NOT NULL,
		language VARCHAR(16) NOT NULL,
		notifications BOOLEAN NOT NULL,
		compact BOOLEAN NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
}

// mysql creates indexes for foreign keys itself and has no CREATE INDEX IF NOT EXISTS
var indexes = []string{
	`CREATE INDEX IF NOT EXISTS messages_channel_idx ON messages (channel_id)`,
	`CREATE INDEX IF NOT EXISTS messages_conversation_idx ON messages (conversation_id)`,
	`CREATE INDEX IF NOT EXISTS server_members_user_idx ON server_members (user_id)`,
}

func (d *DB) setupTables() error {
	for _, table := range tables {
		if _, err := d.Exec(table); err != nil {
			return err
		}
	}

	if d.Dialect == DialectMysql {
		return nil
	}

	for _, index := range indexes {
		if _, err := d.Exec(index); err != nil {
			return err
		}
	}

	return nil
}

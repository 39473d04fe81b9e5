// Package database opens the document store behind every repository.
// The same tables run on sqlite (self-contained), mysql/mariadb and postgres.
package database

import (
	"chatapp-client/internal/models"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/log/zapadapter"
	"github.com/jackc/pgx/v4/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	DialectSqlite   = "sqlite"
	DialectMysql    = "mysql"
	DialectPostgres = "postgres"
)

type DB struct {
	*sql.DB
	Dialect string
	// Builder renders placeholders the way Dialect expects them.
	Builder sq.StatementBuilderType
}

func Setup(cfg *models.ConfigFile, sugar *zap.SugaredLogger) (*DB, error) {
	switch cfg.Database {
	case "", DialectSqlite:
		path := cfg.SqlitePath
		if path == "" {
			path = "./database.db"
		}
		return Open(DialectSqlite, path, sugar)
	case DialectMysql:
		return Open(DialectMysql, fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&timeout=10s", cfg.DbUser, cfg.DbPassword, cfg.DbAddress, cfg.DbPort, cfg.DbDatabase), sugar)
	case DialectPostgres:
		return Open(DialectPostgres, fmt.Sprintf("postgres://%s:%s@%s:%s/%s?connect_timeout=10", cfg.DbUser, cfg.DbPassword, cfg.DbAddress, cfg.DbPort, cfg.DbDatabase), sugar)
	default:
		return nil, fmt.Errorf("unsupported database %q", cfg.Database)
	}
}

// Open connects to dsn and creates missing tables.
func Open(dialect string, dsn string, sugar *zap.SugaredLogger) (*DB, error) {
	sugar.Infof("Connecting to database %s...", dialect)

	var db *sql.DB
	var err error
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)

	switch dialect {
	case DialectSqlite:
		db, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, err
		}

		// there can be sqlite busy errors if this is not set to 1
		db.SetMaxOpenConns(1)

		err = setPragmaValues(db)
		if err != nil {
			db.Close()
			return nil, err
		}

		err = readPragmaValues(db, sugar)
		if err != nil {
			db.Close()
			return nil, err
		}
	case DialectMysql:
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(10)
	case DialectPostgres:
		connConfig, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, err
		}
		connConfig.Logger = zapadapter.NewLogger(sugar.Desugar())
		connConfig.LogLevel = pgx.LogLevelWarn

		db = stdlib.OpenDB(*connConfig)
		db.SetMaxOpenConns(10)
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	default:
		return nil, fmt.Errorf("unsupported database %q", dialect)
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, err
	}

	d := &DB{
		DB:      db,
		Dialect: dialect,
		Builder: builder,
	}

	err = d.setupTables()
	if err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

func setPragmaValues(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}

	// these next 2 extremely speed up performance of sqlite
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return err
	}

	if _, err := db.Exec("PRAGMA synchronous = normal"); err != nil {
		return err
	}

	return nil
}

func readPragmaValues(db *sql.DB, sugar *zap.SugaredLogger) error {
	var foreignKeysValue bool
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeysValue)
	if err != nil {
		return err
	}
	if !foreignKeysValue {
		return fmt.Errorf("sqlite foreign keys could not be enabled")
	}

	var journalModeValue string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&journalModeValue)
	if err != nil {
		return err
	}

	var synchronousValue int
	err = db.QueryRow("PRAGMA synchronous").Scan(&synchronousValue)
	if err != nil {
		return err
	}

	var synchronousValueStr string
	switch synchronousValue {
	case 0:
		synchronousValueStr = "off"
	case 1:
		synchronousValueStr = "normal"
	case 2:
		synchronousValueStr = "full"
	case 3:
		synchronousValueStr = "extra"
	default:
		return fmt.Errorf("synchronous value is unsupported")
	}

	sugar.Debugf("sqlite PRAGMA foreign_keys: %t, journal_mode: %s, synchronous: %s", foreignKeysValue, journalModeValue, synchronousValueStr)

	return nil
}

package postgres

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" //nolint:revive
	"github.com/rs/zerolog/log"

	"appointly/config"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
)

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(config *config.Config) *Connection {
	return &Connection{
		Read:  CreatePostgresReadConn(*config),
		Write: CreatePostgresWriteConn(*config),
	}
}

// NewFromDB wraps a single handle for both roles. Tests use it with sqlmock.
func NewFromDB(db *sqlx.DB) *Connection {
	return &Connection{Read: db, Write: db}
}

func (c *Connection) Close() error {
	var errs []error

	if c.Read != nil {
		errs = append(errs, c.Read.Close())
	}

	if c.Write != nil && c.Write != c.Read {
		errs = append(errs, c.Write.Close())
	}

	return errors.Join(errs...)
}

// getDBName returns the database name with prefix if configured
func getDBName(config config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// Endpoint is one side (read or write) of the database pair.
type Endpoint struct {
	Name     string
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

// DSN renders the endpoint as a lib/pq URL with credentials escaped.
func (e Endpoint) DSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.DBName,
		RawQuery: url.Values{"sslmode": {e.SSLMode}}.Encode(),
	}

	return dsn.String()
}

// CreatePostgresWriteConn creates a database connection for write access.
func CreatePostgresWriteConn(config config.Config) *sqlx.DB {
	write := config.DB.Postgres.Write

	return CreatePostgresConnection(Endpoint{
		Name:     "write",
		Username: write.Username,
		Password: write.Password,
		Host:     write.Host,
		Port:     write.Port,
		DBName:   getDBName(config, write.Name),
		SSLMode:  write.SSLMode,
	}, config.DB.Postgres.MaxRetry, config.DB.Postgres.RetryWaitTime)
}

// CreatePostgresReadConn creates a database connection for read access.
func CreatePostgresReadConn(config config.Config) *sqlx.DB {
	read := config.DB.Postgres.Read

	return CreatePostgresConnection(Endpoint{
		Name:     "read",
		Username: read.Username,
		Password: read.Password,
		Host:     read.Host,
		Port:     read.Port,
		DBName:   getDBName(config, read.Name),
		SSLMode:  read.SSLMode,
	}, config.DB.Postgres.MaxRetry, config.DB.Postgres.RetryWaitTime)
}

// CreatePostgresConnection connects with a constant wait between attempts and returns nil once
// maxRetry attempts have failed.
func CreatePostgresConnection(endpoint Endpoint, maxRetry, waitTime int) *sqlx.DB {
	if maxRetry < 1 {
		maxRetry = 1
	}

	connect := func() (*sqlx.DB, error) {
		return sqlx.Connect("postgres", endpoint.DSN())
	}

	notify := func(err error, _ time.Duration) {
		log.
			Error().
			Err(err).
			Str("name", endpoint.Name).
			Str("host", endpoint.Host).
			Str("port", endpoint.Port).
			Str("dbName", endpoint.DBName).
			Msg("Failed connecting to database, retrying")
	}

	sqlDB, err := backoff.Retry(
		context.Background(),
		connect,
		backoff.WithBackOff(backoff.NewConstantBackOff(time.Duration(waitTime)*time.Second)),
		backoff.WithMaxTries(uint(maxRetry)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(notify),
	)
	if err != nil {
		log.Error().Err(err).Str("name", endpoint.Name).Int("attempts", maxRetry).Msg("Giving up connecting to database")

		return nil
	}

	log.
		Info().
		Str("name", endpoint.Name).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("dbName", endpoint.DBName).
		Msg("Connected to database")

	sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
	sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)

	return sqlDB
}

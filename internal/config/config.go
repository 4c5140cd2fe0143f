package config

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return dsn.String()
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type LedgerConfig struct {
	Store               string
	IndexLock           string
	LockTTL             time.Duration
	LockTimeout         time.Duration
	RemoteTimeout       time.Duration
	LoungeDeleteUnindex bool
	RepairMaxAttempts   int
	RepairPollTimeout   time.Duration
	IndexCacheTTL       time.Duration
}

var ErrLockTTLTooShort = errors.New("ledger.lock_ttl must be longer than ledger.remote_timeout")

// Validate rejects a redis index lock that could expire while its holder is still
// waiting on postgres.
func (c LedgerConfig) Validate() error {
	if c.IndexLock != "redis" {
		return nil
	}
	if c.RemoteTimeout <= 0 {
		return fmt.Errorf("%w: remote_timeout must be set with a redis index lock", ErrLockTTLTooShort)
	}
	if c.LockTTL <= c.RemoteTimeout {
		return fmt.Errorf("%w: lock_ttl %s, remote_timeout %s", ErrLockTTLTooShort, c.LockTTL, c.RemoteTimeout)
	}
	return nil
}

package models

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// ConnectionConfig identifies the single data source of a session
type ConnectionConfig struct {
	Name           string        `mapstructure:"name"`
	Driver         string        `mapstructure:"driver"` // dialect name; inferred from DSN when empty
	DSN            string        `mapstructure:"dsn"`
	ConnectTimeout time.Duration `mapstructure:"-"`
}

// Label returns a display label for the connection target with any
// password removed, e.g. "postgres: app@db.internal/shop".
func (c ConnectionConfig) Label() string {
	if c.Name != "" {
		return c.Name
	}

	target := RedactDSN(c.DSN)
	if c.Driver == "" {
		return target
	}
	return c.Driver + ": " + target
}

// RedactDSN strips credentials from a DSN for display and logging
func RedactDSN(dsn string) string {
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "<invalid dsn>"
		}
		if u.User != nil {
			u.User = url.User(u.User.Username())
		}
		u.RawQuery = ""
		return strings.TrimPrefix(u.String(), u.Scheme+"://")
	}

	// user:pass@tcp(host)/db
	if at := strings.LastIndex(dsn, "@"); at > 0 {
		user := dsn[:at]
		if colon := strings.Index(user, ":"); colon >= 0 {
			user = user[:colon]
		}
		rest := dsn[at+1:]
		if q := strings.Index(rest, "?"); q >= 0 {
			rest = rest[:q]
		}
		return user + "@" + rest
	}

	path := dsn
	if q := strings.Index(path, "?"); q >= 0 {
		path = path[:q]
	}

	// key=value lists: drop password entries
	if !strings.HasPrefix(path, "file:") && strings.Contains(path, "=") {
		sep := " "
		if strings.Contains(dsn, ";") {
			sep = ";"
		}
		parts := strings.Split(dsn, sep)
		kept := parts[:0]
		for _, p := range parts {
			key := strings.ToLower(strings.TrimSpace(strings.SplitN(p, "=", 2)[0]))
			if key == "password" || key == "pwd" {
				continue
			}
			kept = append(kept, p)
		}
		return strings.Join(kept, sep)
	}

	// file based sources
	return filepath.Base(strings.TrimPrefix(path, "file:"))
}

package connection

import (
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/rebeliceyang/lazydb/internal/models"
)

// GetEnvironmentConfig derives a Postgres target from DATABASE_URL or the
// libpq PG* variables. Returns nil when none are set.
func GetEnvironmentConfig() *models.ConnectionConfig {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return &models.ConnectionConfig{DSN: dsn}
	}

	host := os.Getenv("PGHOST")
	portStr := os.Getenv("PGPORT")
	database := os.Getenv("PGDATABASE")
	user := os.Getenv("PGUSER")
	password := os.Getenv("PGPASSWORD")
	sslMode := os.Getenv("PGSSLMODE")

	if host == "" && database == "" && user == "" {
		return nil
	}

	// Set defaults
	if host == "" {
		host = "localhost"
	}
	if user == "" {
		user = os.Getenv("USER")
	}
	if database == "" {
		database = user
	}

	port := 5432
	if portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil && p > 0 && p <= 65535 {
			port = p
		}
	}

	if sslMode == "" {
		sslMode = "prefer"
	}

	u := &url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		Path:     "/" + database,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	if password != "" {
		u.User = url.UserPassword(user, password)
	} else {
		u.User = url.User(user)
	}

	return &models.ConnectionConfig{
		Name:   "Environment",
		Driver: "postgres",
		DSN:    u.String(),
	}
}

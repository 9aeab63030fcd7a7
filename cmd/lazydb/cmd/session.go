package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rebeliceyang/lazydb/internal/config"
	"github.com/rebeliceyang/lazydb/internal/db/connection"
	"github.com/rebeliceyang/lazydb/internal/db/metadata"
	"github.com/rebeliceyang/lazydb/internal/logger"
	"github.com/rebeliceyang/lazydb/internal/models"
)

// errNoTarget is returned when neither arguments, flags, config nor
// environment name a data source
var errNoTarget = errors.New("no connection target: pass a DSN or file, set connection.dsn, LAZYDB_CONNECTION_DSN or DATABASE_URL")

// session is one connection plus the schema reflected from it
type session struct {
	pool     *connection.Pool
	snapshot *models.SchemaSnapshot
}

// Close releases the connection
func (s *session) Close() error {
	return s.pool.Close()
}

// loadConfig loads the config file and applies the command line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	err = cfg.ApplyOverrides(config.Overrides{
		Driver:   driver,
		DSN:      dsn,
		Theme:    themeArg,
		LogLevel: logLevel,
		LogFile:  logFile,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

// newLogger creates the run logger tagged with a fresh session id
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log.WithSession(uuid.NewString()), nil
}

// resolveTarget picks the data source: a positional argument first, then the
// configured DSN (flags already applied), then the environment.
func resolveTarget(cfg *config.Config, args []string) (models.ConnectionConfig, error) {
	target := cfg.ConnectionTarget()
	if len(args) > 0 && args[0] != "" {
		target.DSN = args[0]
	}

	if target.DSN == "" {
		env := connection.GetEnvironmentConfig()
		if env == nil {
			return models.ConnectionConfig{}, errNoTarget
		}
		env.ConnectTimeout = target.ConnectTimeout
		if target.Driver != "" {
			env.Driver = target.Driver
		}
		target = *env
	}
	return target, nil
}

func sampleOptions(cfg *config.Config) metadata.SampleOptions {
	return metadata.SampleOptions{
		Limit:           cfg.Data.SampleLimit,
		NullPlaceholder: cfg.Data.NullPlaceholder,
		Timeout:         cfg.QueryTimeout(),
	}
}

// openSession connects and reflects. Both failures end the run.
func openSession(ctx context.Context, cfg *config.Config, args []string, log *logger.Logger) (*session, error) {
	target, err := resolveTarget(cfg, args)
	if err != nil {
		return nil, err
	}

	log.Infow("connecting", "target", target.Label(), "driver", target.Driver)
	pool, err := connection.Open(ctx, target)
	if err != nil {
		log.Errorw("connection failed", "error", err)
		return nil, err
	}
	log.Infow("connected", "driver", pool.Config().Driver)

	snapshot, err := metadata.Reflect(ctx, pool)
	if err != nil {
		log.Errorw("reflection failed", "error", err)
		pool.Close()
		return nil, err
	}
	log.Infow("schema reflected", "source", snapshot.Source, "tables", snapshot.Len())
	log.Debugw("tables", "names", snapshot.Names())

	return &session{pool: pool, snapshot: snapshot}, nil
}

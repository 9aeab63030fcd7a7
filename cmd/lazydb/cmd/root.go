package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rebeliceyang/lazydb/internal/app"
	"github.com/rebeliceyang/lazydb/internal/db/metadata"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.1.0-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile  string
	driver   string
	dsn      string
	limit    int
	themeArg string
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "lazydb [target]",
	Short: "Terminal schema browser for SQL databases",
	Long: `lazydb connects to one database, reflects its tables and columns, and
shows them as a tree. Selecting a table previews up to 100 of its rows.

Every read goes through a read-only transaction; lazydb never writes.

Targets:
  lazydb ./music.db                              SQLite file
  lazydb postgres://app@localhost/shop           PostgreSQL
  lazydb --driver mysql 'app:pw@tcp(db)/shop'    MySQL
  lazydb                                         DATABASE_URL or PG* variables`,
	Version:       Version,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runBrowse,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("lazydb %s (%s)\n", Version, Commit))

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Path to configuration file (default: search ~/.config/lazydb, ., ./config)")

	rootCmd.PersistentFlags().StringVarP(&driver, "driver", "d", "",
		"Database dialect (postgres, mysql, sqlite, sqlite3, sqlserver, duckdb); inferred from the DSN when empty")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "",
		"Connection string; a positional target takes precedence")
	rootCmd.PersistentFlags().IntVarP(&limit, "limit", "n", 0,
		"Override the number of rows sampled per table")

	rootCmd.PersistentFlags().StringVar(&themeArg, "theme", "",
		"Override the color theme (default, catppuccin-mocha)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Override log output (file path, stderr, stdout, discard)")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; use 'lazydb tables' or 'lazydb sample' for scripted use")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := openSession(ctx, cfg, args, log)
	if err != nil {
		return err
	}
	defer sess.Close()

	// the app applies the query timeout per sample
	opts := sampleOptions(cfg)
	opts.Timeout = 0

	model := app.New(cfg, sess.snapshot, metadata.NewSampler(sess.pool, opts), log)

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(model, programOpts...)
	if _, err := p.Run(); err != nil {
		log.Errorw("program exited with error", "error", err)
		return fmt.Errorf("error running program: %w", err)
	}
	log.Info("session ended")
	return nil
}

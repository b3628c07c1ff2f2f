package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"expenses/internal/cli"
	"expenses/internal/config"
	"expenses/internal/log"
	"expenses/internal/store"
	"expenses/internal/table"
)

// app carries the resolved configuration into every subcommand.
type app struct {
	cfg    *config.Config
	logger *log.Logger

	backend  string
	dataDir  string
	dbPath   string
	key      string
	locale   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "expensectl",
		Short: "Manage the expense list from the terminal",
		Long: `expensectl reads and edits the same persisted expense list the
server uses. Settings come from the environment (and .env) and can be
overridden with flags.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.backend, "backend", "", "storage backend (memory, file, sqlite)")
	flags.StringVar(&a.dataDir, "data-dir", "", "directory for the file backend")
	flags.StringVar(&a.dbPath, "db", "", "database path for the sqlite backend")
	flags.StringVar(&a.key, "key", "", "storage key holding the list")
	flags.StringVar(&a.locale, "locale", "", "collation locale for text sorting")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		listCmd(a),
		addCmd(a),
		updateCmd(a),
		deleteCmd(a),
		clearCmd(a),
		analyticsCmd(a),
		seedCmd(a),
	)
	return root
}

func (a *app) setup(_ *cobra.Command, _ []string) error {
	cli.LoadEnvFile()
	a.logger = cli.SetupLogger(a.logLevel).WithComponent(log.ComponentCLI)

	cfg := config.Load()
	if a.backend != "" {
		cfg.StorageBackend = a.backend
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.dbPath != "" {
		cfg.SQLiteDBPath = a.dbPath
	}
	if a.key != "" {
		cfg.StorageKey = a.key
	}
	if a.locale != "" {
		cfg.SortLocale = a.locale
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// openStore loads the persisted list. The returned close function is never
// nil.
func (a *app) openStore(cmd *cobra.Command) (*store.Store, func(), error) {
	kv, closeStorage, err := cli.OpenStorage(a.cfg)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open storage: %w", err)
	}
	st := store.New(cmd.Context(), kv,
		store.WithKey(a.cfg.StorageKey),
		store.WithLogger(a.logger.WithComponent(log.ComponentStore).Logger))

	return st, func() {
		if err := closeStorage(); err != nil {
			a.logger.Error("Failed to close storage", log.FieldError, err)
		}
	}, nil
}

func (a *app) sorter() (*table.Sorter, error) {
	return table.NewSorter(a.cfg.SortLocale)
}

// Package cli implements the operator command surface as a cobra tree.
// Each subcommand maps onto one ledger operation, mirroring the slash
// commands of the chat front end.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/deltap/pledgepoints/internal/app"
	"github.com/deltap/pledgepoints/internal/daemon"
	"github.com/deltap/pledgepoints/internal/domain"
	"github.com/deltap/pledgepoints/internal/infra/csvstore"
	"github.com/deltap/pledgepoints/internal/infra/sqlite"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "pledgepoints",
	Short: "Track and moderate pledge point awards",
	Long: `pledgepoints maintains the point ledger for an organization's pledge
program: submissions flow in from chat history, sit pending until a
moderator approves or rejects them, and only approved points count
toward totals and rankings.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"Path to the TOML config file (default ~/.pledgepoints/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// ─── Wiring Helpers ─────────────────────────────────────────────────────────

// openStore builds the configured store backend, bootstrapping the
// backing file on first run.
func openStore(cfg daemon.Config) (domain.Store, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0700); err != nil {
		return nil, nil, fmt.Errorf("create store directory: %w", err)
	}

	switch cfg.Store.Backend {
	case "csv":
		st := &csvstore.Store{Path: cfg.Store.Path, Legacy: cfg.Store.LegacyCSV}
		if err := st.CreateIfMissing(); err != nil {
			return nil, nil, err
		}
		return st, func() error { return nil }, nil
	default:
		db, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	}
}

// newService loads config and wires the service over its store. The
// returned closer releases the store handle.
func newService() (*app.Service, daemon.Config, func(), error) {
	cfg, err := daemon.Load(cfgPath)
	if err != nil {
		return nil, cfg, nil, err
	}
	store, closer, err := openStore(cfg)
	if err != nil {
		return nil, cfg, nil, err
	}
	return app.New(store), cfg, func() { _ = closer() }, nil
}

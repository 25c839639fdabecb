// Package cli implements the handtrack command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/handtrack/internal/config"
	"github.com/ayusman/handtrack/internal/store"
	"github.com/ayusman/handtrack/pkg/logger"
)

// Version is the application version.
const Version = "0.1.0"

var (
	// db holds persisted settings and session history for the running command.
	db *store.Store
	// log is the command logger.
	log *zap.Logger
	// stored is the settings snapshot read at startup.
	stored map[string]string

	dataDir  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "handtrack",
	Short:         "Hand landmark overlay and finger-state tracker",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			dataDir = filepath.Join(home, ".handtrack")
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		var err error
		db, err = store.New(filepath.Join(dataDir, "handtrack.db"))
		if err != nil {
			return fmt.Errorf("failed to open settings store: %w", err)
		}

		stored, err = db.Settings().All()
		if err != nil {
			return fmt.Errorf("failed to read settings: %w", err)
		}

		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			// A broken configuration still needs a logger; commands that
			// require it report the error themselves.
			if cfg, err := config.Load(stored); err == nil {
				level = cfg.LogLevel
			}
		}
		log, err = logger.New(level)
		if err != nil {
			return err
		}
		return nil
	},
}

// shutdown releases what PersistentPreRunE opened. It runs whether or not
// the command succeeded.
func shutdown() {
	if db != nil {
		db.Close()
		db = nil
	}
	if log != nil {
		_ = log.Sync()
	}
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	err := rootCmd.ExecuteContext(ctx)
	shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, config.ErrUnknownSetting) {
			fmt.Fprintln(os.Stderr, "Run 'handtrack settings list' to see the available keys.")
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for the settings database (default ~/.handtrack)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

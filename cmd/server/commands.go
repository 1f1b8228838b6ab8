package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/fleetbase/internal/app"
	"github.com/simp-lee/fleetbase/internal/config"
)

const defaultConfigPath = "configs/config.yaml"

func newRootCommand() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "fleetbase",
		Short:         "Fleet record service for branches, employees and vehicles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultConfigPath, "path to configuration file")

	root.AddCommand(
		newServeCommand(&cfgPath),
		newMigrateCommand(&cfgPath),
		newCheckConfigCommand(&cfgPath),
		newHashKeyCommand(),
		newVersionCommand(),
	)
	return root
}

func newServeCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a, err := app.New(cfg)
			if err != nil {
				return fmt.Errorf("create app: %w", err)
			}
			return a.Run()
		},
	}
}

func newMigrateCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log, err := config.SetupLogger(&cfg.Log)
			if err != nil {
				return fmt.Errorf("setup logger: %w", err)
			}
			defer log.Close()

			db, err := config.SetupDatabase(&cfg.Database, log.Logger)
			if err != nil {
				return fmt.Errorf("setup database: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := app.Migrate(db); err != nil {
				return err
			}
			log.Info("migration completed", slog.String("driver", cfg.Database.Driver))
			return nil
		},
	}
}

func newCheckConfigCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Load and validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config ok: mode=%s driver=%s auth=%t metrics=%t tracing=%t\n",
				cfg.Server.Mode, cfg.Database.Driver, cfg.Auth.Enabled, cfg.Metrics.Enabled, cfg.Tracing.Enabled)
			return nil
		},
	}
}

// newHashKeyCommand prints the bcrypt hash of an API key for
// auth.api_key_hashes. Without an argument it generates a random key first.
func newHashKeyCommand() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-key [key]",
		Short: "Generate a bcrypt hash for an API key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				b := make([]byte, 32)
				if _, err := rand.Read(b); err != nil {
					return fmt.Errorf("generate key: %w", err)
				}
				key = base64.RawURLEncoding.EncodeToString(b)
				fmt.Fprintf(out, "key:  %s\n", key)
			}
			if len(key) < config.MinAPIKeyLength {
				return fmt.Errorf("key must be at least %d characters", config.MinAPIKeyLength)
			}
			if classes := config.CountSecretClasses(key); classes < 3 {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: key uses %d character classes; release mode requires 3 for plain keys\n", classes)
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
			if err != nil {
				return fmt.Errorf("hash key: %w", err)
			}
			fmt.Fprintf(out, "hash: %s\n", hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.Version)
		},
	}
}

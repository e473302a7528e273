package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"todos/internal/config"
	"todos/internal/demo"
	"todos/internal/handlers"
	"todos/internal/logger"
	"todos/internal/store"
)

// Version is reported by --version. Release builds override it with
// -ldflags "-X main.Version=...".
var Version = "dev"

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:           "todos",
		Short:         "In-memory task tracker with a JSON API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd(&flags))
	rootCmd.AddCommand(demoCmd(&flags))
	rootCmd.AddCommand(configCmd(&flags))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger and store it describes.
func setup(ctx context.Context, flags *globalFlags) (*config.Config, *logger.Logger, store.Store, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	log := logger.New(os.Stderr, cfg.Log.Prefix, logger.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	slog.SetDefault(log.Logger)
	if flags.logLevel != "" {
		log.SetLevel(logger.ParseLevel(flags.logLevel))
	}

	s, err := store.Open(ctx, cfg.Store.Backend, cfg.Store.DSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	if sq, ok := s.(*store.SQLiteStore); ok {
		log.Debug("database migrated", "dsn", cfg.Store.DSN, "applied", sq.AppliedMigrations())
	}

	return cfg, log, s, nil
}

func serveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, s, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer s.Close()

			h := handlers.New(s, log.Logger)

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
				Handler:           handlers.NewRouter(h),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("starting server", "addr", "http://localhost"+srv.Addr, "backend", cfg.Store.Backend, "log_level", log.Level())
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown failed: %w", err)
			}
			return nil
		},
	}
}

func demoCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Seed sample tasks and walk through every store operation",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, s, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer s.Close()

			sum, err := demo.Run(cmd.Context(), s, log.Logger)
			if err != nil {
				log.Error("demo failed", "error", logger.FormatError(err))
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created=%d remaining=%d high=%d completed=%d cleared=%d\n",
				sum.Created, sum.Remaining, sum.HighPriority, sum.CompletedByAll, sum.Cleared)
			return nil
		},
	}
}

func configCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}

			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

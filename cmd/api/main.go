package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"activity-booking-service/internal/app"
	"activity-booking-service/internal/config"
	"activity-booking-service/internal/pkg/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[MAIN] No .env file found, relying on system env vars")
	}

	rootCmd := &cobra.Command{
		Use:   "api",
		Short: "Activity booking admin API",
		Long:  `Administration API for agencies, agents, activity staff, activities, bookings and slot availability.`,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var addr, seedFile, store string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			if seedFile != "" {
				cfg.SeedFile = seedFile
			}
			if store != "" {
				cfg.StoreDriver = store
			}

			logger, err := logging.New(cfg.Env)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := app.NewServer(cfg, logger).Start(ctx); err != nil {
				logger.Error("server failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	cmd.Flags().StringVar(&seedFile, "seed", "", "YAML fixture file to load at startup (overrides SEED_FILE)")
	cmd.Flags().StringVar(&store, "store", "", "storage backend: memory or postgres (overrides STORE_DRIVER)")
	return cmd
}

// hashPasswordCmd prints a bcrypt hash for ADMIN_PASSWORD_HASH.
func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
}

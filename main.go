package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"personashop/internal/config"
	"personashop/internal/logging"
	"personashop/internal/models"
	"personashop/internal/repositories"
	"personashop/internal/seed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "personashop",
		Short: "PersonaShop storefront API",
		Long: `PersonaShop serves a product catalogue with shopping carts, orders and
style-profile based recommendations.

Run without a subcommand to start the HTTP server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (default ./personashop.yaml)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), configFile)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(configFile, func(_ *gorm.DB, logger *zap.Logger) error {
					logger.Info("Database schema is up to date")
					fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Load the starter catalogue into an empty database",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(configFile, func(db *gorm.DB, logger *zap.Logger) error {
					created, err := seedCatalogue(db, logger)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products\n", created)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "grant-admin <email>",
			Short: "Give a registered user the admin role",
			Long: `Give a registered user the admin role. Admins may manage the catalogue
and advance any order. The role is picked up on the user's next login.`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(configFile, func(db *gorm.DB, logger *zap.Logger) error {
					if err := grantAdmin(db, logger, args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", args[0])
					return nil
				})
			},
		},
	)
	return rootCmd
}

// setup loads the configuration and builds the logger.
func setup(configFile string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// withDatabase runs fn against a migrated database and closes it afterwards.
func withDatabase(configFile string, fn func(*gorm.DB, *zap.Logger) error) error {
	cfg, logger, err := setup(configFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Error("Failed to open database", zap.Error(err))
		return err
	}
	defer closeDatabase(db)
	return fn(db, logger)
}

func seedCatalogue(db *gorm.DB, logger *zap.Logger) (int, error) {
	return seed.Catalogue(repositories.NewGORMProductRepository(db), logger)
}

func grantAdmin(db *gorm.DB, logger *zap.Logger, email string) error {
	if err := repositories.NewGORMUserRepository(db).UpdateRole(email, models.RoleAdmin); err != nil {
		logger.Error("Failed to grant admin role", zap.String("email", email), zap.Error(err))
		return err
	}
	logger.Info("Admin role granted", zap.String("email", email))
	return nil
}

func runServe(ctx context.Context, configFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := setup(configFile)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Error("Failed to open database", zap.Error(err))
		return err
	}
	defer closeDatabase(db)

	app, err := newApplication(ctx, cfg, db, logger)
	if err != nil {
		logger.Error("Failed to initialize application", zap.Error(err))
		return err
	}
	defer app.close()

	if cfg.SeedOnStart {
		if _, err := seed.Catalogue(app.products, logger); err != nil {
			return fmt.Errorf("failed to seed catalogue: %w", err)
		}
	}

	go app.consumeOrderEvents(ctx)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", describe(cfg)...)
		serverErr <- app.http.Listen(cfg.AppPort)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	if err := app.http.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("Error during Fiber shutdown", zap.Error(err))
	}
	logger.Info("Server gracefully stopped")
	return nil
}

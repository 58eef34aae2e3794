package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mhollins/dutyroster/cmd/cli/commands"
	"github.com/mhollins/dutyroster/internal/config"
	"github.com/mhollins/dutyroster/pkg/postgres"
	"github.com/mhollins/dutyroster/pkg/utils/logging"
)

var (
	env string
	app *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dutyroster",
		Short: "Duty roster CLI - generate shifts and auto-assign staff",
		Long:  `A CLI tool for expanding shift templates, running the automatic staff assignment engine, and checking scheduling conflicts.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.Logger != nil {
					app.Logger.Sync()
				}
				if app.Database != nil {
					app.Database.Close()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.AssignRosterCmd(appRef()))
	rootCmd.AddCommand(commands.GenerateShiftsCmd(appRef()))
	rootCmd.AddCommand(commands.CheckConflictsCmd(appRef()))
	rootCmd.AddCommand(commands.ListTemplatesCmd(appRef()))
	rootCmd.AddCommand(commands.MigrateCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext, creating the empty shell up front so
// commands can capture it before initApp fills it in
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{Ctx: context.Background()}
	}
	return app
}

// initApp sets up logger, config, and the database pool
func initApp() error {
	var err error
	ctx := appRef()

	ctx.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx.Logger.Info("Starting application", zap.String("environment", env))

	// .env is optional; real deployments set DATABASE_URL directly
	if err := godotenv.Load(); err == nil {
		ctx.Logger.Debug("Loaded environment from .env file")
	}

	ctx.Logger.Info("Loading configuration")
	ctx.Cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx.Logger.Debug("Configuration loaded successfully",
		zap.String("department", ctx.Cfg.DepartmentID))

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	ctx.Logger.Info("Connecting to database")
	ctx.Database, err = postgres.NewDB(ctx.Ctx, connString)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	ctx.Logger.Info("Database initialized successfully")

	return nil
}

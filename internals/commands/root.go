// Package commands is the campusevents CLI.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"campusevents_backend/internals/configs"
	database "campusevents_backend/internals/databases"
	"campusevents_backend/internals/logger"
)

var rootCmd = &cobra.Command{
	Use:           "campusevents",
	Short:         "Campus event registration backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(serveCmd, migrateCmd, bootstrapCmd, seedCmd, reindexCmd)
}

// Execute runs the command named on the command line; no args means serve.
func Execute(args []string) error {
	if len(args) == 0 {
		args = []string{"serve"}
	}
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

// loadConfig reads the environment and replaces the bootstrap logger with
// one configured from it.
func loadConfig() *configs.AppConfig {
	logger.Init(logger.DefaultConfig())
	cfg := configs.LoadEnv()
	logger.Init(&logger.Config{
		Level:       cfg.LogLevel,
		ServiceName: "campusevents",
		Development: cfg.IsDevelopment(),
	})
	return cfg
}

func connect(cfg *configs.AppConfig) (*gorm.DB, error) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	database.TunePool(db)
	return db, nil
}

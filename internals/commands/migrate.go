package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	database "campusevents_backend/internals/databases"
	"campusevents_backend/internals/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		defer logger.Sync()

		db, err := connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		logger.L().Info("✅ schema migrated", zap.Int("tables", len(database.Models())))
		return nil
	},
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	database "campusevents_backend/internals/databases"
	"campusevents_backend/internals/logger"
	"campusevents_backend/internals/seeds"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo users, clubs and events into a bootstrapped college",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		defer logger.Sync()

		db, err := connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		res, err := seeds.NewRunner(db, cfg.BcryptCost).RunFile(cmd.Context(), seedFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d clubs, %d events\n", res.Users, res.Clubs, res.Events)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", seeds.DefaultFile, "seed JSON file")
}

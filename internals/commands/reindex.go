package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	database "campusevents_backend/internals/databases"
	"campusevents_backend/internals/features/campus/events/search"
	eventService "campusevents_backend/internals/features/campus/events/service"
	"campusevents_backend/internals/logger"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the event search index from the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		defer logger.Sync()

		if cfg.ElasticsearchURL == "" {
			return errors.New("ELASTICSEARCH_URL is not set")
		}
		index, err := search.NewElasticIndex(cfg.ElasticsearchURL, cfg.ElasticsearchIndex)
		if err != nil {
			return err
		}
		if err := index.EnsureIndex(cmd.Context()); err != nil {
			return err
		}

		db, err := connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		docs, err := eventService.New(db, index, cfg.Currency).AllDocuments(cmd.Context())
		if err != nil {
			return err
		}
		n, err := index.Reindex(cmd.Context(), docs)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d of %d events into %s\n", n, len(docs), cfg.ElasticsearchIndex)
		return nil
	},
}

package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/moviemania/movie-mania-backend/internal/db"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the movie database schema, optionally seeding it from the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		svc, err := db.NewPostgresService(log)
		if err != nil {
			return err
		}
		if err := svc.AutoMigrateAll(); err != nil {
			return err
		}
		pterm.Success.Println("schema migrated")

		if migrateSeed {
			n, err := svc.SeedFromFile(cfg.Data.Dataset)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("seeded %d movies from %s", n, cfg.Data.Dataset)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "seed movies from the configured dataset after migrating")
}

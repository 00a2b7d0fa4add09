package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/config"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/database"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Store != config.StorePostgres {
			return errors.Errorf("migrate needs STORE=%s, got %q", config.StorePostgres, cfg.Store)
		}

		log := logging.New(cfg.LogLevel, cfg.LogFormat)
		db, err := database.New(cfg.Database.DSN(), log)
		if err != nil {
			return err
		}
		defer db.Close()

		return db.Migrate()
	},
}

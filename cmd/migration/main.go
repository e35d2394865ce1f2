package main

import (
	"context"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/contacts-api/internal/config"
	"gitlab.com/dirk.krummacker/contacts-api/internal/logger"
	"gitlab.com/dirk.krummacker/contacts-api/internal/store"
)

// Usage example on the command line:
// > CONTACTS_STORE_DRIVER=mysql CONTACTS_STORE_MYSQL_USER=dirk CONTACTS_STORE_MYSQL_PASSWORD=bullo92 go run main.go schema --file=../../scripts/database.sql
// > CONTACTS_STORE_MONGO_URI=mongodb://localhost:27017 go run main.go seed
func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(config.Default().Log)
		fallback.Fatal().Err(err).Msg("could not load configuration")
	}
	log := logger.New(cfg.Log)

	root := &cobra.Command{
		Use:           "migration",
		Short:         "Prepares the contacts store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(schemaCommand(cfg, log), seedCommand(cfg, log))
	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}

// schemaCommand executes a SQL file against the MySQL database.
func schemaCommand(cfg config.Config, log zerolog.Logger) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Executes a SQL file against the MySQL database",
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, err := store.CreateDatabase(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			db := sqlx.NewDb(sqlDB, "mysql")
			defer db.Close()

			readFile, err := os.Open(file) // nosemgrep
			if err != nil {
				return err
			}
			defer readFile.Close()

			executed, err := store.RunScript(cmd.Context(), db, readFile)
			if err != nil {
				return err
			}
			log.Info().Str("file", file).Int("statements", executed).Msg("schema applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "database.sql", "the sql file to execute")
	return cmd
}

// seedCommand enters the sample contacts into the configured store.
func seedCommand(cfg config.Config, log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Enters sample contacts into the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			contacts, err := store.Open(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer contacts.Close(ctx)

			added, err := store.Seed(ctx, contacts, store.SampleContacts)
			if err != nil {
				return err
			}
			log.Info().Str("driver", cfg.Store.Driver).Int("added", added).Msg("sample contacts entered")
			return nil
		},
	}
}

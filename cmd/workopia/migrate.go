package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vitalvas/workopia/internal/database"
)

func migrateCmd() *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if printOnly {
				fmt.Fprint(cmd.OutOrStdout(), database.Schema())
				return nil
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			db, err := database.Open(ctx, database.Config{
				URL:      cfg.Database.URL,
				MaxConns: cfg.Database.MaxConns,
			})
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(ctx); err != nil {
				return err
			}

			log.Info().Msg("schema applied")

			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "print the schema instead of applying it")

	return cmd
}

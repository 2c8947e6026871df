package cli

import (
	"log"

	"github.com/spf13/cobra"

	"afford-tracker/internal/config"
	"afford-tracker/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		db, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		log.Println("database schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

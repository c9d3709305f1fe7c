package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/camden-git/congoaddressmapper/config"
	"github.com/camden-git/congoaddressmapper/database"
)

func migrateCheckCommand(cfg *config.Config) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "migrate-check",
		Short: "Report tables missing from the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.InitGormDB(cfg.Database)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			missing, err := database.MissingTables(db)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(missing) == 0 {
				fmt.Fprintln(out, "schema is up to date")
				return nil
			}
			fmt.Fprintf(out, "missing tables: %s\n", strings.Join(missing, ", "))
			if !apply {
				return fmt.Errorf("%d tables missing", len(missing))
			}
			if err := database.AutoMigrateModels(db); err != nil {
				return err
			}
			fmt.Fprintln(out, "migrated")
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "create the missing tables")
	return cmd
}

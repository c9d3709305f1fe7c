package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camden-git/congoaddressmapper/auth"
	"github.com/camden-git/congoaddressmapper/config"
)

func seedCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the 26 provinces and the sample addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			repos := newRepositories(cfg.Database)
			defer repos.store.Close()

			demo, err := auth.NewDemoIdentity(cfg.Auth.DemoPassword)
			if err != nil {
				return err
			}
			res, err := repos.seeder().Run(cmd.Context(), demo.Caller())
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d provinces and %d addresses\n", res.Provinces, res.Addresses)
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amaumene/testenv/pkg/repository"
	"github.com/amaumene/testenv/pkg/services"
)

func newRecordCmd(root *rootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Resolve the configuration and store it in the run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			repo, err := repository.Open(dbPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			run, err := services.NewRunService(repo).Record(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), run.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "testenv.db", "run history database")
	return cmd
}

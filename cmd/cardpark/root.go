package main

import (
	"github.com/spf13/cobra"

	"cardpark/internal/tools/common"
	"cardpark/internal/tools/obscheck"
)

func newRootCommand() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "cardpark",
		Short: "Access-code profile directory service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return common.LoadEnvFile(envFile)
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file to load before reading configuration")

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newCardCommand())
	cmd.AddCommand(newProvisionCommand())
	cmd.AddCommand(newLoadgenCommand())
	cmd.AddCommand(obscheck.NewRootCommand())
	return cmd
}

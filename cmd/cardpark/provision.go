package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardpark/internal/config"
	"cardpark/internal/directory"
	"cardpark/internal/lifecycle"
)

func newProvisionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "provision <code>...",
		Short: "Create vacant slots in the directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.DirectoryBackend == config.BackendREST {
				return fmt.Errorf("provisioning is only supported on database backends")
			}

			db, err := directory.OpenGorm(cfg.DirectoryBackend, cfg.DirectoryDSN)
			if err != nil {
				return fmt.Errorf("open directory: %w", err)
			}
			dir := directory.NewGormDirectory(db)

			for _, raw := range args {
				code := lifecycle.NormalizeCode(raw)
				if !lifecycle.ValidCode(code) {
					return fmt.Errorf("%q is not a valid code: expected 5 letters or digits", raw)
				}
				if err := dir.Provision(cmd.Context(), code); err != nil {
					return fmt.Errorf("provision %s: %w", code, err)
				}
				fmt.Println(code)
			}
			return nil
		},
	}
}

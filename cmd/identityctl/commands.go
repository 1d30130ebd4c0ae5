package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thermotrap/identity-service/internal/adapters/security"
	"github.com/thermotrap/identity-service/internal/app/bootstrap"
)

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "configs/default.yaml"
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "identityctl",
		Short:         "Operator tooling for the identity service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to the YAML config file")

	root.AddCommand(
		newMigrateCmd(&configPath),
		newHashPasswordCmd(&configPath),
		newSweepResetsCmd(&configPath),
	)
	return root
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap.NewRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newHashPasswordCmd(configPath *string) *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password <plaintext>",
		Short: "Print a bcrypt hash for seeding principal rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cost == 0 {
				cost = configuredCost(*configPath)
			}
			hash, err := security.NewBcryptHasher(cost).Hash(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost (defaults to the configured BCRYPT_COST)")
	return cmd
}

// configuredCost falls back to the default cost when the full config does not
// resolve, so hashing works without database credentials.
func configuredCost(configPath string) int {
	cfg, err := bootstrap.LoadConfig(configPath)
	if err != nil {
		return security.DefaultBcryptCost
	}
	return cfg.BcryptCost
}

func newSweepResetsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-resets",
		Short: "Delete password-reset states past their retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap.NewRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			removed, err := rt.SweepOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d reset states\n", removed)
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"missionsuivi/internal/platform/postgres"
)

// MigrateCmd applies the embedded schema migrations.
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			applied, err := postgres.Migrate(ctx, e.db)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if len(applied) == 0 {
				fmt.Println(ok("schema up to date"))
				return nil
			}
			for _, v := range applied {
				fmt.Printf("  %s migration %04d\n", ok("APPLIED"), v)
			}
			return nil
		},
	}
	cmd.AddCommand(migrateStatusCmd())
	return cmd
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the deployed and latest schema versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			current, err := postgres.CurrentVersion(ctx, e.db)
			if err != nil {
				return err
			}
			latest := postgres.LatestVersion()
			state := ok("up to date")
			if current < latest {
				state = warn(fmt.Sprintf("%d pending", latest-current))
			}
			fmt.Printf("schema version %s / %d (%s)\n", bold(current), latest, state)

			guard, err := e.guard(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("soft delete: %v\n", guard.Tables())
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"missionsuivi/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "suivictl",
		Short: "Administration tool for the mission follow-up service",
		Long: `suivictl applies schema migrations, imports the bareme and rubric
reference data, exports evaluation workbooks and issues bearer tokens.

Configuration is read from the environment (and .env), as for the server.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.ImportCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.TokenCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

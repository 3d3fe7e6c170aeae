package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"missionsuivi/internal/evaluation/importer"
	"missionsuivi/internal/platform/postgres"
	"missionsuivi/pkg/requestcontext"
)

// ImportCmd loads reference data from the synthesis workbook.
func ImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bareme or rubrics from a synthesis workbook (.xlsx or .xls)",
	}
	cmd.AddCommand(importScaleCmd(), importRubricsCmd())
	return cmd
}

func openImport(cmd *cobra.Command, path string) (*env, *importer.Importer, importer.Workbook, error) {
	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	st, _, err := e.store(ctx)
	if err != nil {
		e.Close()
		return nil, nil, nil, err
	}
	wb, err := importer.Open(path)
	if err != nil {
		e.Close()
		return nil, nil, nil, err
	}
	imp := importer.New(st, postgres.NewTxRunner(e.db),
		importer.WithCache(e.cache(st)),
		importer.WithLogger(e.log),
	)
	return e, imp, wb, nil
}

func importScaleCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "scale",
		Short: "Import the BAREME sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, imp, wb, err := openImport(cmd, file)
			if err != nil {
				return err
			}
			defer e.Close()
			defer wb.Close()

			ctx := requestcontext.WithActor(cmd.Context(), "suivictl", "admin")
			n, err := imp.ImportScale(ctx, wb)
			if err != nil {
				return err
			}
			fmt.Printf("%s %d bareme entries\n", ok("IMPORTED"), n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the synthesis workbook")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func importRubricsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "rubrics",
		Short: "Import the FI, F_QS and F_GAB rubric sheets",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, imp, wb, err := openImport(cmd, file)
			if err != nil {
				return err
			}
			defer e.Close()
			defer wb.Close()

			ctx := requestcontext.WithActor(cmd.Context(), "suivictl", "admin")
			results, err := imp.ImportRubrics(ctx, wb)
			if err != nil {
				return err
			}
			for _, r := range results {
				switch {
				case r.Missing:
					fmt.Printf("  %s %-6s sheet not found\n", warn("SKIP    "), r.Code)
				default:
					fmt.Printf("  %s %-6s %d rubrics\n", ok("IMPORTED"), r.Code, r.Imported)
				}
				if len(r.Skipped) > 0 {
					fmt.Printf("           skipped rows: %s\n", fail(strings.Join(r.Skipped, ", ")))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the synthesis workbook")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

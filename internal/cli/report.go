package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"missionsuivi/internal/evaluation/binder"
	"missionsuivi/internal/evaluation/models"
	"missionsuivi/internal/evaluation/report"
	"missionsuivi/internal/evaluation/service"
	"missionsuivi/internal/platform/postgres"
	id "missionsuivi/pkg/domain"
)

// ReportCmd runs the export pipeline offline and writes the workbook.
func ReportCmd() *cobra.Command {
	var (
		volet                              string
		out                                string
		mission, period, city, branch, ctl int64
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the evaluation workbook for one volet",
		Example: `  suivictl report --volet FI --periode 4 --ville 2
  suivictl report --volet F_GAB --mission 7 --out gab.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			code, err := id.ParseCategoryCode(volet)
			if err != nil {
				return err
			}
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			st, guard, err := e.store(ctx)
			if err != nil {
				return err
			}
			category, err := st.FindCategoryByCode(ctx, code)
			if err != nil {
				return fmt.Errorf("volet %s: %w", code, err)
			}

			svc := service.New(service.Deps{
				Records:  st,
				Refs:     st,
				Cache:    e.cache(st),
				Binder:   binder.New(st, binder.WithLogger(e.log)),
				Tx:       postgres.NewTxRunner(e.db),
				Guard:    guard,
				Renderer: report.NewRenderer(),
			}, service.WithLogger(e.log), service.WithReportTimeout(e.cfg.Server.ReportTimeout))

			f := models.Filter{CategoryID: &category.ID}
			setID(&f.MissionID, mission)
			setID(&f.PeriodID, period)
			setID(&f.CityID, city)
			setID(&f.BranchID, branch)
			setID(&f.InspectorID, ctl)

			rep, err := svc.GenerateReport(ctx, f)
			if err != nil {
				return err
			}
			defer rep.Workbook.Close()

			if out == "" {
				out = report.Filename(time.Now())
			}
			if err := rep.Workbook.SaveAs(out); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("%s %s (%d sheet(s))\n", ok("WROTE"), bold(out), len(rep.Workbook.GetSheetList()))
			return nil
		},
	}
	cmd.Flags().StringVar(&volet, "volet", "", "volet code: FI, F_QS or F_GAB")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default evaluations_<date>.xlsx)")
	cmd.Flags().Int64Var(&mission, "mission", 0, "mission id")
	cmd.Flags().Int64Var(&period, "periode", 0, "period id, resolved to its mission")
	cmd.Flags().Int64Var(&city, "ville", 0, "city id")
	cmd.Flags().Int64Var(&branch, "etablissement", 0, "branch id")
	cmd.Flags().Int64Var(&ctl, "controleur", 0, "inspector id")
	cmd.MarkFlagsMutuallyExclusive("mission", "periode")
	_ = cmd.MarkFlagRequired("volet")
	return cmd
}

func setID[T ~int64](dst **T, v int64) {
	if v > 0 {
		t := T(v)
		*dst = &t
	}
}

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spektr-org/salescope/engine"
	"github.com/spektr-org/salescope/schema"
)

func newReportCmd(a *app) *cobra.Command {
	var showSeries bool

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Compute quality metrics, KPIs and top-N breakdowns",
		Long: `Detect the key columns of a sales file, then compute data quality,
headline KPIs, a revenue time series with a recent-versus-previous
comparison, top products and stores, and automatic alerts.`,
		Example: `  salescope report orders.csv
  salescope report orders.csv --granularity week --top-n 5
  salescope report orders.xlsx -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := a.cfg.Params()
			if err != nil {
				return err
			}

			_, res, err := a.infer(args[0])
			if err != nil {
				return err
			}

			eng := engine.New(engine.WithLogger(a.logger), engine.WithCacheTTL(a.cfg.CacheTTL))
			report, err := eng.Analyze(res, params)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if a.cfg.Output != "table" {
				return renderStructured(w, a.cfg.Output, report)
			}

			renderReport(w, report, showSeries)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSeries, "series", false, "Also print every bucket of the revenue series")
	return cmd
}

func renderReport(w io.Writer, r *engine.Report, showSeries bool) {
	renderTable(w, engine.BuildColumnsTable(r.Mapping))
	renderTable(w, engine.BuildKPITable(r))

	if showSeries && len(r.Series) > 0 {
		renderTable(w, engine.BuildSeriesTable(r.Series, r.Params.Granularity, r.Params.Currency))
	}
	if len(r.TopProducts) > 0 {
		renderTable(w, engine.BuildTopTable(r.TopProducts, "products", r.TopMeasure, r.Params.Currency))
	}
	if len(r.TopStores) > 0 {
		renderTable(w, engine.BuildTopTable(r.TopStores, "stores", r.TopMeasure, r.Params.Currency))
	}

	if !r.Mapping.Has(schema.RoleDate) || !r.Mapping.Has(schema.RoleRevenue) {
		fmt.Fprintln(w, "No time series: a date and a revenue column are both required.")
	}
	for _, alert := range r.Alerts {
		fmt.Fprintf(w, "[%s] %s\n", alert.Level, alert.Message)
	}
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spektr-org/salescope/engine"
	"github.com/spektr-org/salescope/helpers"
	"github.com/spektr-org/salescope/schema"
)

type detectOutput struct {
	Upload      *helpers.Upload      `json:"upload" yaml:"upload"`
	Mapping     schema.Mapping       `json:"mapping" yaml:"mapping"`
	Columns     []schema.SummaryLine `json:"columns" yaml:"columns"`
	Assignments []schema.Assignment  `json:"assignments" yaml:"assignments"`
}

func newDetectCmd(a *app) *cobra.Command {
	var roleName string

	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Detect the key columns of a sales file",
		Long: `Detect which columns of a CSV or XLSX file hold the date, revenue,
quantity, product, store, order and customer.

When no revenue column exists but a unit price and a quantity do, a
computed revenue column (price × quantity) is reported instead.`,
		Example: `  salescope detect orders.csv
  salescope detect orders.xlsx -o json
  salescope detect orders.csv --role revenue`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var role schema.Role
			if roleName != "" {
				role = schema.ParseRole(roleName)
				if role == schema.RoleUnassigned {
					return fmt.Errorf("unknown role %q", roleName)
				}
			}

			up, res, err := a.infer(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if roleName != "" {
				col, ok := res.Mapping.Column(role)
				if !ok {
					return fmt.Errorf("no %s column detected", role)
				}
				fmt.Fprintln(w, col)
				return nil
			}
			if a.cfg.Output != "table" {
				found := res.Mapping.Found()
				if found == nil {
					found = []schema.Assignment{}
				}
				columns := res.Mapping.Summary()
				if columns == nil {
					columns = []schema.SummaryLine{}
				}
				return renderStructured(w, a.cfg.Output, detectOutput{
					Upload:      up,
					Mapping:     res.Mapping,
					Columns:     columns,
					Assignments: found,
				})
			}

			fmt.Fprintf(w, "%s: %d rows, %d columns\n\n", up.Name, up.Table.NumRows(), up.Table.NumColumns())
			td := engine.BuildColumnsTable(res.Mapping)
			if len(td.Rows) == 0 {
				fmt.Fprintln(w, "No key columns detected.")
				return nil
			}
			renderTable(w, td)
			renderTable(w, evidenceTable(res.Mapping))
			return nil
		},
	}

	cmd.Flags().StringVar(&roleName, "role", "", "Print only the column holding this role (date, revenue, quantity, product, store, order, customer, price)")
	return cmd
}

// evidenceTable shows why each column was picked.
func evidenceTable(m schema.Mapping) *engine.TableData {
	td := &engine.TableData{
		Title: "Detection evidence",
		Columns: []engine.Column{
			{Key: "role", Label: "Role", Align: "left"},
			{Key: "column", Label: "Column", Align: "left"},
			{Key: "evidence", Label: "Evidence", Align: "left"},
		},
	}
	for _, as := range m.Found() {
		var evidence string
		switch {
		case as.Synthetic:
			evidence = "computed"
		case as.Role == schema.RoleDate:
			evidence = "parsed " + engine.FormatPercentValue(as.DateRatio*100) + " of samples"
		case as.Keyword != "":
			evidence = "keyword " + strconv.Quote(as.Keyword)
		}
		td.Rows = append(td.Rows, []string{as.Role.String(), as.Column, evidence})
	}
	return td
}

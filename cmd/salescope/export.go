package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/salescope/engine"
	"github.com/spektr-org/salescope/helpers"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the detected key columns to CSV or XLSX",
		Long: `Export only the detected key columns, in the order date, product,
store, order, customer, revenue, quantity.

The format follows --format, else the extension of --out, else CSV.
Without --out the extract is written to stdout.`,
		Example: `  salescope export orders.xlsx --out extract.csv
  salescope export orders.csv --out extract.xlsx
  salescope export orders.csv > extract.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := exportFormat(format, out)
			if err != nil {
				return err
			}

			_, res, err := a.infer(args[0])
			if err != nil {
				return err
			}
			extract := engine.Extract(res.Table, res.Mapping)
			if extract == nil {
				return errors.New("no key columns detected, nothing to export")
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			switch kind {
			case "xlsx":
				err = helpers.WriteXLSX(w, extract, "extract")
			default:
				err = helpers.WriteCSV(w, extract)
			}
			if err != nil {
				return fmt.Errorf("failed to write extract: %w", err)
			}

			a.logger.Debug("extract written",
				"format", kind,
				"rows", extract.NumRows(),
				"columns", extract.Names())
			if out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", extract.NumRows(), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: csv or xlsx")
	return cmd
}

// exportFormat resolves the extract format from the flag or the output name.
func exportFormat(flag, out string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(flag))
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	}
	switch f {
	case "", "csv":
		return "csv", nil
	case "xlsx":
		return "xlsx", nil
	default:
		return "", fmt.Errorf("%w: %q", helpers.ErrUnsupportedFormat, f)
	}
}

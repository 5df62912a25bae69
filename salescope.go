// Package salescope detects the key columns of a sales table with unknown
// headers and computes quality metrics, KPIs and breakdowns over it.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/salescope/engine"
//	    "github.com/spektr-org/salescope/helpers"
//	    "github.com/spektr-org/salescope/schema"
//	)
//
//	up, err := helpers.LoadFile("orders.xlsx", 0)
//	res := schema.Infer(up.Table)
//	report, err := engine.New().Analyze(res, engine.DefaultParams())
//
// Detection is heuristic: the date column is the first text column whose
// sampled values mostly parse as dates, and the other roles are matched by
// header keywords. When no revenue column exists, price × quantity is used.
//
// The cmd/salescope binary wraps the same pipeline as a CLI and HTTP server.
// All computation is local.
package salescope

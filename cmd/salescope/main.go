package main

import (
	"fmt"
	"os"
)

// ============================================================================
// SALESCOPE CLI — Column detection and sales KPIs for any CSV/XLSX export
// ============================================================================

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

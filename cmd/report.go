package cmd

import (
	"fmt"
	"io"

	sim "github.com/procsim/procsim/sim"
)

// renderReport prints an integrity report as stable one-line-per-diagnostic
// text, errors first.
func renderReport(w io.Writer, report *sim.IntegrityReport) {
	errors := report.Errors()
	warnings := report.Warnings()
	if len(errors) == 0 && len(warnings) == 0 {
		fmt.Fprintln(w, "network OK")
		return
	}
	for _, d := range errors {
		fmt.Fprintf(w, "ERROR %s %s\n", d.Code, d.Message)
	}
	for _, d := range warnings {
		fmt.Fprintf(w, "WARNING %s %s\n", d.Code, d.Message)
	}
	fmt.Fprintf(w, "%d error(s), %d warning(s)\n", len(errors), len(warnings))
}

package pipeline

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// FileResult describes one file that made it into its staging table.
type FileResult struct {
	File         string
	Tag          string
	Table        string
	Rows         int64
	Padded       int
	CoerceErrors int
	// Fingerprint is frame.Fingerprint of the loaded rows; equal across
	// re-runs over unchanged input.
	Fingerprint uint64
}

// Exclusion records a file left out of the merge and why.
type Exclusion struct {
	File   string
	Reason string
}

// Report summarizes a run.
type Report struct {
	RunID    string
	Job      string
	Started  time.Time
	Duration time.Duration

	Included []FileResult
	Excluded []Exclusion

	MergedTable string
	MergedRows  int64
}

// StagedRows returns the sum of rows written to staging tables.
func (r *Report) StagedRows() int64 {
	var n int64
	for _, f := range r.Included {
		n += f.Rows
	}
	return n
}

// Print writes a human-readable summary of r to w.
func (r *Report) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "run %s (job %s)\n", r.RunID, r.Job)
	if len(r.Included) > 0 {
		fmt.Fprintln(tw, "FILE\tTABLE\tROWS\tPADDED\tCOERCE ERRORS\tFINGERPRINT")
		for _, f := range r.Included {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%016x\n",
				f.File, f.Table, f.Rows, f.Padded, f.CoerceErrors, f.Fingerprint)
		}
	}
	if r.MergedTable != "" {
		fmt.Fprintf(tw, "merged into %s: %d rows\n", r.MergedTable, r.MergedRows)
	}
	if len(r.Excluded) == 0 {
		fmt.Fprintln(tw, "All files included in merge.")
	} else {
		fmt.Fprintln(tw, "Skipped the following files:")
		for _, e := range r.Excluded {
			fmt.Fprintf(tw, " - %s\t%s\n", e.File, e.Reason)
		}
	}
	return tw.Flush()
}

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roydale/case-study-01-cyclistic/internal/config"
	"github.com/roydale/case-study-01-cyclistic/internal/ddl"
	"github.com/roydale/case-study-01-cyclistic/internal/pipeline"
	"github.com/roydale/case-study-01-cyclistic/internal/schema"
	"github.com/roydale/case-study-01-cyclistic/internal/storage"
	"github.com/roydale/case-study-01-cyclistic/internal/storage/postgres"
	"github.com/roydale/case-study-01-cyclistic/internal/storage/sqlite"
)

func newRunCmd(c *cli) *cobra.Command {
	var metricsBackend string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load every configured export and build the merged table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := c.cfg
			if err := checkConfig(cmd.ErrOrStderr(), p); err != nil {
				return err
			}

			flush := setupMetrics(metricsBackend, p, c.verbose)
			defer flush()

			ctx := cmd.Context()
			start := time.Now()
			if c.verbose {
				log.Printf("pipeline: storage=%s merged=%s batch_size=%d",
					p.Storage.Kind, p.Tables.Merged, p.BatchSize())
			}

			repo, err := storage.New(ctx, storage.Config{Kind: p.Storage.Kind, DSN: p.DSN()})
			if err != nil {
				return err
			}
			defer repo.Close()

			r := &pipeline.Runner{Config: p, Repo: repo, Verbose: c.verbose}
			rep, err := r.Run(ctx)
			if rep != nil {
				if perr := rep.Print(cmd.OutOrStdout()); perr != nil {
					log.Printf("report: %v", perr)
				}
			}
			if err != nil {
				return err
			}
			if c.verbose {
				log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&metricsBackend, "metrics-backend", "", "metrics backend (none, pushgateway, datadog); overrides config and METRICS_BACKEND")
	return cmd
}

func newValidateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the pipeline configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkConfig(cmd.ErrOrStderr(), c.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid: %s\n", describePath(c.cfgPath))
			return nil
		},
	}
}

func newDDLCmd(c *cli) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Print the CREATE TABLE statements a run would execute",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := c.cfg
			if kind == "" {
				kind = p.Storage.Kind
			}
			d, err := dialectFor(kind)
			if err != nil {
				return err
			}

			tables := make([]string, 0, len(p.Files)+1)
			for _, f := range p.Files {
				tag, err := schema.ProvenanceTag(f.Name)
				if err != nil {
					return err
				}
				tables = append(tables, p.StagingTable(tag))
			}
			tables = append(tables, p.Tables.Merged)

			w := cmd.OutOrStdout()
			for _, t := range tables {
				stmt, err := d.CreateTableSQL(ddl.ForCanonical(t, schema.Columns, d.MapType))
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\n%s\n\n", d.DropTableSQL(t), stmt)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "render for this storage kind instead of storage.kind")
	return cmd
}

func newFilesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List the configured exports with their tags, mappings and tables",
		Long:  "Lists the configured exports. PRESENT tells whether each file exists under the raw directory; it reads \"remote\" when raw_url is set.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := c.cfg
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tTAG\tMAPPING\tTABLE\tPRESENT")
			for _, f := range p.Files {
				tag, table := "-", "-"
				if t, err := schema.ProvenanceTag(f.Name); err == nil {
					tag, table = t, p.StagingTable(t)
				}
				present := "no"
				if strings.TrimSpace(p.RawURL) != "" {
					present = "remote"
				} else if _, err := os.Stat(filepath.Join(p.RawPath(), f.Name)); err == nil {
					present = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.Name, tag, f.Mapping, table, present)
			}
			return tw.Flush()
		},
	}
}

// checkConfig prints every issue as "severity: path: message" and fails when
// any of them is an error.
func checkConfig(w io.Writer, p config.Pipeline) error {
	issues := config.ValidatePipeline(p, nil)
	for _, iss := range issues {
		fmt.Fprintf(w, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return errors.New("configuration is invalid")
	}
	return nil
}

func dialectFor(kind string) (storage.Dialect, error) {
	switch strings.TrimSpace(kind) {
	case sqlite.Kind:
		return sqlite.Dialect{}, nil
	case postgres.Kind:
		return postgres.Dialect{}, nil
	}
	return nil, fmt.Errorf("unsupported storage.kind=%s", kind)
}

func describePath(p string) string {
	if p == "" {
		return "(built-in defaults)"
	}
	return p
}

// Command tripload normalizes the quarterly trip exports into staging tables
// and one merged table.
//
// Usage:
//
//	tripload run      [--config pipeline.yaml] [-v] [--metrics-backend none|pushgateway|datadog]
//	tripload validate [--config pipeline.yaml]
//	tripload ddl      [--config pipeline.yaml] [--kind sqlite|postgres]
//	tripload files    [--config pipeline.yaml]
//
// Without --config the compiled-in defaults are used: the five exports under
// ../data/raw loaded into ../data/cyclistic.db.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roydale/case-study-01-cyclistic/internal/config"
	_ "github.com/roydale/case-study-01-cyclistic/internal/storage/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

// cli holds state shared by the subcommands.
type cli struct {
	cfgPath string
	verbose bool
	cfg     config.Pipeline
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "tripload",
		Short:         "Normalize quarterly trip exports into a single table",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.Load(c.cfgPath)
			if err != nil {
				return err
			}
			c.cfg = p
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "pipeline config path (.json, .yaml); defaults are used when empty")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logs")

	root.AddCommand(
		newRunCmd(c),
		newValidateCmd(c),
		newDDLCmd(c),
		newFilesCmd(c),
	)
	return root
}

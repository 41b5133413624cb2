package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dbccheck/pkg/pipeline"
	"github.com/matzehuels/dbccheck/pkg/store"
)

type checkOpts struct {
	extreme float64
	refresh bool
	record  bool
	quiet   bool
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	opts := checkOpts{}

	cmd := &cobra.Command{
		Use:   "check <design>",
		Short: "Precheck a DBC layout and print the report",
		Long: `Precheck a DBC layout design (JSON or YAML).

The report JSON is written to stdout. The command exits with status 1 when
the layout has violations or the design is malformed.`,
		Example: `  dbccheck check module.json
  dbccheck check module.yaml --extreme 5000
  dbccheck check module.json --record > report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.extreme, "extreme", pipeline.DefaultExtreme, "coordinate that cut sentinels extend to")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached report exists")
	cmd.Flags().BoolVar(&opts.record, "record", false, "record the run in the history store")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "print only the report JSON")

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, input string, opts checkOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadedConfig()
	if err != nil {
		return err
	}
	runner, ch, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer ch.Close()

	extreme := extremeFlag(cmd, opts.extreme, cfg)
	prog := newProgress(c.Logger)
	res, err := runner.Run(ctx, pipeline.Options{
		Input:   input,
		Extreme: extreme,
		Refresh: opts.refresh,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Checked %s", input))

	var buf bytes.Buffer
	if err := res.Report.Write(&buf); err != nil {
		return err
	}
	if err := writeOut(c.Stdout, buf.Bytes()); err != nil {
		return err
	}

	if opts.record {
		c.record(cmd, cfg, res, extreme)
	}

	if !opts.quiet {
		printReport(res.Report)
		printRunStats(res.Stats.ZoneCount, res.Stats.ChipCount, res.CacheInfo.ReportHit)
		if !res.Report.OK {
			printNextStep("Browse violations", "dbccheck inspect "+input)
		}
	}
	return pipeline.Gate(res.Report)
}

// record stores the run in the history store. Failures are reported but do
// not fail the check.
func (c *CLI) record(cmd *cobra.Command, cfg *Config, res *pipeline.Result, extreme float64) {
	ctx := cmd.Context()
	st, err := c.newStore(ctx, cfg)
	if err != nil {
		printWarning("history unavailable: %v", err)
		return
	}
	if st == nil {
		printWarning("history is not configured (set history.mongo_uri)")
		return
	}
	defer st.Close(ctx)
	if err := st.Record(ctx, store.FromResult(res, store.SourceCLI, extreme)); err != nil {
		printWarning("record history: %v", err)
		return
	}
	c.Logger.Debug("recorded run", "run_id", res.RunID)
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dbccheck/pkg/pipeline"
	"github.com/matzehuels/dbccheck/pkg/report"
)

type inspectOpts struct {
	extreme float64
	report  string
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{}

	cmd := &cobra.Command{
		Use:   "inspect [design]",
		Short: "Browse precheck violations interactively",
		Long: `Run the precheck on a design and browse its violations in the terminal.

With --report an existing report JSON (as written by "dbccheck check") is
opened instead.`,
		Example: `  dbccheck inspect module.json
  dbccheck inspect --report report.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.report == "" && len(args) == 0 {
				return fmt.Errorf("a design or --report is required")
			}
			return c.runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.extreme, "extreme", pipeline.DefaultExtreme, "coordinate that cut sentinels extend to")
	cmd.Flags().StringVar(&opts.report, "report", "", "open an existing report JSON")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, args []string, opts inspectOpts) error {
	var (
		rep   *report.Report
		title string
	)
	if opts.report != "" {
		data, err := os.ReadFile(opts.report)
		if err != nil {
			return fmt.Errorf("read report: %w", err)
		}
		if rep, err = report.Unmarshal(data); err != nil {
			return fmt.Errorf("parse report %s: %w", opts.report, err)
		}
		title = filepath.Base(opts.report)
	} else {
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
		res, err := runner.Run(ctx, pipeline.Options{
			Input:   args[0],
			Extreme: extremeFlag(cmd, opts.extreme, cfg),
		})
		if err != nil {
			return err
		}
		rep = res.Report
		title = filepath.Base(args[0])
	}

	if rep.OK {
		printSuccess("%s: %s", title, rep.Summary)
		return nil
	}

	p := tea.NewProgram(NewInspectModel(title, rep), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	return nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dbccheck/pkg/store"
)

type historyOpts struct {
	template string
	failed   bool
	limit    int
	json     bool
}

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	opts := historyOpts{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded precheck runs",
		Long: `List precheck runs recorded with "check --record" or by the HTTP service,
newest first. Requires history.mongo_uri in the config file.`,
		Example: `  dbccheck history --failed
  dbccheck history --template half_bridge --limit 5 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.template, "template", "", "only runs of this design template")
	cmd.Flags().BoolVar(&opts.failed, "failed", false, "only runs with violations")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", store.DefaultLimit, "maximum number of runs")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")

	return cmd
}

func (c *CLI) runHistory(cmd *cobra.Command, opts historyOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadedConfig()
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Connecting to history store...")
	spinner.Start()
	st, err := c.newStore(ctx, cfg)
	spinner.Stop()
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("history is not configured (set history.mongo_uri)")
	}
	defer st.Close(ctx)

	recs, err := st.List(ctx, store.ListOptions{
		TemplateID: opts.template,
		OnlyFailed: opts.failed,
		Limit:      opts.limit,
	})
	if err != nil {
		return err
	}

	if opts.json {
		if recs == nil {
			recs = []*store.Record{}
		}
		data, err := json.MarshalIndent(recs, "", "  ")
		if err != nil {
			return err
		}
		return writeOut(c.Stdout, append(data, '\n'))
	}
	if len(recs) == 0 {
		printInfo("No recorded runs")
		return nil
	}
	return writeOut(c.Stdout, []byte(historyTable(recs)+"\n"))
}

// historyTable renders records as a table.
func historyTable(recs []*store.Record) string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		verdict := "ok"
		if !r.OK {
			verdict = "fail"
		}
		rows[i] = []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.TemplateID,
			verdict,
			strconv.Itoa(r.Violations),
			r.Source,
			r.ID,
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("When", "Template", "Result", "Issues", "Source", "Run").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 {
				if recs[row].OK {
					return StyleSuccess
				}
				return StyleError
			}
			if col == 5 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

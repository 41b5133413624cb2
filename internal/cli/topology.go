package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dbccheck/pkg/cache"
	"github.com/matzehuels/dbccheck/pkg/design"
	"github.com/matzehuels/dbccheck/pkg/pipeline"
	"github.com/matzehuels/dbccheck/pkg/topology"
)

// Topology output formats.
const (
	formatDOT    = "dot"
	formatSVG    = "svg"
	formatMatrix = "matrix"
)

type topologyOpts struct {
	format string
	output string
	module bool
}

// topologyCommand creates the topology command.
func (c *CLI) topologyCommand() *cobra.Command {
	opts := topologyOpts{}

	cmd := &cobra.Command{
		Use:   "topology <design>",
		Short: "Render the connection graph of a layout",
		Long: `Render the dbc_connections graph (or module_connections with --module).

Edges that bind a chip to its zone are highlighted. Formats:
  dot     Graphviz source
  svg     rendered graph
  matrix  entity x entity weight matrix as JSON`,
		Example: `  dbccheck topology module.json --format svg -o topology.svg
  dbccheck topology module.json --module --format matrix`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTopology(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatDOT, "output format: dot, svg, matrix")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.module, "module", false, "use module_connections")

	return cmd
}

func (c *CLI) runTopology(cmd *cobra.Command, input string, opts topologyOpts) error {
	ctx := cmd.Context()
	d, err := design.Load(input)
	if err != nil {
		return err
	}

	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(topology.ToDOT(d.Topology, c.topologyOptions(d, opts)))
	case formatMatrix:
		conns, entities := d.Topology.DBCConnections, d.Topology.DBCEntities
		if opts.module {
			conns, entities = d.Topology.ModuleConnections, d.Topology.ModuleEntities
		}
		data, err = json.MarshalIndent(topology.NewMatrix(conns, entities), "", "  ")
		data = append(data, '\n')
	case formatSVG:
		data, err = c.renderTopologySVG(ctx, d, opts)
	default:
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, matrix)", opts.format)
	}
	if err != nil {
		return err
	}

	if opts.output == "" {
		return writeOut(c.Stdout, data)
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %s topology", opts.format)
	printFile(opts.output)
	return nil
}

func (c *CLI) topologyOptions(d *design.Design, opts topologyOpts) topology.Options {
	return topology.Options{Binding: topology.Bind(d.Topology), Module: opts.module}
}

// renderTopologySVG renders through Graphviz, reusing a cached SVG of the
// same design when one exists.
func (c *CLI) renderTopologySVG(ctx context.Context, d *design.Design, opts topologyOpts) ([]byte, error) {
	cfg, err := c.loadedConfig()
	if err != nil {
		return nil, err
	}
	ch, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer ch.Close()

	hash, err := pipeline.DesignHash(d)
	if err != nil {
		return nil, err
	}
	variant := formatSVG
	if opts.module {
		variant += ":module"
	}
	key := newKeyer(cfg).TopologyKey(hash, variant)
	if data, hit, err := ch.Get(ctx, key); err == nil && hit {
		c.Logger.Debug("topology cache hit", "key", key)
		return data, nil
	}

	spinner := newSpinnerWithContext(ctx, "Rendering topology...")
	spinner.Start()
	svg, err := topology.RenderSVG(ctx, topology.ToDOT(d.Topology, c.topologyOptions(d, opts)))
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	if err := ch.Set(ctx, key, svg, cache.TTLTopology); err != nil {
		c.Logger.Warn("cache write failed", "err", err)
	}
	return svg, nil
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dbccheck/pkg/design"
	"github.com/matzehuels/dbccheck/pkg/export"
	"github.com/matzehuels/dbccheck/pkg/pipeline"
	"github.com/matzehuels/dbccheck/pkg/zone"
)

type zonesOpts struct {
	extreme float64
	dxf     string
	labels  bool
}

// zonesCommand creates the zones command.
func (c *CLI) zonesCommand() *cobra.Command {
	opts := zonesOpts{}

	cmd := &cobra.Command{
		Use:   "zones <design>",
		Short: "List the copper zones of a layout",
		Long: `List the copper zones derived from the substrate, gate slots and cuts.

Each zone is printed as JSON with its area, centroid, bounding box and the
chips bound to it. With --dxf the zones and die footprints are also written
to a DXF drawing for review in CAD tools.`,
		Example: `  dbccheck zones module.json
  dbccheck zones module.json --dxf layout.dxf --labels`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runZones(cmd, args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.extreme, "extreme", pipeline.DefaultExtreme, "coordinate that cut sentinels extend to")
	cmd.Flags().StringVar(&opts.dxf, "dxf", "", "write zones and chips to this DXF file")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label zones and chips in the DXF drawing")

	return cmd
}

func (c *CLI) runZones(cmd *cobra.Command, input string, opts zonesOpts) error {
	cfg, err := c.loadedConfig()
	if err != nil {
		return err
	}
	d, err := design.Load(input)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	res, err := pipeline.Check(d, extremeFlag(cmd, opts.extreme, cfg))
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built %d zones", len(res.Zones)))

	data, err := json.MarshalIndent(export.Zones(res.Zones, res.Binding.ByZone()), "", "  ")
	if err != nil {
		return err
	}
	if err := writeOut(c.Stdout, append(data, '\n')); err != nil {
		return err
	}

	if opts.dxf != "" {
		err := export.WriteDXF(opts.dxf, res.Zones, res.Chips, export.DXFOptions{
			Outline: zone.Base(d),
			Labels:  opts.labels,
		})
		if err != nil {
			return err
		}
		printSuccess("Wrote DXF drawing")
		printFile(opts.dxf)
	}
	return nil
}

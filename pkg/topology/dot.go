package topology

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dbccheck/pkg/design"
)

// Options configures connection graph rendering.
type Options struct {
	// Binding marks the edges that establish chip ownership.
	Binding Binding
	// Module renders module_connections instead of dbc_connections.
	Module bool
}

// ToDOT converts the connection graph of t to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(t design.Topology, opts Options) string {
	conns, entities := t.DBCConnections, t.DBCEntities
	if opts.Module {
		conns, entities = t.ModuleConnections, t.ModuleEntities
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, e := range entities {
		fmt.Fprintf(&buf, "  %q [%s];\n", e, strings.Join(nodeAttrs(e), ", "))
	}

	buf.WriteString("\n")
	for _, c := range conns {
		var attrs []string
		if c.Value != 1 {
			attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(c.Value, 'g', -1, 64)))
		}
		if z, ok := opts.Binding[c.Target]; ok && z == c.Source && c.Value == 1 {
			attrs = append(attrs, "penwidth=2.5", "color=\"#1f6feb\"")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", c.Source, c.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", c.Source, c.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(id string) []string {
	attrs := []string{fmt.Sprintf("label=%q", id)}
	switch {
	case strings.HasPrefix(id, design.PrefixZone):
		attrs = append(attrs, "fillcolor=\"#fde68a\"")
	case strings.HasPrefix(id, design.PrefixIGBT):
		attrs = append(attrs, "fillcolor=\"#bfdbfe\"")
	case strings.HasPrefix(id, design.PrefixFWD):
		attrs = append(attrs, "fillcolor=\"#bbf7d0\"")
	default:
		attrs = append(attrs, "shape=ellipse", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element to a zero-origin viewBox with
// matching pixel size so the SVG scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

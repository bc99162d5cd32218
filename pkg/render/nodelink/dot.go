package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/selfmap/pkg/errors"
	"github.com/matzehuels/selfmap/pkg/layout"
	"github.com/matzehuels/selfmap/pkg/render"
)

// Options configures node-link diagram generation.
type Options struct {
	// Detailed adds strength and title lines to node labels.
	Detailed bool
}

// ToDOT converts points to an undirected Graphviz graph with one edge per
// pair of points.
func ToDOT(points []layout.Point, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, color=white, penwidth=2, fontname=\"Helvetica\", fontsize=12, fontcolor=\"#4B5563\"];\n")
	buf.WriteString("  edge [style=dashed, penwidth=1];\n")
	buf.WriteString("\n")

	for _, p := range points {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q, width=%s];\n",
			p.Name, fmtLabel(p, opts.Detailed), p.Color, strconv.FormatFloat(nodeWidth(p), 'f', 2, 64))
	}

	buf.WriteString("\n")
	for i, a := range points {
		for _, b := range points[i+1:] {
			fmt.Fprintf(&buf, "  %q -- %q [color=%q];\n", a.Name, b.Name, a.Color+"33")
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeWidth scales node diameter (inches) with strength, like the chart's
// distance to center.
func nodeWidth(p layout.Point) float64 {
	return 0.6 + 0.08*float64(max(p.Strength, 0))
}

func fmtLabel(p layout.Point, detailed bool) string {
	if !detailed {
		return p.Name
	}
	label := fmt.Sprintf("%s\n%d/10", p.Name, p.Strength)
	if p.Details != nil && p.Details.Title != "" {
		label += "\n" + p.Details.Title
	}
	return label
}

// RenderSVG renders a DOT graph to SVG using Graphviz's circo layout.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.CIRCO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render graph")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a plain
// pixel viewport.
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

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

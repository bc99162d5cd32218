// Package nodelink exports an identity chart's relationship graph as a
// node-link diagram.
//
// # Overview
//
// Hovering a point on a live chart connects it to every other point. Taken
// together those connections form a complete graph over the categories; this
// package writes that graph as Graphviz DOT and renders it with
// github.com/goccy/go-graphviz using the circular (circo) layout.
//
//	dot := nodelink.ToDOT(points, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # Options
//
//   - Detailed: node labels include strength and, when present, the title
//
// Nodes are filled with the category's palette color and sized by strength;
// edges are dashed and drawn in the source point's color at low opacity,
// matching the hover lines of the live chart.
//
// PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink

// Package svg encodes identity charts as SVG documents.
//
// A [Surface] is a [headless.Surface] that can serialize its retained elements
// with github.com/ajstarks/svgo:
//
//	s := svg.New(svg.WithInteraction())
//	render.Render(s, points, dims, render.Primary, render.WithLinks(href))
//	os.WriteFile("chart.svg", s.Bytes(), 0o644)
//
// # Interaction
//
// [WithInteraction] embeds a small stylesheet and script so the document
// behaves like a live chart in a browser: hovering a point grows it, shows
// its tooltip and draws dashed lines to every other point; leaving removes
// them again; clicking follows the point's Href when one was rendered.
//
// # Element Ids
//
// Every Surface gets a random id (github.com/google/uuid) that prefixes its
// gradient and pattern ids, so several charts can share one HTML page.
//
// [headless.Surface]: github.com/matzehuels/selfmap/pkg/render/headless.Surface
package svg

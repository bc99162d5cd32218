// Package render draws identity charts onto abstract drawing surfaces.
//
// # Overview
//
// The renderer is split in two halves:
//
//   - [Surface]: a small backend-neutral drawing interface. Implementations
//     live in subpackages: [headless] keeps a retained element store for tests
//     and terminal views, [svg] encodes SVG documents, [raster] paints PNGs.
//   - [Render]: one render pass that clears a surface and draws grid and axes,
//     glow halos, points, labels, legend, title and subtitle, in that order.
//
//	s := svg.New()
//	chart := render.Render(s, layout.Compute(m), render.PrimaryDimensions(), render.Primary)
//	doc := s.Bytes()
//
// # Coordinates
//
// All primitives are given in absolute surface pixels. [Render] places the
// plot area inside [Dimensions] margins; the legend sits inside the right
// margin, the title and subtitle inside the top margin.
//
// # Handles
//
// Every draw call returns a [Handle]. Callers that add transient elements
// (relationship lines, tooltips) keep the handles they were given and
// [Surface.Remove] exactly those, so no global queries are needed.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG documents using the external rsvg-convert
// tool (from librsvg).
//
// [headless]: github.com/matzehuels/selfmap/pkg/render/headless
// [svg]: github.com/matzehuels/selfmap/pkg/render/svg
// [raster]: github.com/matzehuels/selfmap/pkg/render/raster
package render

// Package pkg provides the core libraries for selfmap identity charts.
//
// # Overview
//
// Selfmap draws a personal identity map, a set of named categories each with
// a strength from 1 to 10, as a radial scatter chart. Strong categories sit
// near the center. Hovering a point shows its details and connects it to the
// others; selecting one opens a drill-down chart of its sub-aspects.
//
// # Architecture
//
// The typical data flow:
//
//	identity map (JSON / TOML / sample)
//	         ↓
//	    [layout] package (angles, radii, sizes, colors)
//	         ↓
//	    [render] package (chart scene onto a Surface)
//	         ↓
//	    SVG / PNG / PDF / JSON / DOT output, or a live view
//
// # Quick Start
//
//	m := identity.Sample()
//	points := layout.Compute(m)
//
//	s := svg.New(svg.WithInteraction())
//	render.Render(s, points, render.PrimaryDimensions(), render.Primary)
//	os.WriteFile("map.svg", s.Bytes(), 0o644)
//
// # Main Packages
//
// ## Domain
//
// [identity] - The ordered category map and its JSON/TOML readers.
//
// [layout] - Radial and bucketed point placement and the categorical palette.
//
// [drilldown] - Curated and placeholder sub-aspects of a category.
//
// ## Rendering
//
// [render] - Chart scene construction over the [render.Surface] interface,
// with headless, SVG, raster and Graphviz node-link backends.
//
// [interact] - Hover, tooltip, relationship-line and click behavior of one
// chart.
//
// [viz] - The two-chart controller: selection, deferred drill-down and back.
//
// ## Infrastructure
//
// [pipeline] - Layout and render orchestration with caching.
//
// [cache] - File, redis and null caches plus key derivation.
//
// [config] - Layered configuration (defaults, YAML file, environment).
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Coded errors shared by the CLI and the server.
//
// [buildinfo] - Version information stamped at build time.
package pkg

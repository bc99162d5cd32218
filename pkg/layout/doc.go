// Package layout turns an Identity Map into positioned chart points.
//
// # Overview
//
// [Compute] assigns every category of an [identity.Map] a [Point] holding its
// position in an abstract [-10, 10] × [-10, 10] domain, a pixel radius and a
// palette color. Points are returned in the map's insertion order.
//
//	points := layout.Compute(m, layout.WithMode(layout.Bucketed))
//
// # Placement
//
// Categories are spread evenly around the circle by index:
//
//	angle  = 2π · index / count
//	radius = 10 - strength
//
// A strength of 10 sits at the center and a strength of 0 on the domain
// boundary, so radial distance never grows as strength rises.
//
// # Size Modes
//
// Two size policies are available:
//
//   - [Radial] (default): size = 11 - strength
//   - [Bucketed]: base × 1.8 for strength 10, base × 1.4 for strength ≥ 5,
//     else base. The base is 7, or 6 with [WithBaseSize] for drill-down charts.
//
// # Scales
//
// [NewScales] maps domain coordinates onto the plot area of a chart: x runs
// left to right across [0, width], y is inverted onto [height, 0] so positive
// values render upward.
//
// # Colors
//
// [Ordinal] hands out palette colors by first-seen name order, cycling when
// the palette runs out. The same Ordinal colors points and legend swatches.
package layout

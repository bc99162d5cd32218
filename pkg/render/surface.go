package render

import "time"

// Handle identifies an element drawn on a [Surface]. The zero Handle refers to
// nothing; operations on it are no-ops.
type Handle uint64

// NoHandle is the zero Handle.
const NoHandle Handle = 0

// Kind classifies drawn elements.
type Kind string

const (
	KindGrid    Kind = "grid"
	KindGlow    Kind = "glow"
	KindPoint   Kind = "point"
	KindText    Kind = "text"
	KindLegend  Kind = "legend"
	KindLine    Kind = "line"
	KindTooltip Kind = "tooltip"
)

// Surface is a caller-owned drawing target.
//
// Surfaces are not safe for concurrent use. Implementations must treat an
// unknown or removed Handle as a no-op.
type Surface interface {
	// Clear discards every element and resets the viewport size.
	Clear(width, height float64)

	DrawGrid(g Grid) Handle
	DrawGlow(g Glow) Handle
	DrawPoint(d Dot) Handle
	DrawText(t Text) Handle
	DrawLegend(l Legend) Handle

	// DrawLine adds a line below every point.
	DrawLine(l Line) Handle

	// ShowTooltip adds a tooltip above every other element.
	ShowTooltip(t Tooltip) Handle

	// Resize changes a point's radius, transitioning over d where the
	// backend animates.
	Resize(h Handle, radius float64, d time.Duration)

	Remove(h Handle)

	Size() (width, height float64)
}

// =============================================================================
// Primitives
// =============================================================================

// Grid is the plot background: a square cell pattern plus crosshair axes.
type Grid struct {
	X, Y          float64 // plot area origin
	Width, Height float64 // plot area size
	Pitch         float64 // cell size
	Color         string
	Opacity       float64

	OriginX, OriginY float64 // where the axes cross
	AxisColor        string
	XTicks, YTicks   []Tick
}

// Tick is one axis tick: its pixel position along the axis and its label.
type Tick struct {
	Pos   float64
	Label string
}

// Glow is a soft white radial halo drawn beneath a point.
type Glow struct {
	CX, CY, R float64
	Opacity   float64 // opacity at the center, fading to zero at R
}

// Dot is a filled, stroked point.
type Dot struct {
	Name        string
	CX, CY, R   float64
	Fill        string
	Stroke      string
	StrokeWidth float64

	// Tooltip and Href are used by backends that embed their own interaction.
	Tooltip Tooltip
	Href    string
}

// Anchor is a text alignment.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Text is a single line of text anchored at (X, Y) on its baseline.
type Text struct {
	X, Y    float64
	Content string
	Size    float64
	Color   string
	Anchor  Anchor
	Bold    bool
	Class   string // "label", "title" or "subtitle"
}

// Legend is a column of color swatches with names.
type Legend struct {
	X, Y         float64
	RowHeight    float64
	Swatch       float64
	CornerRadius float64
	TextColor    string
	TextSize     float64
	Rows         []LegendRow
}

// LegendRow is one legend entry.
type LegendRow struct {
	Name  string
	Color string
}

// Line is a straight segment.
type Line struct {
	X1, Y1, X2, Y2 float64
	Color          string
	Width          float64
	Opacity        float64
	Dash           []float64
	Owner          string // name of the point the line was drawn for
}

// Tooltip is a floating info box.
type Tooltip struct {
	X, Y   float64
	Title  string
	Swatch string
	Lines  []string
}

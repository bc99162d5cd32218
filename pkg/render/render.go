package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/selfmap/pkg/layout"
)

// Visual constants of the chart.
const (
	GridPitch    = 40.0
	GridOpacity  = 0.2
	GridColor    = "#e5e7eb"
	AxisColor    = "#4b5563"
	TickStep     = 2.0
	GlowOpacity  = 0.4
	GlowScale    = 2.0
	PointStroke  = "#ffffff"
	StrokeWidth  = 2.0
	LabelColor   = "#4B5563"
	LabelSize    = 12.0
	LabelOffset  = 5.0
	TitleColor   = "#333"
	TitleSize    = 24.0
	SubtitleSize = 14.0
	MutedColor   = "#666"
)

// Legend geometry.
const (
	LegendOffsetX   = 20.0
	LegendOffsetY   = 20.0
	LegendRowHeight = 25.0
	LegendSwatch    = 18.0
	LegendRadius    = 4.0
)

// Variant distinguishes the overview chart from a drill-down chart.
type Variant int

const (
	Primary Variant = iota
	Secondary
)

func (v Variant) String() string {
	if v == Secondary {
		return "secondary"
	}
	return "primary"
}

// Title returns the default title for the variant. category is only used by
// [Secondary].
func (v Variant) Title(category string) string {
	if v == Secondary {
		if category == "" {
			return "Details"
		}
		return category + " Details"
	}
	return "Personal Identity Map"
}

// Subtitle returns the subtitle drawn under the title.
func (v Variant) Subtitle() string {
	if v == Secondary {
		return "Detailed breakdown of selected identity aspect"
	}
	return "Exploring the dimensions of self-identity and personal values"
}

// Option configures a render pass.
type Option func(*renderer)

type renderer struct {
	title    string
	category string
	subtitle string
	links    func(name string) string
}

// WithTitle overrides the title text.
func WithTitle(s string) Option { return func(r *renderer) { r.title = s } }

// WithCategory names the category a secondary chart details.
func WithCategory(name string) Option { return func(r *renderer) { r.category = name } }

// WithSubtitle overrides the subtitle text.
func WithSubtitle(s string) Option { return func(r *renderer) { r.subtitle = s } }

// WithLinks sets a click target per point for backends that embed navigation.
func WithLinks(fn func(name string) string) Option { return func(r *renderer) { r.links = fn } }

// Mark is a rendered point with its pixel position and element handles.
type Mark struct {
	Point layout.Point
	X, Y  float64
	Dot   Handle
	Glow  Handle
	Label Handle
}

// Chart describes the outcome of one render pass.
type Chart struct {
	Variant Variant
	Dims    Dimensions
	Scales  layout.Scales
	OriginX float64 // plot area left edge
	OriginY float64 // plot area top edge
	Title   string
	Marks   []Mark
	Legend  Handle
}

// Len returns the number of rendered points.
func (c *Chart) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Marks)
}

// Mark returns the mark for name.
func (c *Chart) Mark(name string) (Mark, bool) {
	if c == nil {
		return Mark{}, false
	}
	for _, m := range c.Marks {
		if m.Point.Name == name {
			return m, true
		}
	}
	return Mark{}, false
}

// HitTest returns the topmost mark whose circle contains (x, y).
func (c *Chart) HitTest(x, y float64) (Mark, bool) {
	if c == nil {
		return Mark{}, false
	}
	for i := len(c.Marks) - 1; i >= 0; i-- {
		m := c.Marks[i]
		if math.Hypot(x-m.X, y-m.Y) <= m.Point.Size {
			return m, true
		}
	}
	return Mark{}, false
}

// Render clears s and draws points into it. A nil surface yields a nil chart.
// Rendering the same points twice produces the same scene.
func Render(s Surface, points []layout.Point, dims Dimensions, v Variant, opts ...Option) *Chart {
	if s == nil {
		return nil
	}
	r := renderer{}
	for _, opt := range opts {
		opt(&r)
	}
	title := r.title
	if title == "" {
		title = v.Title(r.category)
	}
	subtitle := r.subtitle
	if subtitle == "" {
		subtitle = v.Subtitle()
	}

	c := &Chart{
		Variant: v,
		Dims:    dims,
		Scales:  dims.Scales(),
		OriginX: dims.Margin.Left,
		OriginY: dims.Margin.Top,
		Title:   title,
		Marks:   make([]Mark, len(points)),
	}

	s.Clear(dims.Width, dims.Height)
	s.DrawGrid(c.grid())

	for i, p := range points {
		x, y := c.Scales.Pixel(p)
		c.Marks[i] = Mark{Point: p, X: c.OriginX + x, Y: c.OriginY + y}
	}
	for i, m := range c.Marks {
		c.Marks[i].Glow = s.DrawGlow(Glow{CX: m.X, CY: m.Y, R: m.Point.Size * GlowScale, Opacity: GlowOpacity})
	}
	for i, m := range c.Marks {
		d := Dot{
			Name:        m.Point.Name,
			CX:          m.X,
			CY:          m.Y,
			R:           m.Point.Size,
			Fill:        m.Point.Color,
			Stroke:      PointStroke,
			StrokeWidth: StrokeWidth,
			Tooltip:     TooltipFor(m.Point, 0, 0),
		}
		if r.links != nil {
			d.Href = r.links(m.Point.Name)
		}
		c.Marks[i].Dot = s.DrawPoint(d)
	}
	for i, m := range c.Marks {
		c.Marks[i].Label = s.DrawText(Text{
			X:       m.X,
			Y:       m.Y - m.Point.Size - LabelOffset,
			Content: m.Point.Name,
			Size:    LabelSize,
			Color:   LabelColor,
			Anchor:  AnchorMiddle,
			Class:   "label",
		})
	}

	c.Legend = s.DrawLegend(c.legend(points))

	cx := c.OriginX + dims.InnerWidth()/2
	ty := c.OriginY - dims.Margin.Top/2
	s.DrawText(Text{X: cx, Y: ty, Content: title, Size: TitleSize, Color: TitleColor, Anchor: AnchorMiddle, Bold: true, Class: "title"})
	s.DrawText(Text{X: cx, Y: ty + 25, Content: subtitle, Size: SubtitleSize, Color: MutedColor, Anchor: AnchorMiddle, Class: "subtitle"})

	return c
}

func (c *Chart) grid() Grid {
	g := Grid{
		X:         c.OriginX,
		Y:         c.OriginY,
		Width:     c.Dims.InnerWidth(),
		Height:    c.Dims.InnerHeight(),
		Pitch:     GridPitch,
		Color:     GridColor,
		Opacity:   GridOpacity,
		OriginX:   c.OriginX + c.Scales.X.Map(0),
		OriginY:   c.OriginY + c.Scales.Y.Map(0),
		AxisColor: AxisColor,
	}
	for _, v := range c.Scales.X.Ticks(TickStep) {
		g.XTicks = append(g.XTicks, Tick{Pos: c.OriginX + c.Scales.X.Map(v), Label: tickLabel(v)})
	}
	for _, v := range c.Scales.Y.Ticks(TickStep) {
		g.YTicks = append(g.YTicks, Tick{Pos: c.OriginY + c.Scales.Y.Map(v), Label: tickLabel(v)})
	}
	return g
}

func (c *Chart) legend(points []layout.Point) Legend {
	l := Legend{
		X:            c.OriginX + c.Dims.InnerWidth() + LegendOffsetX,
		Y:            c.OriginY + LegendOffsetY,
		RowHeight:    LegendRowHeight,
		Swatch:       LegendSwatch,
		CornerRadius: LegendRadius,
		TextColor:    MutedColor,
		TextSize:     LabelSize,
		Rows:         make([]LegendRow, len(points)),
	}
	for i, p := range points {
		l.Rows[i] = LegendRow{Name: p.Name, Color: p.Color}
	}
	return l
}

func tickLabel(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// TooltipFor builds the tooltip shown when p is hovered with the pointer at
// (px, py). Absent descriptive fields are omitted.
func TooltipFor(p layout.Point, px, py float64) Tooltip {
	t := Tooltip{
		X:      px + 10,
		Y:      py - 10,
		Title:  p.Name,
		Swatch: p.Color,
		Lines:  []string{fmt.Sprintf("Strength: %d/10", p.Strength)},
	}
	if p.Details == nil {
		return t
	}
	if p.Details.Title != "" {
		t.Lines = append(t.Lines, "Role: "+p.Details.Title)
	}
	if p.Details.Beliefs != "" {
		t.Lines = append(t.Lines, "Beliefs: "+p.Details.Beliefs)
	}
	if p.Details.Style != "" {
		t.Lines = append(t.Lines, "Style: "+p.Details.Style)
	}
	return t
}

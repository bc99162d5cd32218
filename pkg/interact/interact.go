package interact

import (
	"context"
	"time"

	"github.com/matzehuels/selfmap/pkg/observability"
	"github.com/matzehuels/selfmap/pkg/render"
)

// Hover styling.
const (
	HoverScale    = 1.2
	HoverDuration = 200 * time.Millisecond
	LineWidth     = 1.0
	LineOpacity   = 0.2
)

// LineDash is the dash pattern of relationship lines.
var LineDash = []float64{4, 4}

// State is a point's hover state.
type State int

const (
	Idle State = iota
	Hovered
)

func (s State) String() string {
	if s == Hovered {
		return "hovered"
	}
	return "idle"
}

// Option configures a [Controller].
type Option func(*Controller)

// WithOnSelect sets the callback invoked when a primary point is clicked.
func WithOnSelect(fn func(name string)) Option { return func(c *Controller) { c.onSelect = fn } }

// WithContext sets the context passed to observability hooks.
func WithContext(ctx context.Context) Option { return func(c *Controller) { c.ctx = ctx } }

// Controller tracks hover state for one chart and owns the transient
// elements created for it.
type Controller struct {
	surface  render.Surface
	chart    *render.Chart
	onSelect func(name string)
	ctx      context.Context

	hovered  string
	tooltip  render.Handle
	lines    []render.Handle
	disposed bool
}

// New returns a controller for chart drawn on s. A nil surface or chart
// yields a controller whose methods do nothing.
func New(s render.Surface, chart *render.Chart, opts ...Option) *Controller {
	c := &Controller{surface: s, chart: chart, ctx: context.Background()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) live() bool {
	return !c.disposed && c.surface != nil && c.chart != nil
}

// Chart returns the chart the controller is bound to.
func (c *Controller) Chart() *render.Chart { return c.chart }

// Hovered returns the currently hovered point.
func (c *Controller) Hovered() (string, bool) {
	return c.hovered, c.hovered != ""
}

// State returns the hover state of name.
func (c *Controller) State(name string) State {
	if name != "" && name == c.hovered {
		return Hovered
	}
	return Idle
}

// Tooltip returns the handle of the visible tooltip, or [render.NoHandle].
func (c *Controller) Tooltip() render.Handle { return c.tooltip }

// Lines returns the handles of the relationship lines currently drawn.
func (c *Controller) Lines() []render.Handle {
	out := make([]render.Handle, len(c.lines))
	copy(out, c.lines)
	return out
}

// Enter hovers name with the pointer at (px, py). Entering the point that is
// already hovered only moves its tooltip. It reports whether name is a point
// of the chart.
func (c *Controller) Enter(name string, px, py float64) bool {
	if !c.live() {
		return false
	}
	m, ok := c.chart.Mark(name)
	if !ok {
		return false
	}
	if c.hovered == name {
		c.showTooltip(m, px, py)
		return true
	}
	if c.hovered != "" {
		c.Leave(c.hovered)
	}

	c.hovered = name
	c.surface.Resize(m.Dot, m.Point.Size*HoverScale, HoverDuration)
	c.showTooltip(m, px, py)
	for _, other := range c.chart.Marks {
		if other.Point.Name == name {
			continue
		}
		h := c.surface.DrawLine(render.Line{
			X1: m.X, Y1: m.Y, X2: other.X, Y2: other.Y,
			Color:   m.Point.Color,
			Width:   LineWidth,
			Opacity: LineOpacity,
			Dash:    LineDash,
			Owner:   name,
		})
		c.lines = append(c.lines, h)
	}
	observability.Chart().OnHover(c.ctx, c.chart.Variant.String(), name)
	return true
}

func (c *Controller) showTooltip(m render.Mark, px, py float64) {
	if c.tooltip != render.NoHandle {
		c.surface.Remove(c.tooltip)
	}
	c.tooltip = c.surface.ShowTooltip(render.TooltipFor(m.Point, px, py))
}

// Leave ends the hover on name. Leaving a point that is not hovered is a
// no-op.
func (c *Controller) Leave(name string) {
	if c.surface == nil || c.chart == nil || name == "" || name != c.hovered {
		return
	}
	if m, ok := c.chart.Mark(name); ok {
		c.surface.Resize(m.Dot, m.Point.Size, HoverDuration)
	}
	if c.tooltip != render.NoHandle {
		c.surface.Remove(c.tooltip)
		c.tooltip = render.NoHandle
	}
	for _, h := range c.lines {
		c.surface.Remove(h)
	}
	c.lines = nil
	c.hovered = ""
}

// Move hit-tests the pointer and synthesizes Enter and Leave.
// It returns the name under the pointer, if any.
func (c *Controller) Move(px, py float64) (string, bool) {
	if !c.live() {
		return "", false
	}
	m, ok := c.chart.HitTest(px, py)
	if !ok {
		c.Leave(c.hovered)
		return "", false
	}
	c.Enter(m.Point.Name, px, py)
	return m.Point.Name, true
}

// Click reports a click on name. On a primary chart the selection callback
// runs once with name and Click returns true; secondary charts never
// navigate.
func (c *Controller) Click(name string) bool {
	if !c.live() {
		return false
	}
	if _, ok := c.chart.Mark(name); !ok {
		return false
	}
	observability.Chart().OnClick(c.ctx, c.chart.Variant.String(), name)
	if c.chart.Variant != render.Primary {
		return false
	}
	if c.onSelect != nil {
		c.onSelect(name)
	}
	return true
}

// Dispose leaves any hovered point and detaches the controller. Later calls
// do nothing.
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	c.Leave(c.hovered)
	c.disposed = true
}

// Disposed reports whether Dispose has been called.
func (c *Controller) Disposed() bool { return c.disposed }

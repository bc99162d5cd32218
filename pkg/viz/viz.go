package viz

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/selfmap/pkg/drilldown"
	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/interact"
	"github.com/matzehuels/selfmap/pkg/layout"
	"github.com/matzehuels/selfmap/pkg/observability"
	"github.com/matzehuels/selfmap/pkg/render"
)

// DefaultDelay is the wait between a selection and secondary chart creation.
const DefaultDelay = 100 * time.Millisecond

// Option configures a [Controller].
type Option func(*Controller)

// WithDimensions sets the primary and secondary chart sizes.
func WithDimensions(primary, secondary render.Dimensions) Option {
	return func(c *Controller) { c.primaryDims, c.secondaryDims = primary, secondary }
}

// WithModes sets the layout modes of the primary and secondary charts.
func WithModes(primary, secondary layout.Mode) Option {
	return func(c *Controller) { c.primaryMode, c.secondaryMode = primary, secondary }
}

// WithGenerator sets the drill-down generator (default: randomly seeded).
func WithGenerator(g *drilldown.Generator) Option { return func(c *Controller) { c.gen = g } }

// WithScheduler sets the scheduler for deferred secondary creation.
func WithScheduler(s Scheduler) Option { return func(c *Controller) { c.sched = s } }

// WithDelay overrides [DefaultDelay].
func WithDelay(d time.Duration) Option { return func(c *Controller) { c.delay = d } }

// WithOnSelect sets the callback invoked with every selected category.
func WithOnSelect(fn func(name string)) Option { return func(c *Controller) { c.onSelect = fn } }

// WithLinks sets per-point click targets for charts of role.
func WithLinks(role Role, fn func(name string) string) Option {
	return func(c *Controller) { c.links[role] = fn }
}

// WithLogger sets the logger (default discards).
func WithLogger(l *log.Logger) Option { return func(c *Controller) { c.logger = l } }

// WithContext sets the context handed to observability hooks.
func WithContext(ctx context.Context) Option { return func(c *Controller) { c.ctx = ctx } }

// View is a chart currently shown on a surface.
type View struct {
	Role        Role
	Surface     render.Surface
	Chart       *render.Chart
	Interaction *interact.Controller
	Data        *identity.Map
}

// pending is a drill-down waiting for its secondary chart.
type pending struct {
	category string
	detail   *identity.Map
}

// Controller coordinates the primary chart, the selection and the
// secondary chart.
type Controller struct {
	host   Host
	sched  Scheduler
	gen    *drilldown.Generator
	logger *log.Logger
	ctx    context.Context

	primaryDims, secondaryDims render.Dimensions
	primaryMode, secondaryMode layout.Mode
	delay                      time.Duration
	onSelect                   func(name string)
	links                      map[Role]func(string) string

	data      *identity.Map
	selected  string
	panel     *pending
	primary   *View
	secondary *View
}

// New returns a controller for data. Nothing is drawn until [Controller.Mount].
func New(host Host, data *identity.Map, opts ...Option) *Controller {
	c := &Controller{
		host:          host,
		data:          data,
		primaryDims:   render.PrimaryDimensions(),
		secondaryDims: render.SecondaryDimensions(),
		primaryMode:   layout.Radial,
		secondaryMode: layout.Bucketed,
		delay:         DefaultDelay,
		links:         make(map[Role]func(string) string),
		ctx:           context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sched == nil {
		c.sched = TimerScheduler{}
	}
	if c.gen == nil {
		c.gen = drilldown.New(nil)
	}
	if c.logger == nil {
		c.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return c
}

// Mount renders the primary chart, attaching a surface on first use.
// It reports whether a surface was available.
func (c *Controller) Mount() bool {
	if c.host == nil {
		return false
	}
	var s render.Surface
	if c.primary != nil {
		c.primary.Interaction.Dispose()
		s = c.primary.Surface
	} else {
		s = c.host.Attach(RolePrimary, c.primaryDims)
	}
	if s == nil {
		c.logger.Debug("primary surface not ready")
		return false
	}
	c.primary = c.draw(RolePrimary, s, c.data, "")
	c.logger.Debug("mounted primary chart", "categories", c.data.Len())
	return true
}

// SetData replaces the primary dataset, closes any drill-down and re-renders.
func (c *Controller) SetData(m *identity.Map) {
	c.data = m
	c.Back()
	if c.primary != nil {
		c.Mount()
	}
}

// Data returns the primary dataset.
func (c *Controller) Data() *identity.Map { return c.data }

func (c *Controller) draw(role Role, s render.Surface, data *identity.Map, category string) *View {
	var points []layout.Point
	var dims render.Dimensions
	opts := []render.Option{}
	if role == RoleSecondary {
		points = layout.Compute(data, layout.WithMode(c.secondaryMode), layout.WithBaseSize(layout.SecondaryBaseSize))
		dims = c.secondaryDims
		opts = append(opts, render.WithCategory(category))
	} else {
		points = layout.Compute(data, layout.WithMode(c.primaryMode))
		dims = c.primaryDims
	}
	if fn := c.links[role]; fn != nil {
		opts = append(opts, render.WithLinks(fn))
	}

	chart := render.Render(s, points, dims, role.Variant(), opts...)
	ictl := interact.New(s, chart, interact.WithContext(c.ctx), interact.WithOnSelect(c.selectCategory))
	return &View{Role: role, Surface: s, Chart: chart, Interaction: ictl, Data: data}
}

// Select drills into category as if its primary point had been clicked.
func (c *Controller) Select(category string) {
	c.selectCategory(category)
}

func (c *Controller) selectCategory(name string) {
	c.closeSecondary()
	c.selected = name
	if c.onSelect != nil {
		c.onSelect(name)
	}

	detail := c.gen.Expand(name)[drilldown.DetailKey(name)]
	p := &pending{category: name, detail: detail}
	c.panel = p
	c.logger.Debug("selected category", "category", name, "known", drilldown.Known(name))

	c.sched.After(c.delay, func() { c.openSecondary(p) })
}

func (c *Controller) openSecondary(p *pending) {
	if c.panel != p || c.secondary != nil {
		return
	}
	c.panel = nil
	s := c.host.Attach(RoleSecondary, c.secondaryDims)
	if s == nil {
		c.logger.Debug("secondary surface not ready", "category", p.category)
		return
	}
	c.secondary = c.draw(RoleSecondary, s, p.detail, p.category)
	observability.Chart().OnDrillDown(c.ctx, p.category, p.detail.Len())
	c.logger.Debug("opened drill-down", "category", p.category)
}

func (c *Controller) closeSecondary() {
	c.panel = nil
	if c.secondary == nil {
		return
	}
	c.secondary.Interaction.Dispose()
	c.host.Detach(c.secondary.Surface)
	c.secondary = nil
}

// Back clears the selection and removes the secondary chart entirely.
func (c *Controller) Back() {
	if c.selected != "" {
		c.logger.Debug("closed drill-down", "category", c.selected)
	}
	c.selected = ""
	c.closeSecondary()
}

// Selected returns the selected category.
func (c *Controller) Selected() (string, bool) { return c.selected, c.selected != "" }

// Pending reports whether a secondary chart is scheduled but not yet drawn.
func (c *Controller) Pending() bool { return c.panel != nil }

// Primary returns the primary view, or nil before Mount.
func (c *Controller) Primary() *View { return c.primary }

// Secondary returns the secondary view, or nil when none is shown.
func (c *Controller) Secondary() *View { return c.secondary }

func (c *Controller) view(role Role) *View {
	if role == RoleSecondary {
		return c.secondary
	}
	return c.primary
}

// Hover enters name on the chart of role.
func (c *Controller) Hover(role Role, name string, px, py float64) bool {
	if v := c.view(role); v != nil {
		return v.Interaction.Enter(name, px, py)
	}
	return false
}

// Leave ends the hover on name on the chart of role.
func (c *Controller) Leave(role Role, name string) {
	if v := c.view(role); v != nil {
		v.Interaction.Leave(name)
	}
}

// Move forwards a pointer position to the chart of role.
func (c *Controller) Move(role Role, px, py float64) (string, bool) {
	if v := c.view(role); v != nil {
		return v.Interaction.Move(px, py)
	}
	return "", false
}

// Click clicks name on the chart of role. It reports whether the click
// started a drill-down.
func (c *Controller) Click(role Role, name string) bool {
	if v := c.view(role); v != nil {
		return v.Interaction.Click(name)
	}
	return false
}

// Close removes every chart. The controller can be mounted again.
func (c *Controller) Close() {
	c.Back()
	if c.primary == nil {
		return
	}
	c.primary.Interaction.Dispose()
	c.host.Detach(c.primary.Surface)
	c.primary = nil
}

// Package pipeline turns identity maps into chart artifacts.
//
// The CLI and the HTTP server share this code path, so both validate and
// default options identically and hit the same cache entries.
//
// # Stages
//
//  1. Data: load an identity map from disk or expand a category into its
//     drill-down detail map
//  2. Layout: place every category on the chart domain
//  3. Render: encode the laid-out chart as SVG, PNG, PDF, JSON or DOT
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, identity.Sample(), pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// Drill-down charts expand the category first:
//
//	detail, err := runner.Expand(ctx, "Leadership", seed)
//	result, err := runner.Execute(ctx, detail, pipeline.Options{
//	    Role:     pipeline.RoleSecondary,
//	    Category: "Leadership",
//	})
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/selfmap/pkg/cache"
	"github.com/matzehuels/selfmap/pkg/errors"
	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/layout"
	"github.com/matzehuels/selfmap/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

// Chart roles.
const (
	RolePrimary   = "primary"
	RoleSecondary = "secondary"
)

// Visualization types.
const (
	VizChart    = "chart"
	VizNodelink = "nodelink"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidRoles is the set of chart roles.
var ValidRoles = map[string]bool{
	RolePrimary:   true,
	RoleSecondary: true,
}

// ValidVizTypes is the set of visualization types.
var ValidVizTypes = map[string]bool{
	VizChart:    true,
	VizNodelink: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. It is JSON-serializable for the HTTP
// API.
type Options struct {
	// Layout options
	Role     string  `json:"role,omitempty"`
	Category string  `json:"category,omitempty"`
	Mode     string  `json:"mode,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	// Margin overrides render.DefaultMargin when non-nil.
	Margin *render.Margin `json:"margin,omitempty"`

	// Render options
	VizType     string   `json:"viz_type,omitempty"`
	Formats     []string `json:"formats,omitempty"`
	Title       string   `json:"title,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	EmbedFont   bool     `json:"embed_font,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`

	// Links sets per-point click targets in SVG output.
	Links func(name string) string `json:"-"`

	Logger *log.Logger `json:"-"`
}

// Result holds the outputs of [Runner.Execute].
type Result struct {
	Data      *identity.Map
	DataHash  string
	Points    []layout.Point
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timings of a run.
type Stats struct {
	Entries    int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRole checks that a role is known.
func ValidateRole(role string) error {
	if !ValidRoles[role] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid role: %q (must be one of: primary, secondary)", role)
	}
	return nil
}

// ValidateVizType checks that a visualization type is known.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid viz_type: %q (must be one of: chart, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults fills unset layout options. Secondary charts default to
// bucketed sizing and the smaller canvas.
func (o *Options) SetLayoutDefaults() {
	if o.Role == "" {
		o.Role = RolePrimary
	}
	dims := render.PrimaryDimensions()
	if o.IsSecondary() {
		dims = render.SecondaryDimensions()
		if o.Mode == "" {
			o.Mode = string(layout.Bucketed)
		}
	}
	if o.Mode == "" {
		o.Mode = string(layout.Radial)
	}
	if o.Width == 0 {
		o.Width = dims.Width
	}
	if o.Height == 0 {
		o.Height = dims.Height
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout applies layout defaults and validates them.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateRole(o.Role); err != nil {
		return err
	}
	if _, err := layout.ParseMode(o.Mode); err != nil {
		return err
	}
	return o.Dimensions().Validate()
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = VizChart
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender applies all defaults and validates render options.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// IsSecondary reports whether the options describe a drill-down chart.
func (o *Options) IsSecondary() bool { return o.Role == RoleSecondary }

// LayoutMode returns the parsed layout mode.
func (o *Options) LayoutMode() layout.Mode {
	m, _ := layout.ParseMode(o.Mode)
	return m
}

// Variant returns the render variant for the role.
func (o *Options) Variant() render.Variant {
	if o.IsSecondary() {
		return render.Secondary
	}
	return render.Primary
}

// BaseSize returns the smallest bucketed point radius for the role.
func (o *Options) BaseSize() float64 {
	if o.IsSecondary() {
		return layout.SecondaryBaseSize
	}
	return layout.PrimaryBaseSize
}

// Dimensions returns the chart viewport.
func (o *Options) Dimensions() render.Dimensions {
	m := render.DefaultMargin
	if o.Margin != nil {
		m = *o.Margin
	}
	return render.Dimensions{Width: o.Width, Height: o.Height, Margin: m}
}

// LayoutKeyOpts returns the cache key options of the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	m := o.Dimensions().Margin
	return cache.LayoutKeyOpts{
		Role:   o.Role,
		Mode:   string(o.LayoutMode()),
		Width:  o.Width,
		Height: o.Height,
		Margin: [4]float64{m.Top, m.Right, m.Bottom, m.Left},
	}
}

// ArtifactKeyOpts returns the cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: o.VizType + "/" + format, Title: o.title()}
	switch format {
	case FormatSVG:
		k.Interactive = o.Interactive
	case FormatPNG:
		k.Scale = o.Scale
	}
	return k
}

// Cacheable reports whether rendered artifacts can be cached. Per-point
// links are functions and cannot be part of a key.
func (o *Options) Cacheable() bool { return o.Links == nil && !o.Refresh }

func (o *Options) title() string {
	if o.Title != "" {
		return o.Title
	}
	return o.Variant().Title(o.Category)
}

// HasFormat reports whether f was requested.
func (o *Options) HasFormat(f string) bool { return slices.Contains(o.Formats, f) }

func (o Options) String() string {
	return fmt.Sprintf("%s/%s %gx%g %v", o.Role, o.Mode, o.Width, o.Height, o.Formats)
}

package render

import (
	"github.com/matzehuels/selfmap/pkg/errors"
	"github.com/matzehuels/selfmap/pkg/layout"
)

// Margin is the space reserved around the plot area.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Dimensions is the pixel viewport of one chart.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
}

// DefaultMargin leaves room for the title on top and the legend on the right.
var DefaultMargin = Margin{Top: 60, Right: 160, Bottom: 60, Left: 60}

// PrimaryDimensions returns the default overview chart size.
func PrimaryDimensions() Dimensions {
	return Dimensions{Width: 900, Height: 700, Margin: DefaultMargin}
}

// SecondaryDimensions returns the default drill-down chart size.
func SecondaryDimensions() Dimensions {
	return Dimensions{Width: 800, Height: 600, Margin: DefaultMargin}
}

// InnerWidth returns the plot area width.
func (d Dimensions) InnerWidth() float64 { return d.Width - d.Margin.Left - d.Margin.Right }

// InnerHeight returns the plot area height.
func (d Dimensions) InnerHeight() float64 { return d.Height - d.Margin.Top - d.Margin.Bottom }

// Scales returns the domain to plot-area scales for d.
func (d Dimensions) Scales() layout.Scales {
	return layout.NewScales(d.InnerWidth(), d.InnerHeight())
}

// Validate reports dimensions that leave no plot area.
func (d Dimensions) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "chart size must be positive, got %gx%g", d.Width, d.Height)
	}
	m := d.Margin
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margins must not be negative")
	}
	if d.InnerWidth() <= 0 || d.InnerHeight() <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margins leave no plot area in %gx%g", d.Width, d.Height)
	}
	return nil
}

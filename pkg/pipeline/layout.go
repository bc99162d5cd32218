package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/selfmap/pkg/errors"
	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/layout"
	"github.com/matzehuels/selfmap/pkg/render"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout places every entry of m according to opts. Call
// [Options.ValidateForLayout] first.
func GenerateLayout(m *identity.Map, opts Options) []layout.Point {
	return layout.Compute(m,
		layout.WithMode(opts.LayoutMode()),
		layout.WithBaseSize(opts.BaseSize()))
}

// =============================================================================
// Serialization
// =============================================================================

// Layout is the JSON document of a laid-out chart.
type Layout struct {
	Variant    string            `json:"variant"`
	Mode       string            `json:"mode"`
	Title      string            `json:"title"`
	Subtitle   string            `json:"subtitle"`
	Dimensions render.Dimensions `json:"dimensions"`
	Points     []LayoutPoint     `json:"points"`
}

// LayoutPoint is one placed category. X and Y are pixel coordinates inside
// the viewport; DomainX and DomainY are chart units.
type LayoutPoint struct {
	Name     string           `json:"name"`
	Strength int              `json:"strength"`
	Angle    float64          `json:"angle"`
	DomainX  float64          `json:"domain_x"`
	DomainY  float64          `json:"domain_y"`
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	Size     float64          `json:"size"`
	Color    string           `json:"color"`
	Details  *identity.Record `json:"details,omitempty"`
}

// ExportLayout builds the JSON document for points drawn with opts.
func ExportLayout(points []layout.Point, opts Options) Layout {
	dims := opts.Dimensions()
	scales := dims.Scales()
	out := Layout{
		Variant:    opts.Variant().String(),
		Mode:       string(opts.LayoutMode()),
		Title:      opts.title(),
		Subtitle:   opts.Variant().Subtitle(),
		Dimensions: dims,
		Points:     make([]LayoutPoint, len(points)),
	}
	for i, p := range points {
		px, py := scales.Pixel(p)
		out.Points[i] = LayoutPoint{
			Name:     p.Name,
			Strength: p.Strength,
			Angle:    p.Angle,
			DomainX:  p.X,
			DomainY:  p.Y,
			X:        dims.Margin.Left + px,
			Y:        dims.Margin.Top + py,
			Size:     p.Size,
			Color:    p.Color,
			Details:  p.Details,
		}
	}
	return out
}

// ToPoints converts the document back into layout points.
func (l Layout) ToPoints() []layout.Point {
	points := make([]layout.Point, len(l.Points))
	for i, p := range l.Points {
		points[i] = layout.Point{
			Name:     p.Name,
			Strength: p.Strength,
			Index:    i,
			Angle:    p.Angle,
			X:        p.DomainX,
			Y:        p.DomainY,
			Size:     p.Size,
			Color:    p.Color,
			Details:  p.Details,
		}
	}
	return points
}

// MarshalLayout encodes l as indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	return data, nil
}

// UnmarshalLayout decodes a document written by [MarshalLayout].
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return l, nil
}

package layout

import (
	"math"
	"strings"

	"github.com/matzehuels/selfmap/pkg/errors"
	"github.com/matzehuels/selfmap/pkg/identity"
)

// Domain bounds shared by both axes.
const (
	DomainMin = -10.0
	DomainMax = 10.0
)

// Bucketed base sizes for primary and drill-down charts.
const (
	PrimaryBaseSize   = 7.0
	SecondaryBaseSize = 6.0
)

// Mode selects the strength to size policy.
type Mode string

const (
	Radial   Mode = "radial"
	Bucketed Mode = "bucketed"
)

// ParseMode converts a configuration string into a Mode.
// The empty string yields [Radial].
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Radial:
		return Radial, nil
	case Bucketed:
		return Bucketed, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidMode, "unknown layout mode %q (want radial or bucketed)", s)
	}
}

// Point is one category placed in the chart domain.
type Point struct {
	Name     string
	Strength int
	Index    int
	Angle    float64 // radians
	X, Y     float64 // domain units
	Size     float64 // pixel radius
	Color    string  // hex color
	Details  *identity.Record
}

// Radius returns the point's distance from the domain origin.
func (p Point) Radius() float64 { return math.Hypot(p.X, p.Y) }

// Option configures [Compute].
type Option func(*config)

type config struct {
	mode     Mode
	baseSize float64
	palette  *Ordinal
}

// WithMode selects the size policy (default [Radial]).
func WithMode(m Mode) Option { return func(c *config) { c.mode = m } }

// WithBaseSize sets the smallest bucket size used by [Bucketed].
func WithBaseSize(px float64) Option { return func(c *config) { c.baseSize = px } }

// WithPalette shares a color assignment across several computations.
func WithPalette(o *Ordinal) Option { return func(c *config) { c.palette = o } }

// Compute lays out every entry of m. An empty or nil map yields an empty slice.
// Details point at copies of m's records, so later edits to m do not leak
// into a computed layout.
func Compute(m *identity.Map, opts ...Option) []Point {
	c := config{mode: Radial, baseSize: PrimaryBaseSize}
	for _, opt := range opts {
		opt(&c)
	}
	if c.palette == nil {
		c.palette = NewOrdinal(Set3)
	}

	entries := m.Entries()
	points := make([]Point, len(entries))
	count := float64(len(entries))
	for i, e := range entries {
		rec := e.Record
		angle := 2 * math.Pi * float64(i) / count
		r := DomainMax - float64(rec.Strength)
		points[i] = Point{
			Name:     e.Name,
			Strength: rec.Strength,
			Index:    i,
			Angle:    angle,
			X:        r * math.Cos(angle),
			Y:        r * math.Sin(angle),
			Size:     Size(c.mode, rec.Strength, c.baseSize),
			Color:    c.palette.Color(e.Name),
			Details:  &rec,
		}
	}
	return points
}

// Size returns the pixel radius for strength under mode.
func Size(mode Mode, strength int, base float64) float64 {
	if mode != Bucketed {
		return float64(11 - strength)
	}
	switch {
	case strength == 10:
		return base * 1.8
	case strength >= 5:
		return base * 1.4
	default:
		return base
	}
}

// Names returns the point names in order.
func Names(points []Point) []string {
	names := make([]string, len(points))
	for i, p := range points {
		names[i] = p.Name
	}
	return names
}

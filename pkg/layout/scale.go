package layout

import "math"

// Linear maps a continuous domain onto a continuous range.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
}

// Map converts a domain value into range units. Values outside the domain
// extrapolate.
func (l Linear) Map(v float64) float64 {
	d := l.Domain[1] - l.Domain[0]
	if d == 0 {
		return l.Range[0]
	}
	t := (v - l.Domain[0]) / d
	return l.Range[0] + t*(l.Range[1]-l.Range[0])
}

// Invert converts a range value back into domain units.
func (l Linear) Invert(px float64) float64 {
	r := l.Range[1] - l.Range[0]
	if r == 0 {
		return l.Domain[0]
	}
	t := (px - l.Range[0]) / r
	return l.Domain[0] + t*(l.Domain[1]-l.Domain[0])
}

// Ticks returns domain values from the lower bound to the upper bound in
// increments of step. A non-positive step yields nil.
func (l Linear) Ticks(step float64) []float64 {
	if step <= 0 {
		return nil
	}
	lo, hi := math.Min(l.Domain[0], l.Domain[1]), math.Max(l.Domain[0], l.Domain[1])
	var ticks []float64
	for i := math.Ceil(lo / step); i*step <= hi+1e-9; i++ {
		ticks = append(ticks, i*step)
	}
	return ticks
}

// Scales holds the x and y scales of one plot area.
type Scales struct {
	X, Y Linear
}

// NewScales returns scales for a plot area of the given inner size.
func NewScales(innerWidth, innerHeight float64) Scales {
	return Scales{
		X: Linear{Domain: [2]float64{DomainMin, DomainMax}, Range: [2]float64{0, innerWidth}},
		Y: Linear{Domain: [2]float64{DomainMin, DomainMax}, Range: [2]float64{innerHeight, 0}},
	}
}

// Pixel converts a point's domain position into plot-area pixels.
func (s Scales) Pixel(p Point) (x, y float64) {
	return s.X.Map(p.X), s.Y.Map(p.Y)
}

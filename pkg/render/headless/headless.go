// Package headless provides a retained, display-free [render.Surface].
//
// A headless Surface records every primitive it is asked to draw as an
// [Element]. Nothing is painted; instead the element store can be queried,
// which makes rendering and interaction testable without a display. The SVG
// and raster backends embed a headless Surface and encode its elements.
//
//	s := headless.New()
//	render.Render(s, points, dims, render.Primary)
//	s.Count(render.KindPoint) // == len(points)
//
// # Layers
//
// Elements are kept in paint order by [Layer]: grid, relationship lines,
// glows, points, text, legend, then overlays such as tooltips. Within a layer
// insertion order is preserved, so lines drawn during a hover always sit
// beneath the points they connect.
package headless

import (
	"cmp"
	"slices"
	"time"

	"github.com/matzehuels/selfmap/pkg/render"
)

// Layer is a paint-order bucket.
type Layer int

const (
	LayerGrid Layer = iota
	LayerLines
	LayerGlow
	LayerPoints
	LayerText
	LayerLegend
	LayerOverlay
)

func layerOf(k render.Kind) Layer {
	switch k {
	case render.KindGrid:
		return LayerGrid
	case render.KindLine:
		return LayerLines
	case render.KindGlow:
		return LayerGlow
	case render.KindPoint:
		return LayerPoints
	case render.KindText:
		return LayerText
	case render.KindLegend:
		return LayerLegend
	default:
		return LayerOverlay
	}
}

// Element is one retained primitive. Exactly one of the primitive fields is
// set, matching Kind.
type Element struct {
	Handle render.Handle
	Kind   render.Kind
	Layer  Layer

	Grid    *render.Grid
	Glow    *render.Glow
	Dot     *render.Dot
	Text    *render.Text
	Legend  *render.Legend
	Line    *render.Line
	Tooltip *render.Tooltip

	// BaseRadius is the radius a point was drawn with; Dot.R tracks resizes.
	BaseRadius float64
	// Transition is the duration of the most recent resize.
	Transition time.Duration

	seq uint64
}

// Surface is a retained element store. The zero value is not usable; call
// [New]. A Surface is not safe for concurrent use.
type Surface struct {
	width, height float64
	elements      map[render.Handle]*Element
	next          uint64
	closed        bool
	revision      uint64
}

var _ render.Surface = (*Surface)(nil)

// New returns an empty surface.
func New() *Surface {
	return &Surface{elements: make(map[render.Handle]*Element)}
}

// Clear discards all elements and sets the viewport size.
func (s *Surface) Clear(width, height float64) {
	if s.closed {
		return
	}
	s.width, s.height = width, height
	clear(s.elements)
	s.revision++
}

func (s *Surface) add(e Element) render.Handle {
	if s.closed {
		return render.NoHandle
	}
	s.next++
	e.Handle = render.Handle(s.next)
	e.Layer = layerOf(e.Kind)
	e.seq = s.next
	s.elements[e.Handle] = &e
	s.revision++
	return e.Handle
}

// DrawGrid stores the plot background.
func (s *Surface) DrawGrid(g render.Grid) render.Handle {
	g.XTicks = slices.Clone(g.XTicks)
	g.YTicks = slices.Clone(g.YTicks)
	return s.add(Element{Kind: render.KindGrid, Grid: &g})
}

// DrawGlow stores a halo beneath a point.
func (s *Surface) DrawGlow(g render.Glow) render.Handle {
	return s.add(Element{Kind: render.KindGlow, Glow: &g})
}

// DrawPoint stores a point at its base radius.
func (s *Surface) DrawPoint(d render.Dot) render.Handle {
	d.Tooltip.Lines = slices.Clone(d.Tooltip.Lines)
	return s.add(Element{Kind: render.KindPoint, Dot: &d, BaseRadius: d.R})
}

// DrawText stores a label.
func (s *Surface) DrawText(t render.Text) render.Handle {
	return s.add(Element{Kind: render.KindText, Text: &t})
}

// DrawLegend stores the legend.
func (s *Surface) DrawLegend(l render.Legend) render.Handle {
	l.Rows = slices.Clone(l.Rows)
	return s.add(Element{Kind: render.KindLegend, Legend: &l})
}

// DrawLine stores a relationship line.
func (s *Surface) DrawLine(l render.Line) render.Handle {
	l.Dash = slices.Clone(l.Dash)
	return s.add(Element{Kind: render.KindLine, Line: &l})
}

// ShowTooltip stores a tooltip.
func (s *Surface) ShowTooltip(t render.Tooltip) render.Handle {
	t.Lines = slices.Clone(t.Lines)
	return s.add(Element{Kind: render.KindTooltip, Tooltip: &t})
}

// Resize sets a point's radius. Handles of other kinds are ignored.
func (s *Surface) Resize(h render.Handle, radius float64, d time.Duration) {
	e, ok := s.elements[h]
	if !ok || e.Dot == nil {
		return
	}
	e.Dot.R = radius
	e.Transition = d
	s.revision++
}

// Remove deletes the element behind h.
func (s *Surface) Remove(h render.Handle) {
	if _, ok := s.elements[h]; !ok {
		return
	}
	delete(s.elements, h)
	s.revision++
}

// Size returns the viewport set by the last Clear.
func (s *Surface) Size() (width, height float64) {
	return s.width, s.height
}

// =============================================================================
// Lifecycle
// =============================================================================

// Close discards every element and turns later calls into no-ops. Hosts call
// Close when they tear a surface down.
func (s *Surface) Close() {
	clear(s.elements)
	s.closed = true
	s.revision++
}

// Closed reports whether Close has been called.
func (s *Surface) Closed() bool { return s.closed }

// Revision increases on every change; views use it to skip redundant redraws.
func (s *Surface) Revision() uint64 { return s.revision }

// =============================================================================
// Queries
// =============================================================================

// Get returns a copy of the element behind h.
func (s *Surface) Get(h render.Handle) (Element, bool) {
	e, ok := s.elements[h]
	if !ok {
		return Element{}, false
	}
	return *e, true
}

// Len returns the number of live elements.
func (s *Surface) Len() int { return len(s.elements) }

// Count returns the number of live elements of kind k.
func (s *Surface) Count(k render.Kind) int {
	n := 0
	for _, e := range s.elements {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Elements returns copies of all live elements in paint order.
func (s *Surface) Elements() []Element {
	out := make([]Element, 0, len(s.elements))
	for _, e := range s.elements {
		out = append(out, *e)
	}
	slices.SortFunc(out, func(a, b Element) int {
		if c := cmp.Compare(a.Layer, b.Layer); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}

// ByKind returns the live elements of kind k in paint order.
func (s *Surface) ByKind(k render.Kind) []Element {
	var out []Element
	for _, e := range s.Elements() {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Point returns the point element drawn for name.
func (s *Surface) Point(name string) (Element, bool) {
	for _, e := range s.ByKind(render.KindPoint) {
		if e.Dot.Name == name {
			return e, true
		}
	}
	return Element{}, false
}

package render_test

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/selfmap/pkg/errors"
	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/layout"
	"github.com/matzehuels/selfmap/pkg/render"
	"github.com/matzehuels/selfmap/pkg/render/headless"
)

func TestRenderNilSurface(t *testing.T) {
	if c := render.Render(nil, layout.Compute(identity.Sample()), render.PrimaryDimensions(), render.Primary); c != nil {
		t.Errorf("Render(nil) = %v, want nil", c)
	}
}

func TestRenderScene(t *testing.T) {
	s := headless.New()
	points := layout.Compute(identity.Sample())
	dims := render.PrimaryDimensions()
	c := render.Render(s, points, dims, render.Primary)

	counts := map[render.Kind]int{
		render.KindGrid:   1,
		render.KindGlow:   len(points),
		render.KindPoint:  len(points),
		render.KindText:   len(points) + 2,
		render.KindLegend: 1,
		render.KindLine:   0,
	}
	for k, want := range counts {
		if got := s.Count(k); got != want {
			t.Errorf("Count(%s) = %d, want %d", k, got, want)
		}
	}
	if w, h := s.Size(); w != 900 || h != 700 {
		t.Errorf("Size() = %vx%v, want 900x700", w, h)
	}
	if c.Len() != len(points) {
		t.Errorf("chart.Len() = %d, want %d", c.Len(), len(points))
	}

	for _, m := range c.Marks {
		e, ok := s.Get(m.Dot)
		if !ok {
			t.Fatalf("point %s not on surface", m.Point.Name)
		}
		if e.Dot.Fill != m.Point.Color || e.Dot.Stroke != "#ffffff" || e.Dot.StrokeWidth != 2 {
			t.Errorf("%s dot = %+v", m.Point.Name, e.Dot)
		}
		g, _ := s.Get(m.Glow)
		if g.Glow.R != 2*m.Point.Size {
			t.Errorf("%s glow radius = %v, want %v", m.Point.Name, g.Glow.R, 2*m.Point.Size)
		}
		l, _ := s.Get(m.Label)
		if l.Text.Y != m.Y-m.Point.Size-5 || l.Text.Content != m.Point.Name {
			t.Errorf("%s label = %+v", m.Point.Name, l.Text)
		}
		if m.X < c.OriginX || m.X > c.OriginX+dims.InnerWidth() || m.Y < c.OriginY || m.Y > c.OriginY+dims.InnerHeight() {
			t.Errorf("%s at (%v, %v) outside plot area", m.Point.Name, m.X, m.Y)
		}
	}
}

func TestRenderLegend(t *testing.T) {
	s := headless.New()
	points := layout.Compute(identity.Sample())
	dims := render.PrimaryDimensions()
	render.Render(s, points, dims, render.Primary)

	legends := s.ByKind(render.KindLegend)
	l := legends[0].Legend
	if l.X != 60+680+20 || l.Y != 80 {
		t.Errorf("legend at (%v, %v), want (760, 80)", l.X, l.Y)
	}
	if l.RowHeight != render.LegendRowHeight {
		t.Errorf("legend row height = %v, want %v", l.RowHeight, render.LegendRowHeight)
	}
	if l.X+l.Swatch > dims.Width {
		t.Error("legend swatch should fit inside the right margin")
	}
	var names []string
	for i, row := range l.Rows {
		names = append(names, row.Name)
		if row.Color != points[i].Color {
			t.Errorf("legend %s color = %s, want %s", row.Name, row.Color, points[i].Color)
		}
	}
	if !slices.Equal(names, layout.Names(points)) {
		t.Errorf("legend order = %v, want %v", names, layout.Names(points))
	}
}

func TestRenderTitles(t *testing.T) {
	tests := []struct {
		name     string
		variant  render.Variant
		opts     []render.Option
		title    string
		subtitle string
	}{
		{"primary", render.Primary, nil, "Personal Identity Map", "Exploring the dimensions of self-identity and personal values"},
		{"secondary", render.Secondary, []render.Option{render.WithCategory("Leadership")}, "Leadership Details", "Detailed breakdown of selected identity aspect"},
		{"override", render.Primary, []render.Option{render.WithTitle("Mine"), render.WithSubtitle("Sub")}, "Mine", "Sub"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := headless.New()
			c := render.Render(s, nil, render.SecondaryDimensions(), tt.variant, tt.opts...)
			if c.Title != tt.title {
				t.Errorf("Title = %q, want %q", c.Title, tt.title)
			}
			var got []string
			for _, e := range s.ByKind(render.KindText) {
				got = append(got, e.Text.Content)
			}
			if !slices.Equal(got, []string{tt.title, tt.subtitle}) {
				t.Errorf("texts = %v", got)
			}
		})
	}
}

func TestRenderIdempotent(t *testing.T) {
	s := headless.New()
	points := layout.Compute(identity.Sample())
	dims := render.PrimaryDimensions()

	a := render.Render(s, points, dims, render.Primary)
	first := s.Len()
	b := render.Render(s, points, dims, render.Primary)

	if s.Len() != first {
		t.Errorf("Len() after second render = %d, want %d", s.Len(), first)
	}
	for i := range a.Marks {
		if a.Marks[i].X != b.Marks[i].X || a.Marks[i].Y != b.Marks[i].Y || a.Marks[i].Point.Color != b.Marks[i].Point.Color {
			t.Errorf("mark %d changed between renders", i)
		}
	}
}

func TestHitTest(t *testing.T) {
	s := headless.New()
	c := render.Render(s, layout.Compute(identity.Sample()), render.PrimaryDimensions(), render.Primary)

	m := c.Marks[2]
	if got, ok := c.HitTest(m.X+1, m.Y); !ok || got.Point.Name != m.Point.Name {
		t.Errorf("HitTest near %s = %v, %v", m.Point.Name, got.Point.Name, ok)
	}
	if _, ok := c.HitTest(0, 0); ok {
		t.Error("HitTest at the corner should miss")
	}
	var nilChart *render.Chart
	if _, ok := nilChart.HitTest(1, 1); ok {
		t.Error("nil chart should never hit")
	}
}

func TestTooltipFor(t *testing.T) {
	p := layout.Point{Name: "Leadership", Strength: 5, Color: "#abc", Details: &identity.Record{Strength: 5, Title: "Emerging Leader", Style: "Collaborative approach"}}
	tip := render.TooltipFor(p, 100, 50)

	if tip.X != 110 || tip.Y != 40 {
		t.Errorf("position = (%v, %v), want (110, 40)", tip.X, tip.Y)
	}
	want := []string{"Strength: 5/10", "Role: Emerging Leader", "Style: Collaborative approach"}
	if !slices.Equal(tip.Lines, want) {
		t.Errorf("Lines = %v, want %v", tip.Lines, want)
	}
	if tip.Swatch != "#abc" || tip.Title != "Leadership" {
		t.Errorf("tooltip = %+v", tip)
	}
}

func TestAxesCrossAtCenter(t *testing.T) {
	s := headless.New()
	dims := render.PrimaryDimensions()
	render.Render(s, nil, dims, render.Primary)

	g := s.ByKind(render.KindGrid)[0].Grid
	if g.OriginX != 60+340 || g.OriginY != 60+290 {
		t.Errorf("axes cross at (%v, %v), want (400, 350)", g.OriginX, g.OriginY)
	}
	if len(g.XTicks) != 11 || g.XTicks[5].Label != "0" {
		t.Errorf("XTicks = %v", g.XTicks)
	}
	if g.Pitch != 40 || math.Abs(g.Opacity-0.2) > 1e-9 {
		t.Errorf("grid pitch/opacity = %v/%v", g.Pitch, g.Opacity)
	}
}

func TestDimensionsValidate(t *testing.T) {
	if err := render.PrimaryDimensions().Validate(); err != nil {
		t.Errorf("PrimaryDimensions().Validate() = %v", err)
	}
	bad := render.Dimensions{Width: 200, Height: 100, Margin: render.DefaultMargin}
	if err := bad.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Validate() = %v, want INVALID_INPUT", err)
	}
}

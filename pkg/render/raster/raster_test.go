package raster

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/matzehuels/selfmap/pkg/errors"
	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/layout"
	"github.com/matzehuels/selfmap/pkg/render"
)

func TestEncodePNG(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		w, h  int
	}{
		{"1x", 1, 800, 600},
		{"2x", 2, 1600, 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithScale(tt.scale))
			c := render.Render(s, layout.Compute(identity.Sample()), render.SecondaryDimensions(), render.Secondary)
			m := c.Marks[0]
			s.ShowTooltip(render.TooltipFor(m.Point, m.X, m.Y))
			s.DrawLine(render.Line{X1: m.X, Y1: m.Y, X2: c.Marks[1].X, Y2: c.Marks[1].Y, Color: m.Point.Color, Width: 1, Opacity: 0.2, Dash: []float64{4, 4}})

			data, err := s.Bytes()
			if err != nil {
				t.Fatalf("Bytes: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("png.Decode: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.w || b.Dy() != tt.h {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.w, tt.h)
			}
		})
	}
}

func TestPointIsPainted(t *testing.T) {
	s := New()
	c := render.Render(s, layout.Compute(identity.Sample()), render.PrimaryDimensions(), render.Primary)
	data, err := s.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	img, _ := png.Decode(bytes.NewReader(data))

	m := c.Marks[0]
	r, g, b, _ := img.At(int(m.X), int(m.Y)).RGBA()
	if r == 0xffff && g == 0xffff && b == 0xffff {
		t.Errorf("pixel at point %s center is white", m.Point.Name)
	}
}

func TestEncodeEmptySurface(t *testing.T) {
	_, err := New().Bytes()
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Bytes() on empty surface = %v, want INVALID_INPUT", err)
	}
}

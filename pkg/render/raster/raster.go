// Package raster paints identity charts into PNG images.
//
// A [Surface] is a [headless.Surface] whose retained elements are painted
// with github.com/gogpu/gg on demand. Text uses the Go fonts embedded by
// [fonts], so output does not depend on system fonts or external tools.
//
//	s := raster.New(raster.WithScale(2))
//	render.Render(s, points, dims, render.Primary)
//	png, err := s.Bytes()
//
// [headless.Surface]: github.com/matzehuels/selfmap/pkg/render/headless.Surface
// [fonts]: github.com/matzehuels/selfmap/pkg/fonts
package raster

import (
	"bytes"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/matzehuels/selfmap/pkg/errors"
	"github.com/matzehuels/selfmap/pkg/fonts"
	"github.com/matzehuels/selfmap/pkg/render"
	"github.com/matzehuels/selfmap/pkg/render/headless"
)

// Option configures a [Surface].
type Option func(*Surface)

// WithScale multiplies the output resolution (default 1).
func WithScale(f float64) Option {
	return func(s *Surface) {
		if f > 0 {
			s.scale = f
		}
	}
}

// WithBackground sets the canvas color (default white).
func WithBackground(hex string) Option { return func(s *Surface) { s.background = hex } }

// Surface is a headless surface that paints to PNG.
type Surface struct {
	*headless.Surface
	scale      float64
	background string
}

var _ render.Surface = (*Surface)(nil)

// New returns an empty raster surface.
func New(opts ...Option) *Surface {
	s := &Surface{Surface: headless.New(), scale: 1, background: "#ffffff"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bytes paints the current scene and returns it PNG-encoded.
func (s *Surface) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodePNG paints the current scene and writes it to w.
func (s *Surface) EncodePNG(w io.Writer) error {
	width, height := s.Size()
	pw, ph := int(math.Ceil(width*s.scale)), int(math.Ceil(height*s.scale))
	if pw <= 0 || ph <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cannot paint an empty %gx%g surface", width, height)
	}

	regular, err := text.NewFontSource(fonts.RegularTTF())
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load regular font")
	}
	bold, err := text.NewFontSource(fonts.BoldTTF())
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load bold font")
	}

	dc := gg.NewContext(pw, ph)
	defer dc.Close()
	dc.ClearWithColor(gg.Hex(s.background))

	p := &painter{dc: dc, scale: s.scale, regular: regular, bold: bold}
	for _, e := range s.Elements() {
		switch e.Kind {
		case render.KindGrid:
			p.grid(e.Grid)
		case render.KindLine:
			p.line(e.Line)
		case render.KindGlow:
			p.glow(e.Glow)
		case render.KindPoint:
			p.dot(e.Dot)
		case render.KindText:
			p.text(e.Text)
		case render.KindLegend:
			p.legend(e.Legend)
		case render.KindTooltip:
			p.tooltip(e.Tooltip)
		}
	}
	if p.err != nil {
		return errors.Wrap(errors.ErrCodeInternal, p.err, "paint chart")
	}
	if err := dc.EncodePNG(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return nil
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/selfmap/pkg/errors"
	"github.com/matzehuels/selfmap/pkg/layout"
	"github.com/matzehuels/selfmap/pkg/render"
	"github.com/matzehuels/selfmap/pkg/render/nodelink"
	"github.com/matzehuels/selfmap/pkg/render/raster"
	"github.com/matzehuels/selfmap/pkg/render/svg"
)

// Render encodes points in every requested format. Call
// [Options.ValidateForRender] first.
func Render(ctx context.Context, points []layout.Point, opts Options) (map[string][]byte, error) {
	if opts.VizType == VizNodelink {
		return renderNodelink(ctx, points, opts)
	}
	return renderChart(points, opts)
}

func (o *Options) renderOptions() []render.Option {
	ropts := []render.Option{render.WithCategory(o.Category)}
	if o.Title != "" {
		ropts = append(ropts, render.WithTitle(o.Title))
	}
	if o.Links != nil {
		ropts = append(ropts, render.WithLinks(o.Links))
	}
	return ropts
}

// RenderSVG draws points onto a fresh SVG surface.
func RenderSVG(points []layout.Point, opts Options) []byte {
	var sopts []svg.Option
	if opts.Interactive {
		sopts = append(sopts, svg.WithInteraction())
	}
	if opts.EmbedFont {
		sopts = append(sopts, svg.WithEmbeddedFont())
	}
	s := svg.New(sopts...)
	render.Render(s, points, opts.Dimensions(), opts.Variant(), opts.renderOptions()...)
	return s.Bytes()
}

// RenderPNG paints points with the pure-Go rasterizer.
func RenderPNG(points []layout.Point, opts Options) ([]byte, error) {
	s := raster.New(raster.WithScale(opts.Scale))
	render.Render(s, points, opts.Dimensions(), opts.Variant(), opts.renderOptions()...)
	return s.Bytes()
}

func renderChart(points []layout.Point, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var staticSVG []byte

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = RenderSVG(points, opts)
		case FormatPNG:
			data, err = RenderPNG(points, opts)
		case FormatPDF:
			if staticSVG == nil {
				static := opts
				static.Interactive = false
				static.EmbedFont = true
				staticSVG = RenderSVG(points, static)
			}
			data, err = render.ToPDF(staticSVG)
		case FormatJSON:
			data, err = MarshalLayout(ExportLayout(points, opts))
		case FormatDOT:
			data = []byte(nodelink.ToDOT(points, nodelink.Options{Detailed: true}))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported chart format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderNodelink(ctx context.Context, points []layout.Point, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(points, nodelink.Options{Detailed: true})
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatDOT:
			data = []byte(dot)
		case FormatJSON:
			data, err = MarshalLayout(ExportLayout(points, opts))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

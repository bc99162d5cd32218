package raster

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/matzehuels/selfmap/pkg/render"
)

// painter draws primitives onto a gg context, scaling surface coordinates
// into device pixels. The first paint error is kept and later ones dropped.
type painter struct {
	dc            *gg.Context
	scale         float64
	regular, bold *text.FontSource
	err           error
}

func (p *painter) v(x float64) float64 { return x * p.scale }

func (p *painter) fill() {
	if err := p.dc.Fill(); err != nil && p.err == nil {
		p.err = err
	}
}

func (p *painter) stroke() {
	if err := p.dc.Stroke(); err != nil && p.err == nil {
		p.err = err
	}
}

func withAlpha(hex string, a float64) gg.RGBA {
	c := gg.Hex(hex)
	c.A *= a
	return c
}

func (p *painter) grid(g *render.Grid) {
	p.dc.SetFillBrush(gg.Solid(withAlpha(g.Color, g.Opacity)))
	p.dc.SetLineWidth(p.v(0.5))
	if g.Pitch > 0 {
		for x := g.X; x <= g.X+g.Width; x += g.Pitch {
			p.dc.DrawLine(p.v(x), p.v(g.Y), p.v(x), p.v(g.Y+g.Height))
			p.stroke()
		}
		for y := g.Y; y <= g.Y+g.Height; y += g.Pitch {
			p.dc.DrawLine(p.v(g.X), p.v(y), p.v(g.X+g.Width), p.v(y))
			p.stroke()
		}
	}

	p.dc.SetHexColor(g.AxisColor)
	p.dc.SetLineWidth(p.v(1))
	p.dc.DrawLine(p.v(g.X), p.v(g.OriginY), p.v(g.X+g.Width), p.v(g.OriginY))
	p.stroke()
	p.dc.DrawLine(p.v(g.OriginX), p.v(g.Y), p.v(g.OriginX), p.v(g.Y+g.Height))
	p.stroke()

	p.dc.SetFont(p.regular.Face(p.v(10)))
	for _, t := range g.XTicks {
		p.dc.DrawLine(p.v(t.Pos), p.v(g.OriginY), p.v(t.Pos), p.v(g.OriginY+6))
		p.stroke()
		p.dc.DrawStringAnchored(t.Label, p.v(t.Pos), p.v(g.OriginY+18), 0.5, 0)
	}
	for _, t := range g.YTicks {
		p.dc.DrawLine(p.v(g.OriginX-6), p.v(t.Pos), p.v(g.OriginX), p.v(t.Pos))
		p.stroke()
		p.dc.DrawStringAnchored(t.Label, p.v(g.OriginX-9), p.v(t.Pos+3), 1, 0)
	}
}

func (p *painter) glow(g *render.Glow) {
	brush := gg.NewRadialGradientBrush(p.v(g.CX), p.v(g.CY), 0, p.v(g.R)).
		AddColorStop(0, gg.RGBA2(1, 1, 1, g.Opacity)).
		AddColorStop(1, gg.RGBA2(1, 1, 1, 0))
	p.dc.SetFillBrush(brush)
	p.dc.DrawCircle(p.v(g.CX), p.v(g.CY), p.v(g.R))
	p.fill()
}

func (p *painter) dot(d *render.Dot) {
	p.dc.SetHexColor(d.Fill)
	p.dc.DrawCircle(p.v(d.CX), p.v(d.CY), p.v(d.R))
	p.fill()
	if d.StrokeWidth > 0 {
		p.dc.SetHexColor(d.Stroke)
		p.dc.SetLineWidth(p.v(d.StrokeWidth))
		p.dc.DrawCircle(p.v(d.CX), p.v(d.CY), p.v(d.R))
		p.stroke()
	}
}

func (p *painter) line(l *render.Line) {
	p.dc.SetFillBrush(gg.Solid(withAlpha(l.Color, l.Opacity)))
	p.dc.SetLineWidth(p.v(l.Width))
	if len(l.Dash) > 0 {
		dash := make([]float64, len(l.Dash))
		for i, d := range l.Dash {
			dash[i] = p.v(d)
		}
		p.dc.SetDash(dash...)
	}
	p.dc.DrawLine(p.v(l.X1), p.v(l.Y1), p.v(l.X2), p.v(l.Y2))
	p.stroke()
	p.dc.ClearDash()
}

func anchorX(a render.Anchor) float64 {
	switch a {
	case render.AnchorMiddle:
		return 0.5
	case render.AnchorEnd:
		return 1
	default:
		return 0
	}
}

func (p *painter) text(t *render.Text) {
	src := p.regular
	if t.Bold {
		src = p.bold
	}
	p.dc.SetFont(src.Face(p.v(t.Size)))
	p.dc.SetHexColor(t.Color)
	p.dc.DrawStringAnchored(t.Content, p.v(t.X), p.v(t.Y), anchorX(t.Anchor), 0)
}

func (p *painter) legend(l *render.Legend) {
	p.dc.SetFont(p.regular.Face(p.v(l.TextSize)))
	for i, row := range l.Rows {
		y := l.Y + float64(i)*l.RowHeight
		p.dc.SetHexColor(row.Color)
		p.dc.DrawRoundedRectangle(p.v(l.X), p.v(y), p.v(l.Swatch), p.v(l.Swatch), p.v(l.CornerRadius))
		p.fill()
		p.dc.SetHexColor(l.TextColor)
		p.dc.DrawStringAnchored(row.Name, p.v(l.X+l.Swatch+6), p.v(y+l.Swatch/2+0.35*l.TextSize), 0, 0)
	}
}

func (p *painter) tooltip(t *render.Tooltip) {
	const lineHeight = 16.0
	title := p.bold.Face(p.v(12))
	body := p.regular.Face(p.v(11))

	p.dc.SetFont(title)
	w, _ := p.dc.MeasureString(t.Title)
	w = w/p.scale + 16
	p.dc.SetFont(body)
	for _, l := range t.Lines {
		lw, _ := p.dc.MeasureString(l)
		w = max(w, lw/p.scale)
	}
	w += 20
	h := float64(len(t.Lines)+1)*lineHeight + 14

	p.dc.SetRGBA(1, 1, 1, 0.95)
	p.dc.DrawRoundedRectangle(p.v(t.X), p.v(t.Y), p.v(w), p.v(h), p.v(4))
	p.fill()
	p.dc.SetHexColor("#d1d5db")
	p.dc.SetLineWidth(p.v(1))
	p.dc.DrawRoundedRectangle(p.v(t.X), p.v(t.Y), p.v(w), p.v(h), p.v(4))
	p.stroke()

	p.dc.SetHexColor(t.Swatch)
	p.dc.DrawRoundedRectangle(p.v(t.X+10), p.v(t.Y+9), p.v(10), p.v(10), p.v(2))
	p.fill()

	p.dc.SetFont(title)
	p.dc.SetHexColor("#333333")
	p.dc.DrawStringAnchored(t.Title, p.v(t.X+26), p.v(t.Y+18), 0, 0)
	p.dc.SetFont(body)
	p.dc.SetHexColor("#4b5563")
	for i, l := range t.Lines {
		p.dc.DrawStringAnchored(l, p.v(t.X+10), p.v(t.Y+18+float64(i+1)*lineHeight), 0, 0)
	}
}

package svg

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	svgo "github.com/ajstarks/svgo"
	"github.com/google/uuid"

	"github.com/matzehuels/selfmap/pkg/fonts"
	"github.com/matzehuels/selfmap/pkg/render"
	"github.com/matzehuels/selfmap/pkg/render/headless"
)

// Option configures a [Surface].
type Option func(*Surface)

// WithInteraction embeds hover, tooltip and click handling in the document.
func WithInteraction() Option { return func(s *Surface) { s.interactive = true } }

// WithEmbeddedFont embeds Go Regular so converters render identical text.
func WithEmbeddedFont() Option { return func(s *Surface) { s.embedFont = true } }

// WithID fixes the document id instead of generating one.
func WithID(id string) Option { return func(s *Surface) { s.id = id } }

// Surface is a headless surface that encodes to SVG.
type Surface struct {
	*headless.Surface
	id          string
	interactive bool
	embedFont   bool
}

var _ render.Surface = (*Surface)(nil)

// New returns an empty SVG surface.
func New(opts ...Option) *Surface {
	s := &Surface{Surface: headless.New()}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = "selfmap-" + uuid.NewString()[:8]
	}
	return s
}

// ID returns the document id.
func (s *Surface) ID() string { return s.id }

// Interactive reports whether the document embeds interaction.
func (s *Surface) Interactive() bool { return s.interactive }

// Bytes encodes the current scene.
func (s *Surface) Bytes() []byte {
	var buf bytes.Buffer
	s.encode(&buf)
	return buf.Bytes()
}

// Encode writes the current scene to w.
func (s *Surface) Encode(w io.Writer) error {
	_, err := w.Write(s.Bytes())
	return err
}

func (s *Surface) encode(buf *bytes.Buffer) {
	width, height := s.Size()
	canvas := svgo.New(buf)
	canvas.Start(px(width), px(height),
		attr("id", s.id),
		fmt.Sprintf(`viewBox="0 0 %d %d"`, px(width), px(height)))

	elements := s.Elements()
	s.writeDefs(canvas, elements)
	if s.embedFont {
		canvas.Style("text/css", fonts.FontFaceCSS())
	}

	var dots []*render.Dot
	linesWritten := false
	for _, e := range elements {
		if e.Layer > headless.LayerGrid && !linesWritten {
			writeConnections(canvas, elements)
			linesWritten = true
		}
		switch e.Kind {
		case render.KindGrid:
			s.writeGrid(canvas, e.Grid)
		case render.KindGlow:
			canvas.Circle(px(e.Glow.CX), px(e.Glow.CY), px(e.Glow.R),
				fmt.Sprintf("fill:url(#%s)", s.ref("glow")), `pointer-events="none"`, `class="glow"`)
		case render.KindPoint:
			dots = append(dots, e.Dot)
			s.writeDot(canvas, e, len(dots)-1)
		case render.KindText:
			writeText(canvas, e.Text)
		case render.KindLegend:
			writeLegend(canvas, e.Legend)
		case render.KindTooltip:
			writeTooltip(canvas, *e.Tooltip, `class="tooltip"`)
		}
	}

	if !linesWritten {
		writeConnections(canvas, elements)
	}

	if s.interactive {
		for i, d := range dots {
			t := d.Tooltip
			t.X, t.Y = 0, 0
			writeTooltip(canvas, t, `class="popup"`, attr("data-for", popupID(i)), `visibility="hidden"`)
		}
		canvas.Style("text/css", interactionCSS)
		canvas.Script("application/javascript", fmt.Sprintf(interactionJS, s.id))
	}
	canvas.End()
}

func (s *Surface) ref(name string) string { return s.id + "-" + name }

func (s *Surface) writeDefs(canvas *svgo.SVG, elements []headless.Element) {
	glow := render.GlowOpacity
	for _, e := range elements {
		if e.Kind == render.KindGlow {
			glow = e.Glow.Opacity
			break
		}
	}
	pitch := int(render.GridPitch)
	gridColor := render.GridColor
	for _, e := range elements {
		if e.Kind == render.KindGrid {
			pitch, gridColor = px(e.Grid.Pitch), e.Grid.Color
			break
		}
	}

	canvas.Def()
	canvas.RadialGradient(s.ref("glow"), 50, 50, 50, 50, 50, []svgo.Offcolor{
		{Offset: 0, Color: "#ffffff", Opacity: glow},
		{Offset: 100, Color: "#ffffff", Opacity: 0},
	})
	canvas.Pattern(s.ref("grid"), 0, 0, pitch, pitch, "user")
	canvas.Path(fmt.Sprintf("M %d 0 L 0 0 0 %d", pitch, pitch),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:0.5", gridColor))
	canvas.PatternEnd()
	canvas.DefEnd()
}

func (s *Surface) writeGrid(canvas *svgo.SVG, g *render.Grid) {
	canvas.Rect(px(g.X), px(g.Y), px(g.Width), px(g.Height),
		fmt.Sprintf("fill:url(#%s);opacity:%s", s.ref("grid"), num(g.Opacity)), `class="grid"`)

	axis := fmt.Sprintf("stroke:%s;stroke-width:1", g.AxisColor)
	label := fmt.Sprintf("fill:%s;font-size:10px;font-family:%s", g.AxisColor, fonts.SansSerif)

	canvas.Group(`class="axis"`)
	canvas.Line(px(g.X), px(g.OriginY), px(g.X+g.Width), px(g.OriginY), axis)
	canvas.Line(px(g.OriginX), px(g.Y), px(g.OriginX), px(g.Y+g.Height), axis)
	for _, t := range g.XTicks {
		canvas.Line(px(t.Pos), px(g.OriginY), px(t.Pos), px(g.OriginY+6), axis)
		canvas.Text(px(t.Pos), px(g.OriginY+18), t.Label, label+";text-anchor:middle")
	}
	for _, t := range g.YTicks {
		canvas.Line(px(g.OriginX-6), px(t.Pos), px(g.OriginX), px(t.Pos), axis)
		canvas.Text(px(g.OriginX-9), px(t.Pos+3), t.Label, label+";text-anchor:end")
	}
	canvas.Gend()
}

func (s *Surface) writeDot(canvas *svgo.SVG, e headless.Element, i int) {
	d := e.Dot
	attrs := []string{
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%s;cursor:pointer", d.Fill, d.Stroke, num(d.StrokeWidth)),
		`class="dot"`,
		attr("data-name", d.Name),
		attr("data-color", d.Fill),
		attr("data-r", num(e.BaseRadius)),
		attr("data-popup", popupID(i)),
	}
	if d.Href != "" {
		attrs = append(attrs, attr("data-href", d.Href))
	}
	canvas.Circle(px(d.CX), px(d.CY), px(d.R), attrs...)
}

// writeConnections emits the group that holds relationship lines, including
// the ones the embedded script adds on hover.
func writeConnections(canvas *svgo.SVG, elements []headless.Element) {
	canvas.Group(`class="connections"`)
	for _, e := range elements {
		if e.Kind == render.KindLine {
			writeLine(canvas, e.Line)
		}
	}
	canvas.Gend()
}

func writeLine(canvas *svgo.SVG, l *render.Line) {
	style := fmt.Sprintf("stroke:%s;stroke-width:%s;stroke-opacity:%s", l.Color, num(l.Width), num(l.Opacity))
	if len(l.Dash) > 0 {
		dash := make([]string, len(l.Dash))
		for i, d := range l.Dash {
			dash[i] = num(d)
		}
		style += ";stroke-dasharray:" + strings.Join(dash, ",")
	}
	canvas.Line(px(l.X1), px(l.Y1), px(l.X2), px(l.Y2), style, `class="connection"`)
}

func writeText(canvas *svgo.SVG, t *render.Text) {
	style := fmt.Sprintf("font-size:%spx;fill:%s;text-anchor:%s;font-family:%s", num(t.Size), t.Color, anchor(t.Anchor), fonts.SansSerif)
	if t.Bold {
		style += ";font-weight:bold"
	}
	attrs := []string{style}
	if t.Class != "" {
		attrs = append(attrs, attr("class", t.Class))
	}
	canvas.Text(px(t.X), px(t.Y), t.Content, attrs...)
}

func writeLegend(canvas *svgo.SVG, l *render.Legend) {
	canvas.Group(`class="legend"`, fmt.Sprintf(`transform="translate(%s,%s)"`, num(l.X), num(l.Y)))
	sw, r := px(l.Swatch), px(l.CornerRadius)
	for i, row := range l.Rows {
		canvas.Group(fmt.Sprintf(`transform="translate(0,%s)"`, num(float64(i)*l.RowHeight)))
		canvas.Roundrect(0, 0, sw, sw, r, r, "fill:"+row.Color)
		canvas.Text(sw+6, sw/2, row.Name, `dy=".35em"`,
			fmt.Sprintf("fill:%s;font-size:%spx;font-family:%s", l.TextColor, num(l.TextSize), fonts.SansSerif))
		canvas.Gend()
	}
	canvas.Gend()
}

func writeTooltip(canvas *svgo.SVG, t render.Tooltip, attrs ...string) {
	const lineHeight = 16
	longest := len(t.Title) + 3
	for _, l := range t.Lines {
		longest = max(longest, len(l))
	}
	w := longest*7 + 20
	h := (len(t.Lines)+1)*lineHeight + 14

	attrs = append(attrs, fmt.Sprintf(`transform="translate(%s,%s)"`, num(t.X), num(t.Y)))
	canvas.Group(attrs...)
	canvas.Roundrect(0, 0, w, h, 4, 4, "fill:#ffffff;stroke:#d1d5db;stroke-width:1;fill-opacity:0.95")
	canvas.Roundrect(10, 9, 10, 10, 2, 2, "fill:"+t.Swatch)
	canvas.Text(26, 18, t.Title, fmt.Sprintf("font-size:12px;font-weight:bold;fill:#333;font-family:%s", fonts.SansSerif))
	for i, l := range t.Lines {
		canvas.Text(10, 18+(i+1)*lineHeight, l, fmt.Sprintf("font-size:11px;fill:#4b5563;font-family:%s", fonts.SansSerif))
	}
	canvas.Gend()
}

func popupID(i int) string { return fmt.Sprintf("p%d", i) }

func anchor(a render.Anchor) string {
	if a == "" {
		return string(render.AnchorStart)
	}
	return string(a)
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

func px(v float64) int { return int(math.Round(v)) }

func num(v float64) string { return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".") }

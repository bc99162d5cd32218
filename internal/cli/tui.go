package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/render"
	"github.com/matzehuels/selfmap/pkg/render/headless"
	"github.com/matzehuels/selfmap/pkg/viz"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	// tickInterval is how often the explorer advances its scheduler.
	tickInterval = 20 * time.Millisecond

	// headerLines is the number of lines above the canvas.
	headerLines = 3

	defaultCols = 80
	defaultRows = 24
)

// =============================================================================
// Cell Canvas - character-cell rendering of a headless surface
// =============================================================================

// cell is one character of the canvas.
type cell struct {
	ch    rune
	color string // hex or ANSI color; "" is the terminal default
	bold  bool
}

// cellCanvas rasterizes a headless surface onto a cols x rows grid.
type cellCanvas struct {
	cols, rows int
	sx, sy     float64 // cells per surface pixel
	cells      [][]cell
}

func newCellCanvas(cols, rows int, width, height float64) *cellCanvas {
	cv := &cellCanvas{cols: cols, rows: rows}
	if width > 0 && height > 0 {
		cv.sx, cv.sy = float64(cols)/width, float64(rows)/height
	}
	cv.cells = make([][]cell, rows)
	for r := range cv.cells {
		cv.cells[r] = make([]cell, cols)
		for c := range cv.cells[r] {
			cv.cells[r][c] = cell{ch: ' '}
		}
	}
	return cv
}

// toCell maps a surface position to a cell.
func (cv *cellCanvas) toCell(x, y float64) (int, int) {
	return int(math.Floor(x * cv.sx)), int(math.Floor(y * cv.sy))
}

// toSurface maps the center of a cell to a surface position.
func (cv *cellCanvas) toSurface(col, row int) (float64, float64) {
	if cv.sx == 0 || cv.sy == 0 {
		return 0, 0
	}
	return (float64(col) + 0.5) / cv.sx, (float64(row) + 0.5) / cv.sy
}

func (cv *cellCanvas) set(col, row int, c cell) {
	if row < 0 || row >= cv.rows || col < 0 || col >= cv.cols {
		return
	}
	cv.cells[row][col] = c
}

func (cv *cellCanvas) text(col, row int, s, color string, bold bool) {
	for i, r := range []rune(s) {
		cv.set(col+i, row, cell{ch: r, color: color, bold: bold})
	}
}

// line draws a segment with Bresenham's algorithm.
func (cv *cellCanvas) line(x1, y1, x2, y2 float64, ch rune, color string) {
	c0, r0 := cv.toCell(x1, y1)
	c1, r1 := cv.toCell(x2, y2)
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	e := dc + dr
	for {
		if r0 >= 0 && r0 < cv.rows && c0 >= 0 && c0 < cv.cols && cv.cells[r0][c0].ch == ' ' {
			cv.cells[r0][c0] = cell{ch: ch, color: color}
		}
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c0 += sc
		}
		if e2 <= dc {
			e += dc
			r0 += sr
		}
	}
}

// draw paints the elements of s in paint order, then the points again so
// labels never hide them. Tooltips are drawn by the caller below the canvas.
func (cv *cellCanvas) draw(s *headless.Surface) {
	var points []headless.Element
	for _, e := range s.Elements() {
		switch e.Kind {
		case render.KindGrid:
			cv.drawGrid(e.Grid)
		case render.KindLine:
			cv.line(e.Line.X1, e.Line.Y1, e.Line.X2, e.Line.Y2, '·', e.Line.Color)
		case render.KindPoint:
			points = append(points, e)
		case render.KindText:
			cv.drawText(e.Text)
		}
	}
	for _, e := range points {
		ch := '●'
		if e.Dot.R > e.BaseRadius {
			ch = '◉'
		}
		col, row := cv.toCell(e.Dot.CX, e.Dot.CY)
		cv.set(col, row, cell{ch: ch, color: e.Dot.Fill, bold: true})
	}
}

func (cv *cellCanvas) drawGrid(g *render.Grid) {
	cv.line(g.X, g.OriginY, g.X+g.Width, g.OriginY, '─', string(colorDim))
	cv.line(g.OriginX, g.Y, g.OriginX, g.Y+g.Height, '│', string(colorDim))
	col, row := cv.toCell(g.OriginX, g.OriginY)
	cv.set(col, row, cell{ch: '┼', color: string(colorDim)})
}

func (cv *cellCanvas) drawText(t *render.Text) {
	col, row := cv.toCell(t.X, t.Y)
	n := len([]rune(t.Content))
	switch t.Anchor {
	case render.AnchorMiddle:
		col -= n / 2
	case render.AnchorEnd:
		col -= n
	}
	color := string(colorGray)
	if t.Class == "title" {
		color = string(colorCyan)
	}
	cv.text(col, row, t.Content, color, t.Bold)
}

// String renders the canvas, grouping runs of equally styled cells.
func (cv *cellCanvas) String() string {
	var b strings.Builder
	for r, row := range cv.cells {
		if r > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for c := 1; c <= len(row); c++ {
			if c < len(row) && row[c].color == row[start].color && row[c].bold == row[start].bold {
				continue
			}
			var run strings.Builder
			for _, x := range row[start:c] {
				run.WriteRune(x.ch)
			}
			b.WriteString(cellStyle(row[start]).Render(run.String()))
			start = c
		}
	}
	return b.String()
}

func cellStyle(c cell) lipgloss.Style {
	st := lipgloss.NewStyle()
	if c.color != "" {
		st = st.Foreground(lipgloss.Color(c.color))
	}
	return st.Bold(c.bold)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// =============================================================================
// ExploreModel - Interactive chart explorer
// =============================================================================

type tickMsg time.Time

// ExploreModel is the bubbletea model for the explore command. It drives a
// [viz.Controller] over headless surfaces and advances its scheduler on a
// timer, so drill-downs open after the same delay as in a browser.
type ExploreModel struct {
	ctl   *viz.Controller
	sched *viz.ManualScheduler

	cursor map[viz.Role]int
	focus  viz.Role
	last   time.Time
	cols   int
	rows   int
	canvas *cellCanvas

	// Selections lists every category selected, in order.
	Selections []string
}

// NewExploreModel returns a model drawing data through host. The model owns
// the controller's scheduler and selection callback; opts configure the rest.
func NewExploreModel(host viz.Host, data *identity.Map, opts ...viz.Option) *ExploreModel {
	m := &ExploreModel{
		sched:  &viz.ManualScheduler{},
		cursor: map[viz.Role]int{viz.RolePrimary: -1, viz.RoleSecondary: -1},
		focus:  viz.RolePrimary,
		cols:   defaultCols,
		rows:   defaultRows,
	}
	opts = append(opts, viz.WithScheduler(m.sched), viz.WithOnSelect(m.onSelect))
	m.ctl = viz.New(host, data, opts...)
	return m
}

func (m *ExploreModel) onSelect(name string) {
	m.Selections = append(m.Selections, name)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *ExploreModel) Init() tea.Cmd {
	m.ctl.Mount()
	m.last = time.Now()
	return tick()
}

func (m *ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		m.advance(now.Sub(m.last))
		m.last = now
		return m, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.ctl.Close()
			return m, tea.Quit
		case "right", "tab", "l":
			m.step(1)
		case "left", "shift+tab", "h":
			m.step(-1)
		case "enter", " ":
			m.click()
		case "esc", "backspace":
			m.back()
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 20)
		m.rows = max(msg.Height-headerLines-8, 8)
	}
	return m, nil
}

// advance moves the scheduler forward and focuses a secondary chart that
// has just opened.
func (m *ExploreModel) advance(d time.Duration) {
	had := m.ctl.Secondary() != nil
	m.sched.Advance(d)
	if !had && m.ctl.Secondary() != nil {
		m.focus = viz.RoleSecondary
		m.cursor[viz.RoleSecondary] = -1
	}
}

// view returns the focused view, or nil.
func (m *ExploreModel) view() *viz.View {
	if m.focus == viz.RoleSecondary && m.ctl.Secondary() != nil {
		return m.ctl.Secondary()
	}
	m.focus = viz.RolePrimary
	return m.ctl.Primary()
}

// step hovers the next or previous point of the focused chart.
func (m *ExploreModel) step(delta int) {
	v := m.view()
	if v == nil || v.Chart.Len() == 0 {
		return
	}
	n := v.Chart.Len()
	i := (m.cursor[m.focus] + delta + n) % n
	if m.cursor[m.focus] < 0 && delta < 0 {
		i = n - 1
	}
	m.cursor[m.focus] = i
	mark := v.Chart.Marks[i]
	m.ctl.Hover(m.focus, mark.Point.Name, mark.X, mark.Y)
}

// click clicks the hovered point of the focused chart.
func (m *ExploreModel) click() {
	v := m.view()
	if v == nil {
		return
	}
	if name, ok := v.Interaction.Hovered(); ok {
		m.ctl.Click(m.focus, name)
	}
}

// back closes the drill-down, or leaves the hovered point when none is open.
func (m *ExploreModel) back() {
	if _, ok := m.ctl.Selected(); ok {
		m.ctl.Back()
		m.focus = viz.RolePrimary
		return
	}
	if v := m.view(); v != nil {
		if name, ok := v.Interaction.Hovered(); ok {
			m.ctl.Leave(m.focus, name)
		}
	}
}

// mouse routes pointer motion and left clicks to the focused chart.
func (m *ExploreModel) mouse(msg tea.MouseMsg) {
	if m.canvas == nil {
		return
	}
	px, py := m.canvas.toSurface(msg.X, msg.Y-headerLines)
	switch {
	case msg.Action == tea.MouseActionMotion:
		m.ctl.Move(m.focus, px, py)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if name, ok := m.ctl.Move(m.focus, px, py); ok {
			m.ctl.Click(m.focus, name)
		}
	}
}

func (m *ExploreModel) View() string {
	var b strings.Builder

	v := m.view()
	title := "Selfmap"
	if v != nil && v.Chart != nil {
		title = v.Chart.Title
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ hover  ⏎ drill down  esc back  q quit"))
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")

	s, ok := surfaceOf(v)
	if !ok {
		return b.String()
	}
	w, h := s.Size()
	m.canvas = newCellCanvas(m.cols, m.rows, w, h)
	m.canvas.draw(s)
	b.WriteString(m.canvas.String())
	b.WriteString("\n")
	b.WriteString(m.legend(v))

	for _, e := range s.ByKind(render.KindTooltip) {
		b.WriteString("\n")
		b.WriteString(renderTooltip(e.Tooltip))
	}
	return b.String()
}

// status describes the selection state.
func (m *ExploreModel) status() string {
	name, ok := m.ctl.Selected()
	switch {
	case !ok:
		return listDimStyle.Render("No category selected")
	case m.ctl.Pending():
		return listNormalStyle.Render("Opening " + name + "...")
	default:
		return listSelectedStyle.Render("▸ " + name)
	}
}

// legend lists the points of v, marking the hovered one.
func (m *ExploreModel) legend(v *viz.View) string {
	hovered, _ := v.Interaction.Hovered()
	var parts []string
	for _, mark := range v.Chart.Marks {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(mark.Point.Color)).Render("■")
		label := listNormalStyle.Render(mark.Point.Name)
		if mark.Point.Name == hovered {
			label = listSelectedStyle.Render(mark.Point.Name)
		}
		parts = append(parts, swatch+" "+label)
	}
	return strings.Join(parts, listDimStyle.Render("  "))
}

func renderTooltip(t *render.Tooltip) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Swatch)).Render(t.Title)
	lines := append([]string{title}, t.Lines...)
	return styleTooltip.Render(strings.Join(lines, "\n"))
}

func surfaceOf(v *viz.View) (*headless.Surface, bool) {
	if v == nil {
		return nil, false
	}
	s, ok := v.Surface.(*headless.Surface)
	return s, ok
}

// summary describes what happened during an explore session.
func (m *ExploreModel) summary() string {
	if len(m.Selections) == 0 {
		return "No categories explored"
	}
	return fmt.Sprintf("Explored %d selections: %s", len(m.Selections), strings.Join(m.Selections, ", "))
}

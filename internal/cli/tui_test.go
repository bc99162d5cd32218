package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/layout"
	"github.com/matzehuels/selfmap/pkg/render"
	"github.com/matzehuels/selfmap/pkg/render/headless"
	"github.com/matzehuels/selfmap/pkg/viz"
)

func TestCellCanvasMapping(t *testing.T) {
	cv := newCellCanvas(10, 5, 100, 50)

	if c, r := cv.toCell(55, 25); c != 5 || r != 2 {
		t.Errorf("toCell(55, 25) = (%d, %d), want (5, 2)", c, r)
	}
	if x, y := cv.toSurface(5, 2); x != 55 || y != 25 {
		t.Errorf("toSurface(5, 2) = (%v, %v), want (55, 25)", x, y)
	}

	cv.line(0, 0, 99, 0, '-', "")
	cv.set(20, 20, cell{ch: 'x'}) // out of bounds
	lines := strings.Split(cv.String(), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d rows, want 5", len(lines))
	}
	if !strings.Contains(lines[0], "----------") {
		t.Errorf("row 0 = %q, want a full line", lines[0])
	}
}

func TestCellCanvasDrawsPoints(t *testing.T) {
	s := headless.New()
	render.Render(s, layout.Compute(identity.Sample()), render.PrimaryDimensions(), render.Primary)

	cv := newCellCanvas(90, 35, 900, 700)
	cv.draw(s)
	out := cv.String()
	if got := strings.Count(out, "●"); got != identity.Sample().Len() {
		t.Errorf("canvas shows %d points, want %d", got, identity.Sample().Len())
	}
	if !strings.Contains(out, "Personal Identity Map") {
		t.Error("canvas missing title")
	}
}

func newTestExplore(t *testing.T) *ExploreModel {
	t.Helper()
	m := NewExploreModel(viz.NewHeadlessHost(), identity.Sample(), viz.WithDelay(100*time.Millisecond))
	m.Init()
	return m
}

func press(m *ExploreModel, k tea.KeyType) {
	m.Update(tea.KeyMsg{Type: k})
}

func TestExploreHoverCycles(t *testing.T) {
	m := newTestExplore(t)
	names := identity.Sample().Names()

	press(m, tea.KeyRight)
	if got, _ := m.ctl.Primary().Interaction.Hovered(); got != names[0] {
		t.Errorf("hovered %q, want %q", got, names[0])
	}
	press(m, tea.KeyLeft)
	if got, _ := m.ctl.Primary().Interaction.Hovered(); got != names[len(names)-1] {
		t.Errorf("hovered %q after wrap, want %q", got, names[len(names)-1])
	}
	if !strings.Contains(m.View(), "Strength:") {
		t.Error("view should show the tooltip of the hovered point")
	}
}

func TestExploreDrillDownAndBack(t *testing.T) {
	m := newTestExplore(t)

	press(m, tea.KeyLeft) // last sample category: Leadership
	press(m, tea.KeyEnter)
	if len(m.Selections) != 1 || m.Selections[0] != "Leadership" {
		t.Fatalf("selections = %v", m.Selections)
	}
	if !m.ctl.Pending() || m.ctl.Secondary() != nil {
		t.Fatal("drill-down should wait for the delay")
	}

	m.Update(tickMsg(m.last.Add(150 * time.Millisecond)))
	if m.ctl.Secondary() == nil {
		t.Fatal("secondary chart should be open after the delay")
	}
	if m.focus != viz.RoleSecondary {
		t.Error("explorer should focus the new secondary chart")
	}
	if !strings.Contains(m.View(), "Leadership Details") {
		t.Error("view should show the drill-down title")
	}

	// Clicking inside the drill-down never navigates.
	press(m, tea.KeyRight)
	press(m, tea.KeyEnter)
	if len(m.Selections) != 1 {
		t.Errorf("secondary click selected again: %v", m.Selections)
	}

	press(m, tea.KeyEsc)
	if m.ctl.Secondary() != nil {
		t.Error("esc should close the drill-down")
	}
	if _, ok := m.ctl.Selected(); ok {
		t.Error("esc should clear the selection")
	}
}

func TestExploreQuit(t *testing.T) {
	m := newTestExplore(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return the quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if m.ctl.Primary() != nil {
		t.Error("quit should close the charts")
	}
	if !strings.Contains(m.summary(), "No categories") {
		t.Errorf("summary = %q", m.summary())
	}
}

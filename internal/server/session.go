package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/selfmap/pkg/drilldown"
	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/render"
	"github.com/matzehuels/selfmap/pkg/render/svg"
	"github.com/matzehuels/selfmap/pkg/viz"
)

// session is one client's live chart pair. Every access to ctl, including
// the deferred drill-down callback, happens under mu.
type session struct {
	mu       sync.Mutex
	id       string
	ctl      *viz.Controller
	host     *viz.FuncHost
	lastSeen time.Time
}

// sessionStore holds live sessions and evicts idle ones.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	max      int
	ttl      time.Duration
	now      func() time.Time
	onChange func(n int)
}

func newSessionStore(max int, ttl time.Duration, onChange func(int)) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		max:      max,
		ttl:      ttl,
		now:      time.Now,
		onChange: onChange,
	}
}

type sessionParams struct {
	data      *identity.Map
	seed      uint64
	delay     time.Duration
	primary   render.Dimensions
	secondary render.Dimensions
	opts      []viz.Option
	logger    *log.Logger
}

// create mounts a new session. It evicts idle sessions first and reports
// false when the store is still full.
func (st *sessionStore) create(ctx context.Context, p sessionParams) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked()
	if st.max > 0 && len(st.sessions) >= st.max {
		return nil, false
	}

	if p.primary.Width == 0 {
		p.primary = render.PrimaryDimensions()
	}
	if p.secondary.Width == 0 {
		p.secondary = render.SecondaryDimensions()
	}
	if p.delay == 0 {
		p.delay = viz.DefaultDelay
	}
	if p.logger == nil {
		p.logger = log.Default()
	}

	s := &session{id: uuid.NewString(), lastSeen: st.now()}
	s.host = &viz.FuncHost{New: func(viz.Role, render.Dimensions) render.Surface {
		return svg.New(svg.WithInteraction(), svg.WithID("selfmap-"+s.id[:8]))
	}}
	opts := append([]viz.Option{
		viz.WithScheduler(viz.TimerScheduler{Locker: &s.mu}),
		viz.WithGenerator(drilldown.NewSeeded(p.seed)),
		viz.WithDelay(p.delay),
		viz.WithDimensions(p.primary, p.secondary),
		viz.WithLogger(p.logger.With("session", s.id[:8])),
		viz.WithContext(context.WithoutCancel(ctx)),
	}, p.opts...)
	s.ctl = viz.New(s.host, p.data, opts...)

	s.mu.Lock()
	s.ctl.Mount()
	s.mu.Unlock()

	st.sessions[s.id] = s
	st.changedLocked()
	return s, true
}

func (st *sessionStore) get(id string) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if ok {
		s.lastSeen = st.now()
	}
	return s, ok
}

func (st *sessionStore) remove(id string) bool {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.changedLocked()
	st.mu.Unlock()
	if ok {
		s.close()
	}
	return ok
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *sessionStore) closeAll() {
	st.mu.Lock()
	all := st.sessions
	st.sessions = make(map[string]*session)
	st.changedLocked()
	st.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}

func (st *sessionStore) sweepLocked() {
	if st.ttl <= 0 {
		return
	}
	cutoff := st.now().Add(-st.ttl)
	for id, s := range st.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(st.sessions, id)
			go s.close()
		}
	}
}

func (st *sessionStore) changedLocked() {
	if st.onChange != nil {
		st.onChange(len(st.sessions))
	}
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctl.Close()
}

// =============================================================================
// State
// =============================================================================

// sessionState is the JSON view of a session.
type sessionState struct {
	ID        string     `json:"id"`
	Selected  string     `json:"selected,omitempty"`
	Pending   bool       `json:"pending"`
	Primary   *viewState `json:"primary,omitempty"`
	Secondary *viewState `json:"secondary,omitempty"`
}

type viewState struct {
	Role    string   `json:"role"`
	Title   string   `json:"title"`
	Points  []string `json:"points"`
	Hovered string   `json:"hovered,omitempty"`
	Lines   int      `json:"lines"`
	Tooltip bool     `json:"tooltip"`
}

// state snapshots the session. The caller holds s.mu.
func (s *session) state() sessionState {
	st := sessionState{ID: s.id, Pending: s.ctl.Pending()}
	st.Selected, _ = s.ctl.Selected()
	st.Primary = snapshot(s.ctl.Primary())
	st.Secondary = snapshot(s.ctl.Secondary())
	return st
}

func snapshot(v *viz.View) *viewState {
	if v == nil {
		return nil
	}
	names := make([]string, 0, v.Chart.Len())
	for _, m := range v.Chart.Marks {
		names = append(names, m.Point.Name)
	}
	hovered, _ := v.Interaction.Hovered()
	return &viewState{
		Role:    string(v.Role),
		Title:   v.Chart.Title,
		Points:  names,
		Hovered: hovered,
		Lines:   len(v.Interaction.Lines()),
		Tooltip: v.Interaction.Tooltip() != render.NoHandle,
	}
}

// svg encodes the current scene of role, including hover decorations.
// The caller holds s.mu.
func (s *session) svg(role viz.Role) ([]byte, bool) {
	v := s.ctl.Primary()
	if role == viz.RoleSecondary {
		v = s.ctl.Secondary()
	}
	if v == nil {
		return nil, false
	}
	surface, ok := v.Surface.(*svg.Surface)
	if !ok {
		return nil, false
	}
	return surface.Bytes(), true
}

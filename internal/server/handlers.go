package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/selfmap/pkg/drilldown"
	"github.com/matzehuels/selfmap/pkg/errors"
	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/pipeline"
	"github.com/matzehuels/selfmap/pkg/viz"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

// =============================================================================
// Pages
// =============================================================================

func drillPath(name string) string { return "/drill/" + url.PathEscape(name) }

func (s *Server) handlePrimaryPage(w http.ResponseWriter, r *http.Request) {
	opts := s.chartOptions(pipeline.RolePrimary, "")
	opts.Interactive = true
	opts.Links = drillPath
	res, err := s.runner.Execute(r.Context(), s.data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePage(w, r, page{
		Title: "Personal Identity Map",
		Chart: res.Artifacts[pipeline.FormatSVG],
	})
}

func (s *Server) handleDrillPage(w http.ResponseWriter, r *http.Request) {
	category, err := categoryParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detail, err := s.runner.Expand(r.Context(), category, s.cfg.Seed)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.chartOptions(pipeline.RoleSecondary, category)
	opts.Interactive = true
	res, err := s.runner.Execute(r.Context(), detail, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePage(w, r, page{
		Title:   category + " Details",
		Chart:   res.Artifacts[pipeline.FormatSVG],
		BackURL: "/",
		Curated: drilldown.Known(category),
	})
}

// =============================================================================
// API
// =============================================================================

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := identity.WriteJSON(w, s.data); err != nil {
		s.logger.Warn("write map", "error", err)
	}
}

func (s *Server) handleDrill(w http.ResponseWriter, r *http.Request) {
	category, err := categoryParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detail, err := s.runner.Expand(r.Context(), category, s.cfg.Seed)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	inner, err := detail.MarshalJSON()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	key, _ := json.Marshal(drilldown.DetailKey(category))
	var buf bytes.Buffer
	buf.WriteString("{")
	buf.Write(key)
	buf.WriteString(":")
	buf.Write(inner)
	buf.WriteString("}\n")

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	role := q.Get("role")
	if role == "" {
		role = pipeline.RolePrimary
	}
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	category := q.Get("category")

	data := s.data
	if role == pipeline.RoleSecondary {
		if err := errors.ValidateCategoryName(category); err != nil {
			s.writeError(w, r, err)
			return
		}
		detail, err := s.runner.Expand(r.Context(), category, s.cfg.Seed)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		data = detail
	}

	opts := s.chartOptions(role, category)
	opts.Formats = []string{format}
	if mode := q.Get("mode"); mode != "" {
		opts.Mode = mode
	}
	opts.VizType = q.Get("viz")
	opts.Interactive, _ = strconv.ParseBool(q.Get("interactive"))
	if scale := q.Get("scale"); scale != "" {
		f, err := strconv.ParseFloat(scale, 64)
		if err != nil || f <= 0 || f > 8 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "scale must be a number in (0, 8]"))
			return
		}
		opts.Scale = f
	}

	res, err := s.runner.Execute(r.Context(), data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) chartOptions(role, category string) pipeline.Options {
	opts := pipeline.Options{Role: role, Category: category, Logger: s.logger}
	dims, mode := s.cfg.Primary, s.cfg.PrimaryMode
	if role == pipeline.RoleSecondary {
		dims, mode = s.cfg.Secondary, s.cfg.SecondaryMode
	}
	opts.Width, opts.Height, opts.Margin = dims.Width, dims.Height, &dims.Margin
	opts.Mode = string(mode)
	return opts
}

// =============================================================================
// Sessions
// =============================================================================

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.create(r.Context(), sessionParams{
		data:      s.data,
		seed:      s.cfg.Seed,
		delay:     s.cfg.DrillDelay,
		primary:   s.cfg.Primary,
		secondary: s.cfg.Secondary,
		opts:      []viz.Option{viz.WithModes(s.cfg.PrimaryMode, s.cfg.SecondaryMode)},
		logger:    s.logger,
	})
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "too many live sessions", Code: "UNAVAILABLE"})
		return
	}
	sess.mu.Lock()
	state := sess.state()
	sess.mu.Unlock()
	writeJSON(w, http.StatusCreated, state)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "session not found", Code: string(errors.ErrCodeFileNotFound)})
	}
	return sess, ok
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	state := sess.state()
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSessionSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	role := viz.Role(r.URL.Query().Get("role"))
	if role == "" {
		role = viz.RolePrimary
	}
	sess.mu.Lock()
	data, ok := sess.svg(role)
	sess.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf("no %s chart", role), Code: string(errors.ErrCodeFileNotFound)})
		return
	}
	w.Header().Set("Content-Type", contentTypes[pipeline.FormatSVG])
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.remove(chi.URLParam(r, "id")) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "session not found", Code: string(errors.ErrCodeFileNotFound)})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type eventKind int

const (
	eventHover eventKind = iota
	eventLeave
	eventClick
	eventBack
)

type eventRequest struct {
	Role string  `json:"role"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type eventResponse struct {
	OK    bool         `json:"ok"`
	State sessionState `json:"state"`
}

func (s *Server) handleSessionEvent(kind eventKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		var req eventRequest
		if kind != eventBack {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode event"))
				return
			}
		}
		role := viz.Role(req.Role)
		if role == "" {
			role = viz.RolePrimary
		}
		if role != viz.RolePrimary && role != viz.RoleSecondary {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid role: %q", req.Role))
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()
		resp := eventResponse{OK: true}
		switch kind {
		case eventHover:
			resp.OK = sess.ctl.Hover(role, req.Name, req.X, req.Y)
		case eventLeave:
			sess.ctl.Leave(role, req.Name)
		case eventClick:
			resp.OK = sess.ctl.Click(role, req.Name)
		case eventBack:
			sess.ctl.Back()
		}
		resp.State = sess.state()
		writeJSON(w, http.StatusOK, resp)
	}
}

// =============================================================================
// Helpers
// =============================================================================

func categoryParam(r *http.Request) (string, error) {
	category := chi.URLParam(r, "category")
	if err := errors.ValidateCategoryName(category); err != nil {
		return "", err
	}
	return category, nil
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Error: errors.UserMessage(err), Code: string(errors.GetCode(err))})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package pipeline

import (
	"bytes"
	"context"
	"math"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/selfmap/pkg/cache"
	"github.com/matzehuels/selfmap/pkg/errors"
	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/layout"
	"github.com/matzehuels/selfmap/pkg/observability"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"SVG", true},
		{"gif", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestValidateRoleAndVizType(t *testing.T) {
	for _, r := range []string{"primary", "secondary"} {
		if err := ValidateRole(r); err != nil {
			t.Errorf("ValidateRole(%q): %v", r, err)
		}
	}
	if ValidateRole("tertiary") == nil {
		t.Error("unknown role should fail")
	}
	for _, v := range []string{"chart", "nodelink"} {
		if err := ValidateVizType(v); err != nil {
			t.Errorf("ValidateVizType(%q): %v", v, err)
		}
	}
	if ValidateVizType("treemap") == nil {
		t.Error("unknown viz type should fail")
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	var primary Options
	primary.SetLayoutDefaults()
	if primary.Role != RolePrimary || primary.Mode != "radial" || primary.Width != 900 || primary.Height != 700 {
		t.Errorf("primary defaults = %v", primary)
	}

	secondary := Options{Role: RoleSecondary, Category: "Leadership"}
	secondary.SetLayoutDefaults()
	if secondary.Mode != "bucketed" || secondary.Width != 800 || secondary.Height != 600 {
		t.Errorf("secondary defaults = %v", secondary)
	}
	if secondary.BaseSize() != layout.SecondaryBaseSize || secondary.title() != "Leadership Details" {
		t.Errorf("secondary base %v title %q", secondary.BaseSize(), secondary.title())
	}
}

func TestValidateForRender(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad mode", Options{Mode: "spiral"}, errors.ErrCodeInvalidMode},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad role", Options{Role: "x"}, errors.ErrCodeInvalidInput},
		{"no plot area", Options{Width: 100, Height: 100}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRender()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{Interactive: true}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if !o.ArtifactKeyOpts(FormatSVG).Interactive {
		t.Error("SVG key should carry the interactive flag")
	}
	if o.ArtifactKeyOpts(FormatPNG).Interactive {
		t.Error("PNG key should ignore the interactive flag")
	}
	if o.ArtifactKeyOpts(FormatSVG) == o.ArtifactKeyOpts(FormatDOT) {
		t.Error("formats should key separately")
	}
}

func TestExecuteFormats(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), identity.Sample(), Options{
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	svg := string(res.Artifacts[FormatSVG])
	if n := strings.Count(svg, `class="dot"`); n != 5 {
		t.Errorf("svg dots = %d, want 5", n)
	}
	if !strings.Contains(svg, "Personal Identity Map") {
		t.Error("svg should contain the primary title")
	}

	l, err := UnmarshalLayout(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	var names []string
	for _, p := range l.Points {
		names = append(names, p.Name)
	}
	if !slices.Equal(names, identity.Sample().Names()) {
		t.Errorf("json order = %v", names)
	}
	if l.Variant != "primary" || l.Mode != "radial" {
		t.Errorf("json variant %q mode %q", l.Variant, l.Mode)
	}

	dot := string(res.Artifacts[FormatDOT])
	if strings.Count(dot, " -- ") != 10 {
		t.Errorf("dot edges = %d, want 10", strings.Count(dot, " -- "))
	}
	if res.Stats.Entries != 5 || res.DataHash == "" {
		t.Errorf("stats %+v hash %q", res.Stats, res.DataHash)
	}
}

func TestExecutePNG(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), identity.Sample(), Options{Formats: []string{FormatPNG}, Scale: 1})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !bytes.HasPrefix(res.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact should start with the PNG signature")
	}
}

func TestExecuteCaches(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	opts := Options{Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, identity.Sample(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(ctx, identity.Sample(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	opts.Refresh = true
	third, _ := r.Execute(ctx, identity.Sample(), opts)
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteSecondary(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	detail, err := r.Expand(ctx, "Leadership", 3)
	if err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, detail, Options{Role: RoleSecondary, Category: "Leadership", Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	l, _ := UnmarshalLayout(res.Artifacts[FormatJSON])
	if l.Title != "Leadership Details" || l.Mode != "bucketed" || len(l.Points) != 5 {
		t.Errorf("layout = %q %q %d points", l.Title, l.Mode, len(l.Points))
	}
	for _, p := range l.Points {
		if !near(p.Size, 6*1.4) && !near(p.Size, 6*1.8) {
			t.Errorf("%s size %v outside the 7-10 buckets", p.Name, p.Size)
		}
	}
}

func TestExpandDeterministic(t *testing.T) {
	ctx := context.Background()
	fc, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(fc, nil, nil)

	a, _ := r.Expand(ctx, "Technical Mastery", 9)
	b, _ := NewRunner(nil, nil, nil).Expand(ctx, "Technical Mastery", 9)
	c, _ := r.Expand(ctx, "Technical Mastery", 9)

	for _, m := range []*identity.Map{b, c} {
		if !slices.Equal(a.Names(), m.Names()) {
			t.Fatalf("names differ: %v vs %v", a.Names(), m.Names())
		}
		for _, name := range a.Names() {
			ra, _ := a.Get(name)
			rm, _ := m.Get(name)
			if ra != rm {
				t.Errorf("%s: %+v vs %+v", name, ra, rm)
			}
		}
	}
}

func TestRoundTripPoints(t *testing.T) {
	o := Options{}
	o.SetLayoutDefaults()
	points := GenerateLayout(identity.Sample(), o)
	back := ExportLayout(points, o).ToPoints()
	for i := range points {
		p, q := points[i], back[i]
		if p.Name != q.Name || p.X != q.X || p.Y != q.Y || p.Size != q.Size || p.Color != q.Color || *p.Details != *q.Details {
			t.Errorf("point %d: %+v vs %+v", i, p, q)
		}
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu      sync.Mutex
	layouts int
	renders [][]string
}

func (h *recordingHooks) OnLayoutComplete(context.Context, string, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.layouts++
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renders = append(h.renders, formats)
}

func TestPipelineHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), identity.Sample(), Options{Formats: []string{FormatDOT}}); err != nil {
		t.Fatal(err)
	}
	if hooks.layouts != 1 || len(hooks.renders) != 1 || hooks.renders[0][0] != FormatDOT {
		t.Errorf("hooks: layouts=%d renders=%v", hooks.layouts, hooks.renders)
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

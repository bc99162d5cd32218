package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/pipeline"
)

// runCLI executes the root command with args against an isolated config and
// cache directory.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SELFMAP_CACHE_DIR", filepath.Join(dir, "cache"))

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "config.yaml")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces trimmed", "svg, dot ,", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "", "selfmap"},
		{"", "data/me.toml", "me"},
		{"out/chart.svg", "me.json", "out/chart"},
		{"out/chart", "me.json", "out/chart"},
		{"chart.backup", "", "chart.backup"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input, "selfmap"); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Leadership":          "leadership",
		"Creative Expression": "creative-expression",
		"  R&D / Ops  ":       "r-d-ops",
		"":                    "",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	paths, err := writeArtifacts(artifacts, []string{"svg", "json"}, "", filepath.Join(dir, "nested", "chart"))
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	if len(paths) != 2 || !strings.HasSuffix(paths[0], "chart.svg") || !strings.HasSuffix(paths[1], "chart.json") {
		t.Fatalf("paths = %v", paths)
	}

	single := filepath.Join(dir, "exact.out")
	paths, err = writeArtifacts(artifacts, []string{"svg"}, single, "ignored")
	if err != nil || len(paths) != 1 || paths[0] != single {
		t.Fatalf("single output: paths = %v, err = %v", paths, err)
	}
}

func TestRenderCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "map")
	if _, err := runCLI(t, "render", "-o", out, "-f", "svg,json"); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(out + ".svg")
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if got := bytes.Count(svg, []byte(`class="dot"`)); got != identity.Sample().Len() {
		t.Errorf("svg has %d dots, want %d", got, identity.Sample().Len())
	}
	if !bytes.Contains(svg, []byte("creative-expression.svg")) {
		t.Error("interactive svg should link points to drill-down files")
	}

	data, err := os.ReadFile(out + ".json")
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	l, err := pipeline.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("layout json: %v", err)
	}
	if len(l.Points) != identity.Sample().Len() {
		t.Errorf("layout has %d points", len(l.Points))
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"render", "-f", "gif"}},
		{"bad mode", []string{"render", "--mode", "spiral", "-o", filepath.Join(t.TempDir(), "x")}},
		{"missing file", []string{"render", "no-such-file.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDrillCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "lead.json")
	if _, err := runCLI(t, "drill", "Leadership", "-f", "json", "-o", out, "--seed", "7"); err != nil {
		t.Fatalf("drill: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	l, err := pipeline.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("layout json: %v", err)
	}
	if l.Title != "Leadership Details" {
		t.Errorf("title = %q", l.Title)
	}
	if len(l.Points) != 5 {
		t.Errorf("got %d points, want 5 curated aspects", len(l.Points))
	}
}

func TestDrillCommandInvalidCategory(t *testing.T) {
	if _, err := runCLI(t, "drill", "   "); err == nil {
		t.Error("blank category should be rejected")
	}
}

func TestConfigCommands(t *testing.T) {
	out, err := runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, key := range []string{"width: 900", "mode: radial", "secondary_mode: bucketed"} {
		if !strings.Contains(out, key) {
			t.Errorf("config show missing %q:\n%s", key, out)
		}
	}

	out, err = runCLI(t, "config", "path")
	if err != nil || !strings.HasSuffix(strings.TrimSpace(out), "config.yaml") {
		t.Errorf("config path = %q, err = %v", out, err)
	}
}

func TestCacheCommands(t *testing.T) {
	out, err := runCLI(t, "cache", "path")
	if err != nil || !strings.HasSuffix(strings.TrimSpace(out), "cache") {
		t.Errorf("cache path = %q, err = %v", out, err)
	}
	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Errorf("cache clear on empty cache: %v", err)
	}
}

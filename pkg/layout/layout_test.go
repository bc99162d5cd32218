package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/selfmap/pkg/errors"
	"github.com/matzehuels/selfmap/pkg/identity"
)

const eps = 1e-9

func TestComputeOnePointPerEntry(t *testing.T) {
	m := identity.Sample()
	points := Compute(m)

	if len(points) != m.Len() {
		t.Fatalf("len(points) = %d, want %d", len(points), m.Len())
	}
	seen := map[string]bool{}
	for i, p := range points {
		if seen[p.Name] {
			t.Errorf("duplicate point %q", p.Name)
		}
		seen[p.Name] = true
		if !m.Has(p.Name) {
			t.Errorf("point %q has no matching entry", p.Name)
		}
		if p.Index != i {
			t.Errorf("%s.Index = %d, want %d", p.Name, p.Index, i)
		}
	}
}

func TestComputeEmpty(t *testing.T) {
	if got := Compute(identity.New()); len(got) != 0 {
		t.Errorf("Compute(empty) = %v, want empty", got)
	}
	if got := Compute(nil); len(got) != 0 {
		t.Errorf("Compute(nil) = %v, want empty", got)
	}
}

func TestComputePlacement(t *testing.T) {
	m := identity.FromEntries(
		identity.Entry{Name: "a", Record: identity.Record{Strength: 6}},
		identity.Entry{Name: "b", Record: identity.Record{Strength: 10}},
		identity.Entry{Name: "c", Record: identity.Record{Strength: 0}},
		identity.Entry{Name: "d", Record: identity.Record{Strength: 8}},
	)
	points := Compute(m)

	tests := []struct {
		name  string
		angle float64
		x, y  float64
	}{
		{"a", 0, 4, 0},
		{"b", math.Pi / 2, 0, 0},
		{"c", math.Pi, -10, 0},
		{"d", 3 * math.Pi / 2, 0, -2},
	}
	for i, tt := range tests {
		p := points[i]
		if p.Name != tt.name {
			t.Fatalf("points[%d].Name = %q, want %q", i, p.Name, tt.name)
		}
		if math.Abs(p.Angle-tt.angle) > eps {
			t.Errorf("%s.Angle = %v, want %v", p.Name, p.Angle, tt.angle)
		}
		if math.Abs(p.X-tt.x) > eps || math.Abs(p.Y-tt.y) > eps {
			t.Errorf("%s = (%v, %v), want (%v, %v)", p.Name, p.X, p.Y, tt.x, tt.y)
		}
	}
}

func TestRadiusNonIncreasingInStrength(t *testing.T) {
	prev := math.Inf(1)
	for s := 0; s <= 10; s++ {
		m := identity.FromEntries(
			identity.Entry{Name: "x", Record: identity.Record{Strength: s}},
			identity.Entry{Name: "y", Record: identity.Record{Strength: 3}},
			identity.Entry{Name: "z", Record: identity.Record{Strength: 9}},
		)
		for _, mode := range []Mode{Radial, Bucketed} {
			p := Compute(m, WithMode(mode))[0]
			r := p.Radius()
			if r > prev+eps {
				t.Errorf("strength %d: radius %v > previous %v", s, r, prev)
			}
			if math.Abs(p.X) > DomainMax+eps || math.Abs(p.Y) > DomainMax+eps {
				t.Errorf("strength %d: (%v, %v) outside domain", s, p.X, p.Y)
			}
		}
		prev = Compute(m)[0].Radius()
	}
}

func TestSize(t *testing.T) {
	tests := []struct {
		mode     Mode
		strength int
		base     float64
		want     float64
	}{
		{Radial, 10, PrimaryBaseSize, 1},
		{Radial, 0, PrimaryBaseSize, 11},
		{Radial, 5, SecondaryBaseSize, 6},
		{Bucketed, 10, PrimaryBaseSize, 7 * 1.8},
		{Bucketed, 9, PrimaryBaseSize, 7 * 1.4},
		{Bucketed, 5, PrimaryBaseSize, 7 * 1.4},
		{Bucketed, 4, PrimaryBaseSize, 7},
		{Bucketed, 10, SecondaryBaseSize, 6 * 1.8},
		{Bucketed, 7, SecondaryBaseSize, 6 * 1.4},
	}
	for _, tt := range tests {
		if got := Size(tt.mode, tt.strength, tt.base); math.Abs(got-tt.want) > eps {
			t.Errorf("Size(%s, %d, %v) = %v, want %v", tt.mode, tt.strength, tt.base, got, tt.want)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	a := Compute(identity.Sample(), WithMode(Bucketed))
	b := Compute(identity.Sample(), WithMode(Bucketed))
	for i := range a {
		if a[i].X != b[i].X || a[i].Y != b[i].Y || a[i].Color != b[i].Color || a[i].Size != b[i].Size {
			t.Errorf("points[%d] differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestDetailsAreCopies(t *testing.T) {
	m := identity.Sample()
	points := Compute(m)
	m.Set("Leadership", identity.Record{Strength: 1})

	for _, p := range points {
		if p.Name == "Leadership" && p.Details.Strength != 5 {
			t.Errorf("Details.Strength = %d, want 5", p.Details.Strength)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", Radial, false},
		{"radial", Radial, false},
		{"Bucketed", Bucketed, false},
		{" bucketed ", Bucketed, false},
		{"spiral", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidMode) {
			t.Errorf("ParseMode(%q) code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

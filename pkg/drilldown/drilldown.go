// Package drilldown synthesizes the child dataset shown when a category is
// selected.
//
// [Generator.Expand] returns a single-key map, "<category> Detail Map", whose
// value is an [identity.Map] of exactly five sub-categories. Known categories
// use a curated sub-category list; anything else falls back to
// "Aspect 1" through "Aspect 5". Every synthesized record has a strength
// drawn uniformly from [7, 10] and templated text:
//
//	Title:   "<sub> Specialist"
//	Beliefs: "Mastering <sub, lowercased> leads to excellence"
//	Style:   "Focused on <sub, lowercased> development"
//
// Randomness comes from an injected source, so seeded generators are
// reproducible:
//
//	g := drilldown.NewSeeded(42)
//	detail := g.Detail("Leadership")
package drilldown

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/matzehuels/selfmap/pkg/identity"
)

// Size is the number of sub-categories in every detail map.
const Size = 5

// Strength bounds of synthesized records.
const (
	MinStrength = 7
	MaxStrength = 10
)

var curated = map[string][]string{
	"Creative Expression": {"Artistic Projects", "Innovation Methods", "Creative Process", "Inspiration Sources", "Artistic Community"},
	"Technical Mastery":   {"Core Skills", "Learning Path", "Problem Solving", "Technical Tools", "Knowledge Sharing"},
	"Community Building":  {"Network Growth", "Engagement", "Support Systems", "Collaboration", "Impact Measurement"},
	"Personal Growth":     {"Learning Goals", "Self-Reflection", "Habits", "Mindfulness", "Future Vision"},
	"Leadership":          {"Team Building", "Vision Setting", "Mentorship", "Decision Making", "Strategic Planning"},
}

var fallback = []string{"Aspect 1", "Aspect 2", "Aspect 3", "Aspect 4", "Aspect 5"}

// Known reports whether category has a curated sub-category list.
func Known(category string) bool {
	_, ok := curated[category]
	return ok
}

// Categories returns the curated category names, sorted.
func Categories() []string {
	names := make([]string, 0, len(curated))
	for name := range curated {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SubCategories returns the five sub-category names used for category.
func SubCategories(category string) []string {
	if subs, ok := curated[category]; ok {
		return slices.Clone(subs)
	}
	return slices.Clone(fallback)
}

// DetailKey returns the single key of an expanded map.
func DetailKey(category string) string {
	return category + " Detail Map"
}

// Generator synthesizes detail maps. It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// New returns a generator drawing from src. A nil src uses a randomly seeded
// PCG source.
func New(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{rng: rand.New(src)}
}

// NewSeeded returns a reproducible generator.
func NewSeeded(seed uint64) *Generator {
	return New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Expand returns {"<category> Detail Map": detail}.
func (g *Generator) Expand(category string) map[string]*identity.Map {
	return map[string]*identity.Map{DetailKey(category): g.Detail(category)}
}

// Detail returns the five-entry child map for category.
func (g *Generator) Detail(category string) *identity.Map {
	m := identity.New()
	for _, sub := range SubCategories(category) {
		lower := strings.ToLower(sub)
		m.Set(sub, identity.Record{
			Strength: MinStrength + g.rng.IntN(MaxStrength-MinStrength+1),
			Title:    sub + " Specialist",
			Beliefs:  "Mastering " + lower + " leads to excellence",
			Style:    "Focused on " + lower + " development",
		})
	}
	return m
}

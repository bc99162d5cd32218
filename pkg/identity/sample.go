package identity

// Sample returns the demonstration dataset used when no input file is given.
func Sample() *Map {
	return FromEntries(
		Entry{"Creative Expression", Record{
			Strength: 8,
			Title:    "Creative Lead",
			Beliefs:  "Creativity drives innovation",
			Style:    "Experimental approach",
		}},
		Entry{"Technical Mastery", Record{
			Strength: 6,
			Title:    "Technical Expert",
			Beliefs:  "Continuous learning is key",
			Style:    "Analytical mindset",
		}},
		Entry{"Community Building", Record{
			Strength: 9,
			Title:    "Community Manager",
			Beliefs:  "Strong communities create value",
			Style:    "Inclusive leadership",
		}},
		Entry{"Personal Growth", Record{
			Strength: 7,
			Title:    "Growth Advocate",
			Beliefs:  "Always evolving",
			Style:    "Reflective practice",
		}},
		Entry{"Leadership", Record{
			Strength: 5,
			Title:    "Emerging Leader",
			Beliefs:  "Lead by example",
			Style:    "Collaborative approach",
		}},
	)
}

package layout

// Set3 is the 12-color qualitative palette used for categories.
var Set3 = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
	"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

// Ordinal assigns palette colors to names in first-seen order.
type Ordinal struct {
	palette []string
	seen    map[string]int
}

// NewOrdinal returns an Ordinal over palette. An empty palette falls back to
// [Set3].
func NewOrdinal(palette []string) *Ordinal {
	if len(palette) == 0 {
		palette = Set3
	}
	return &Ordinal{palette: palette, seen: make(map[string]int)}
}

// Color returns the color for name, assigning the next palette slot on first
// use.
func (o *Ordinal) Color(name string) string {
	i, ok := o.seen[name]
	if !ok {
		i = len(o.seen)
		o.seen[name] = i
	}
	return o.palette[i%len(o.palette)]
}

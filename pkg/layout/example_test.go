package layout_test

import (
	"fmt"

	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/layout"
)

func ExampleCompute() {
	m := identity.New()
	m.Set("Leadership", identity.Record{Strength: 5})
	m.Set("Personal Growth", identity.Record{Strength: 10})

	for _, p := range layout.Compute(m, layout.WithMode(layout.Bucketed)) {
		fmt.Printf("%s r=%.0f size=%.1f %s\n", p.Name, p.Radius(), p.Size, p.Color)
	}
	// Output:
	// Leadership r=5 size=9.8 #8dd3c7
	// Personal Growth r=0 size=12.6 #ffffb3
}

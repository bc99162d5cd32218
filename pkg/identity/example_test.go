package identity_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/selfmap/pkg/identity"
)

func ExampleReadJSON() {
	m, err := identity.ReadJSON(strings.NewReader(`{
		"Leadership": {"Strength": 5},
		"Creative Expression": {"Strength": 8}
	}`))
	if err != nil {
		panic(err)
	}
	for _, e := range m.Entries() {
		fmt.Println(e.Name, e.Record.Strength)
	}
	// Output:
	// Leadership 5
	// Creative Expression 8
}

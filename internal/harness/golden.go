package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/rydberg-labs/circopt/circuit"
)

// Goldie returns a golden-file comparer configured for harness tests.
// Fixtures live under testdata/golden with a .golden suffix; run tests
// with -update to regenerate.
func Goldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// AssertCircuitGolden compares the circuit's textual rendering against
// the named golden fixture.
func AssertCircuitGolden(t *testing.T, g *goldie.Goldie, name string, c *circuit.Circuit) {
	t.Helper()
	g.Assert(t, name, []byte(c.String()))
}

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rydberg-labs/circopt/internal/cache"
	"github.com/rydberg-labs/circopt/internal/harness"
	"github.com/rydberg-labs/circopt/internal/pipeline"
)

const sweepPipeline = `pipeline: {
	name: "sweep"
	passes: [{name: "remove_redundancies"}]
}
`

const doubleHCircuit = `qubits: 1
gates:
  - {op: H, qubits: [0]}
  - {op: H, qubits: [0]}
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	pipe := writeFile(t, dir, "pipeline.cue", sweepPipeline)
	circ := writeFile(t, dir, "circuit.yaml", doubleHCircuit)

	out, err := execute(t, "run", "-p", pipe, circ)
	require.NoError(t, err)
	assert.Equal(t, "qubits: 1\n", out)
}

func TestRunCommandYAMLFormat(t *testing.T) {
	dir := t.TempDir()
	pipe := writeFile(t, dir, "pipeline.cue", sweepPipeline)
	circ := writeFile(t, dir, "circuit.yaml", doubleHCircuit)

	out, err := execute(t, "run", "-f", "yaml", "-p", pipe, circ)
	require.NoError(t, err)
	assert.Contains(t, out, "qubits: 1")
}

func TestRunCommandCacheHit(t *testing.T) {
	dir := t.TempDir()
	pipe := writeFile(t, dir, "pipeline.cue", sweepPipeline)
	circ := writeFile(t, dir, "circuit.yaml", doubleHCircuit)
	db := filepath.Join(dir, "cache.db")

	// Prime the cache with a sentinel under the key the command derives.
	spec, err := pipeline.LoadFile(pipe)
	require.NoError(t, err)
	input, err := harness.LoadCircuit(circ)
	require.NoError(t, err)
	inputDoc, err := harness.MarshalCircuit(input)
	require.NoError(t, err)

	store, err := cache.Open(db)
	require.NoError(t, err)
	_, err = store.Put(context.Background(), spec.Fingerprint(), string(inputDoc), "cached sentinel")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	out, err := execute(t, "run", "--cache", db, "-p", pipe, circ)
	require.NoError(t, err)
	assert.Equal(t, "cached sentinel", out)
}

func TestRunCommandPopulatesCache(t *testing.T) {
	dir := t.TempDir()
	pipe := writeFile(t, dir, "pipeline.cue", sweepPipeline)
	circ := writeFile(t, dir, "circuit.yaml", doubleHCircuit)
	db := filepath.Join(dir, "cache.db")

	first, err := execute(t, "run", "--cache", db, "-p", pipe, circ)
	require.NoError(t, err)
	second, err := execute(t, "run", "--cache", db, "-p", pipe, circ)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	store, err := cache.Open(db)
	require.NoError(t, err)
	defer store.Close()
	n, err := store.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCacheLsCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "cache.db")

	store, err := cache.Open(db)
	require.NoError(t, err)
	key, err := store.Put(context.Background(), "sweep/abc123", "in-doc", "out-doc")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	out, err := execute(t, "cache", "ls", db)
	require.NoError(t, err)
	assert.Contains(t, out, key[:12])
	assert.Contains(t, out, "sweep/abc123")

	out, err = execute(t, "cache", "ls", "-f", "yaml", db)
	require.NoError(t, err)
	assert.Contains(t, out, "key: "+key)
	assert.Contains(t, out, "pipeline: sweep/abc123")
}

func TestRunCommandPassError(t *testing.T) {
	dir := t.TempDir()
	pipe := writeFile(t, dir, "pipeline.cue", `pipeline: passes: [{name: "clifford_simp"}]`)
	circ := writeFile(t, dir, "circuit.yaml", "qubits: 1\ngates:\n  - {op: Custom, qubits: [0]}\n")

	_, err := execute(t, "run", "-p", pipe, circ)
	require.Error(t, err)
	var ee *ExitError
	require.True(t, AsExitError(err, &ee))
	assert.Equal(t, ExitPassError, ee.Code)
}

func TestRunCommandBadCircuit(t *testing.T) {
	dir := t.TempDir()
	pipe := writeFile(t, dir, "pipeline.cue", sweepPipeline)
	circ := writeFile(t, dir, "circuit.yaml", "qubits: 1\ngates:\n  - {op: Frobnicate, qubits: [0]}\n")

	_, err := execute(t, "run", "-p", pipe, circ)
	require.Error(t, err)
	var ee *ExitError
	require.True(t, AsExitError(err, &ee))
	assert.Equal(t, ExitUsage, ee.Code)
}

func TestInvalidFormatFlag(t *testing.T) {
	_, err := execute(t, "passes", "-f", "xml")
	require.Error(t, err)
	var ee *ExitError
	require.True(t, AsExitError(err, &ee))
	assert.Equal(t, ExitUsage, ee.Code)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	pipe := writeFile(t, dir, "pipeline.cue", sweepPipeline)

	out, err := execute(t, "validate", pipe)
	require.NoError(t, err)
	assert.Equal(t, "pipeline sweep: 1 pass(es) ok\n", out)
}

func TestValidateCommandUnknownPass(t *testing.T) {
	dir := t.TempDir()
	pipe := writeFile(t, dir, "pipeline.cue", `pipeline: passes: [{name: "no_such_pass"}]`)

	_, err := execute(t, "validate", pipe)
	require.Error(t, err)
	var ee *ExitError
	require.True(t, AsExitError(err, &ee))
	assert.Equal(t, ExitUsage, ee.Code)
}

func TestPassesCommand(t *testing.T) {
	out, err := execute(t, "passes")
	require.NoError(t, err)
	assert.Contains(t, out, "clifford_simp\n")
	assert.Contains(t, out, "peephole_optimise_2q\n")
	assert.Contains(t, out, "synthesise_hqs\n")
}

func TestPassesCommandYAML(t *testing.T) {
	out, err := execute(t, "passes", "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "passes:")
	assert.Contains(t, out, "- clifford_simp")
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	circ := writeFile(t, dir, "circuit.yaml", "qubits: 2\ngates:\n  - {op: H, qubits: [0]}\n  - {op: CX, qubits: [0, 1]}\n")

	out, err := execute(t, "stats", circ)
	require.NoError(t, err)
	assert.Contains(t, out, "qubits: 2\n")
	assert.Contains(t, out, "gates: 2\n")
	assert.Contains(t, out, "two-qubit gates: 1\n")
	assert.Contains(t, out, "depth: 2\n")
}

func TestStatsCommandYAML(t *testing.T) {
	dir := t.TempDir()
	circ := writeFile(t, dir, "circuit.yaml", "qubits: 2\ngates:\n  - {op: CX, qubits: [0, 1]}\n")

	out, err := execute(t, "stats", "-f", "yaml", circ)
	require.NoError(t, err)
	assert.Contains(t, out, "two_qubit_gates: 1")
	assert.Contains(t, out, "CX: 1")
}

func TestExitErrorUnwrap(t *testing.T) {
	inner := os.ErrNotExist
	err := NewExitError(ExitFailure, "outer", inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "outer: file does not exist", err.Error())

	var ee *ExitError
	require.True(t, AsExitError(err, &ee))
	assert.Equal(t, ExitFailure, ee.Code)

	bare := NewExitError(ExitUsage, "just a message", nil)
	assert.Equal(t, "just a message", bare.Error())
}

func TestOutputFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewOutputFormatter(&buf, "yaml")
	require.NoError(t, f.Print(map[string]int{"n": 3}))
	assert.Equal(t, "n: 3\n", buf.String())

	buf.Reset()
	f = NewOutputFormatter(&buf, "text")
	require.NoError(t, f.Print("plain"))
	f.Printf(" and %d", 7)
	assert.Equal(t, "plain and 7", buf.String())
}

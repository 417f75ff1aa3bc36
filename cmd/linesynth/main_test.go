package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/funvibe/linesynth/internal/synth"
)

// execute runs the command line with args and returns what it printed.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&cli{logger: zap.NewNop()})
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const twoTargets = `package solutions

//linesynth:main
func double(x int) int {
	return 2 * x
}

//linesynth:main row = n
func total(n int, xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}
	return s
}
`

const rustTarget = `#[pte(row = 2)]
fn add(a: i64, b: i64) -> i64 {
    a + b
}
`

func TestSynthStdin(t *testing.T) {
	out, err := execute(t, "func solve(n int, xs []int) int { return n + len(xs) }\n",
		"synth", "-c", "row = n")
	require.NoError(t, err)
	assert.Contains(t, out, "// Code generated by linesynth. DO NOT EDIT.")
	assert.Contains(t, out, "more, err := in.ReadLines(int(n))")
	assert.Contains(t, out, "result := solve(n, xs)")
}

func TestSynthRustFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "add.rs"), rustTarget)

	out, err := execute(t, "", "synth", "-C", dir, "add.rs")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "use pte::Lines;\n"))
	assert.Contains(t, out, "for _ in 0..2")
}

func TestSynthSelectsFunction(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "solve.go"), twoTargets)

	_, err := execute(t, "", "synth", "-C", dir, "solve.go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pick one with --func")

	out, err := execute(t, "", "synth", "-C", dir, "--func", "total", "solve.go")
	require.NoError(t, err)
	assert.Contains(t, out, "in.ReadLines(int(n))")

	out, err = execute(t, "", "synth", "-C", dir, "--func", "total", "--config", "row = 4", "solve.go")
	require.NoError(t, err)
	assert.Contains(t, out, "in.ReadLines(4)")
	assert.NotContains(t, out, "int(n)")
}

func TestSynthToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	out, err := execute(t, "func solve(v int) int { return v }\n", "synth", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.FileExists(t, path)
}

func TestSynthErrors(t *testing.T) {
	_, err := execute(t, "func solve(v int) int { return v }\n", "synth", "-c", "row = -1")
	var ce *synth.ConfigError
	require.True(t, errors.As(err, &ce), "err = %v", err)

	_, err = execute(t, "fn solve(v: Vec<Vec<Vec<u8>>>) {}\n", "synth", "-d", "rust")
	var cle *synth.ClassificationError
	require.True(t, errors.As(err, &cle), "err = %v", err)

	_, err = execute(t, "func solve(v int) int { return v }\n", "synth", "-d", "cobol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown dialect "cobol"`)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "solve.go"), twoTargets)

	out, err := execute(t, "21\n", "run", "-C", dir, "-f", "double", "solve.go")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)

	out, err = execute(t, "2\n1 2 3\n4 5\n", "run", "-C", dir, "-f", "total", "solve.go")
	require.NoError(t, err)
	assert.Equal(t, "6\n", out)
}

func TestRunRejects(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "add.rs"), rustTarget)

	_, err := execute(t, "1\n2\n", "run", "-C", dir, "add.rs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run supports go declarations only")

	_, err = execute(t, "", "run", "-")
	require.Error(t, err)
}

func TestGenProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "solve.go"), twoTargets)
	writeFile(t, filepath.Join(dir, "add.rs"), rustTarget)
	writeFile(t, filepath.Join(dir, "linesynth.yaml"), `
out: build
targets:
  - source: solve.go
  - source: add.rs
    func: add
    config: row = 1
`)

	_, err := execute(t, "", "gen", "-C", dir)
	require.NoError(t, err)
	for _, p := range []string{"build/double/main.go", "build/total/main.go", "build/add/main.rs"} {
		assert.FileExists(t, filepath.Join(dir, p))
	}
	rs, err := os.ReadFile(filepath.Join(dir, "build", "add", "main.rs"))
	require.NoError(t, err)
	assert.Contains(t, string(rs), "let a = lines.consume::<i64>().unwrap();")
	assert.NotContains(t, string(rs), "for _ in")

	// Runs from a subdirectory find the project file.
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	_, err = execute(t, "", "gen", "-C", sub, "--force")
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(sub, "build"))
}

func TestGenScanRust(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "add.rs"), rustTarget)

	_, err := execute(t, "", "gen", "-C", dir, "-o", "out")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "out", "add", "main.rs"))
	assert.DirExists(t, filepath.Join(dir, ".linesynth", "cache"))
}

func TestGenReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.rs"), "#[pte(row = zzz)]\nfn add(a: i64) -> i64 { a }\n")

	_, err := execute(t, "", "gen", "-C", dir)
	require.Error(t, err)
	var ce *synth.ConfigError
	assert.True(t, errors.As(err, &ce), "err = %v", err)
}

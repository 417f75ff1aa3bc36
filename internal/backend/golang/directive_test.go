package golang

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const annotatedSource = `package solutions

import "strings"

// sum adds a row of numbers.
//
//linesynth:main row = 1
func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func helper(xs ...int) int { return len(xs) }

//linesynth:main
func shout(s string) string {
	return strings.ToUpper(s)
}

//linesynth:mainly not a directive
func other(v int) int { return v }
`

func TestAnnotated(t *testing.T) {
	targets, err := New("").Annotated("solutions.go", []byte(annotatedSource))
	if err != nil {
		t.Fatal(err)
	}
	type found struct {
		Name   string
		Line   int
		Config string
	}
	var got []found
	for _, tg := range targets {
		got = append(got, found{tg.Name, tg.Line, tg.Config})
	}
	want := []found{
		{"sum", 8, "row = 1"},
		{"shout", 19, ""},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", d)
	}
	if imports := targets[1].Sig.Imports; len(imports) != 1 || imports[0] != `"strings"` {
		t.Errorf("shout imports = %v; want [\"strings\"]", imports)
	}
	if imports := targets[0].Sig.Imports; len(imports) != 0 {
		t.Errorf("sum imports = %v; want none", imports)
	}
}

func TestAnnotatedInvalidTarget(t *testing.T) {
	src := "package p\n\n//linesynth:main\nfunc bad(xs ...int) int { return 0 }\n"
	_, err := New("").Annotated("bad.go", []byte(src))
	if err == nil || !strings.Contains(err.Error(), "bad.go:4:") {
		t.Errorf("Annotated error = %v; want it to point at bad.go:4", err)
	}
}

func TestLookup(t *testing.T) {
	d := New("")
	tg, err := d.Lookup("solutions.go", []byte(annotatedSource), "other")
	if err != nil {
		t.Fatal(err)
	}
	if tg.Annotated || tg.Config != "" || tg.Sig.Name != "other" {
		t.Errorf("Lookup(other) = %+v", tg)
	}
	if _, err := d.Lookup("solutions.go", []byte(annotatedSource), "missing"); err == nil {
		t.Error("Lookup(missing) succeeded")
	}
	if _, err := d.Lookup("solutions.go", []byte(annotatedSource), "helper"); err == nil {
		t.Error("Lookup(helper) accepted a variadic function")
	}
}

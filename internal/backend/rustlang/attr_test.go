package rustlang

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/linesynth/internal/synth"
)

func TestAttributeConfig(t *testing.T) {
	tests := []struct {
		item   string
		config string
		ok     bool
	}{
		{"#[pte]", "", true},
		{"#[pte()]", "", true},
		{"#[pte(row = n)]", "row = n", true},
		{"#[ pte( row = in1 , column = 2 ) ]", "row = in1 , column = 2", true},
		{"#[derive(Debug)]", "", false},
		{"#[pterodactyl]", "", false},
		{"#[pte = 3]", "", false},
	}
	for _, tt := range tests {
		config, ok := attributeConfig(tt.item)
		if config != tt.config || ok != tt.ok {
			t.Errorf("attributeConfig(%q) = %q, %v; want %q, %v", tt.item, config, ok, tt.config, tt.ok)
		}
	}
}

const annotatedSource = `use std::collections::HashMap;

#[pte(row = n)]
fn solve(v: usize, n: usize, vec: Vec<usize>) -> usize {
    v + n + vec.len()
}

fn helper(x: u8) -> u8 { x }

#[inline]
// trailing comment
#[pte]
pub fn echo(s: String) -> String { s }

#[pte(row = 2)]
struct NotAFunction;

fn after_struct(x: u8) -> u8 { x }
`

func TestAnnotated(t *testing.T) {
	targets, err := New().Annotated("main.rs", []byte(annotatedSource))
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
		{"solve", 4, "row = n"},
		{"echo", 13, ""},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", d)
	}
}

func TestLookup(t *testing.T) {
	d := New()
	tg, err := d.Lookup("main.rs", []byte(annotatedSource), "after_struct")
	if err != nil {
		t.Fatal(err)
	}
	if tg.Annotated {
		t.Error("after_struct picked up the attribute of the preceding struct")
	}
	if tg.Line != 18 {
		t.Errorf("Line = %d; want 18", tg.Line)
	}
	if _, err := d.Lookup("main.rs", []byte(annotatedSource), "nope"); err == nil {
		t.Error("Lookup(nope) succeeded")
	}
	if _, err := d.Lookup("broken.rs", []byte("fn ("), "x"); err == nil {
		t.Error("Lookup on a broken file succeeded")
	}
}

func TestSyntaxErrorInFile(t *testing.T) {
	src := []byte("#[pte(row = n)]\nfn solve(n: usize {\n}\n")
	d := New()

	_, err := d.Annotated("broken.rs", src)
	var se *synth.SignatureError
	if !errors.As(err, &se) {
		t.Fatalf("Annotated error = %v; want a *synth.SignatureError", err)
	}
	if !strings.Contains(err.Error(), "broken.rs:") || !strings.Contains(err.Error(), "syntax error") {
		t.Errorf("Annotated error = %q; want the file position of the syntax error", err)
	}

	_, err = d.Lookup("broken.rs", src, "solve")
	if !errors.As(err, &se) {
		t.Fatalf("Lookup error = %v; want a *synth.SignatureError", err)
	}
}

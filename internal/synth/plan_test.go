package synth

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func isInt(typ string) bool { return typ == "int" || typ == "usize" }

func sigOf(params ...Param) *Signature {
	return &Signature{Name: "solve", Params: params, Result: "int", Body: "{ 0 }"}
}

func scalarParam(name, typ string) Param {
	return Param{Name: name, Type: TypeRef{Kind: Scalar, Text: typ}}
}

func seqParam(name, elem string) Param {
	e := TypeRef{Kind: Scalar, Text: elem}
	return Param{Name: name, Type: TypeRef{Kind: Sequence, Text: "[]" + elem, Elem: &e}}
}

func matrixParam(name, elem string) Param {
	e := TypeRef{Kind: Scalar, Text: elem}
	row := TypeRef{Kind: Sequence, Text: "[]" + elem, Elem: &e}
	return Param{Name: name, Type: TypeRef{Kind: Matrix, Text: "[][]" + elem, Elem: &row}}
}

func TestResolvePreamble(t *testing.T) {
	sig := sigOf(scalarParam("v", "int"))
	tests := []struct {
		s    Strategy
		want Preamble
	}{
		{Default(), Preamble{Kind: AcquireLines, Lines: 1}},
		{FixedCount(3), Preamble{Kind: AcquireLines, Lines: 3}},
		{FixedCount(0), Preamble{Kind: AcquireLines, Lines: 0}},
		{CountFromField(2), Preamble{Kind: AcquireCounted, Field: 2}},
		{CountFromVariable("v"), Preamble{Kind: AcquireLines, Lines: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.s.String(), func(t *testing.T) {
			plan, err := Resolve(tt.s, sig, isInt)
			if err != nil {
				t.Fatal(err)
			}
			if plan.Preamble != tt.want {
				t.Errorf("Resolve(%v).Preamble = %+v; want %+v", tt.s, plan.Preamble, tt.want)
			}
		})
	}
}

func TestResolveStepsFollowDeclarationOrder(t *testing.T) {
	sig := sigOf(seqParam("b", "int"), scalarParam("n", "int"), matrixParam("a", "int"))
	plan, err := Resolve(CountFromVariable("n"), sig, isInt)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, s := range plan.Steps {
		entry := s.Param.Name + ":" + s.Op.String()
		if s.Extend {
			entry += "+extend"
		}
		got = append(got, entry)
	}
	want := []string{"b:sequence", "n:scalar+extend", "a:matrix"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveNoParams(t *testing.T) {
	plan, err := Resolve(FixedCount(2), sigOf(), isInt)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Steps) != 0 {
		t.Errorf("got %d steps for a function without parameters", len(plan.Steps))
	}
}

func TestResolveCountVariableErrors(t *testing.T) {
	tests := []struct {
		name   string
		sig    *Signature
		errMsg string
	}{
		{"missing", sigOf(scalarParam("v", "int")), "no parameter named n"},
		{"sequence", sigOf(seqParam("n", "int")), "must be a scalar"},
		{"not integer", sigOf(scalarParam("n", "string")), "must have an integer type, got string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(CountFromVariable("n"), tt.sig, isInt)
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Resolve error = %v; want *ConfigError", err)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Resolve error = %q; want it to contain %q", err, tt.errMsg)
			}
		})
	}
}

func TestSignatureValidate(t *testing.T) {
	tests := []struct {
		name   string
		sig    *Signature
		errMsg string
	}{
		{"ok", sigOf(scalarParam("a", "int"), scalarParam("b", "int")), ""},
		{"duplicate", sigOf(scalarParam("a", "int"), scalarParam("a", "int")), "duplicate parameter a"},
		{"shadow", sigOf(scalarParam("solve", "int")), "shadows the function name"},
		{"unnamed", &Signature{}, "no name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sig.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Fatalf("Validate() = %v; want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() = %v; want error containing %q", err, tt.errMsg)
			}
		})
	}
}

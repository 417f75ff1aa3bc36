package synth

import (
	"errors"
	"strings"
	"testing"
)

func vec(text string, args ...TypeExpr) TypeExpr {
	return TypeExpr{Text: text, Name: "Vec", Args: args}
}

func scalar(text string) TypeExpr { return TypeExpr{Text: text} }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   TypeExpr
		want string
	}{
		{"scalar", scalar("usize"), "Scalar(usize)"},
		{"opaque generic", TypeExpr{Text: "Option<u8>", Name: "Option", Args: []TypeExpr{scalar("u8")}}, "Scalar(Option<u8>)"},
		{"sequence", vec("Vec<u8>", scalar("u8")), "Sequence(Scalar(u8))"},
		{"matrix", vec("Vec<Vec<i64>>", vec("Vec<i64>", scalar("i64"))), "Matrix(Scalar(i64))"},
		{"sequence of opaque", vec("Vec<HashMap<u8, u8>>", TypeExpr{Text: "HashMap<u8, u8>", Name: "HashMap"}), "Sequence(Scalar(HashMap<u8, u8>))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.in, "Vec")
			if err != nil {
				t.Fatalf("Classify(%s) error: %v", tt.in.Text, err)
			}
			if got.String() != tt.want {
				t.Errorf("Classify(%s) = %s; want %s", tt.in.Text, got, tt.want)
			}
			if got.Text != tt.in.Text {
				t.Errorf("Classify(%s).Text = %q; want verbatim text", tt.in.Text, got.Text)
			}
		})
	}
}

func TestClassifyMatrixKeepsRowType(t *testing.T) {
	got, err := Classify(vec("Vec<Vec<u8>>", vec("Vec<u8>", scalar("u8"))), "Vec")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != Matrix || got.Elem.Kind != Sequence || got.Elem.Text != "Vec<u8>" {
		t.Errorf("matrix row = %+v; want Sequence Vec<u8>", *got.Elem)
	}
	if leaf := got.Leaf(); leaf.Text != "u8" {
		t.Errorf("Leaf() = %q; want u8", leaf.Text)
	}
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name   string
		in     TypeExpr
		errMsg string
	}{
		{"no argument", vec("Vec"), "requires a type argument"},
		{"two arguments", vec("Vec<u8, u8>", scalar("u8"), scalar("u8")), "exactly one type argument"},
		{"third level", vec("Vec<Vec<Vec<u8>>>", vec("Vec<Vec<u8>>", vec("Vec<u8>", scalar("u8")))), "deeper than two"},
		{"bare inner", vec("Vec<Vec>", vec("Vec")), "requires a type argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.in, "Vec")
			var ce *ClassificationError
			if !errors.As(err, &ce) {
				t.Fatalf("Classify(%s) error = %v; want *ClassificationError", tt.in.Text, err)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Classify(%s) error = %q; want it to contain %q", tt.in.Text, err, tt.errMsg)
			}
		})
	}
}

func TestClassifyOtherContainer(t *testing.T) {
	got, err := Classify(vec("Vec<u8>", scalar("u8")), "[]")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != Scalar {
		t.Errorf("Vec under the [] container = %s; want Scalar", got)
	}
}

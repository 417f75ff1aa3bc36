// Package synth turns a function declaration and a row configuration into a
// standalone program that reads its arguments from line-oriented input.
//
// The package is dialect neutral. A Dialect parses declarations into the
// Signature model and renders program fragments; configuration parsing,
// strategy resolution, decode planning and emission order live here and are
// shared by every dialect.
package synth

// TypeKind classifies how a parameter is decoded.
type TypeKind int

const (
	Scalar   TypeKind = iota // a single token
	Sequence                 // one line of tokens
	Matrix                   // several lines of tokens
)

func (k TypeKind) String() string {
	switch k {
	case Scalar:
		return "Scalar"
	case Sequence:
		return "Sequence"
	case Matrix:
		return "Matrix"
	default:
		return "TypeKind(?)"
	}
}

// TypeExpr is the syntactic shape of a declared type as seen by a dialect
// parser. Name is the container keyword when the type is a generic container
// application ("[]" for Go slices, "Vec" for Rust vectors) and empty otherwise.
type TypeExpr struct {
	Text string
	Name string
	Args []TypeExpr
}

// TypeRef is a classified parameter type.
type TypeRef struct {
	Kind TypeKind
	Text string   // declared type text, verbatim
	Elem *TypeRef // element type for Sequence and Matrix; nil for Scalar
}

// Leaf returns the innermost scalar type.
func (t TypeRef) Leaf() TypeRef {
	for t.Elem != nil {
		t = *t.Elem
	}
	return t
}

func (t TypeRef) String() string {
	switch t.Kind {
	case Sequence:
		return "Sequence(" + t.Elem.String() + ")"
	case Matrix:
		return "Matrix(" + t.Leaf().String() + ")"
	default:
		return "Scalar(" + t.Text + ")"
	}
}

// Param is one declared parameter.
type Param struct {
	Name string
	Type TypeRef
}

// Signature is the neutral model of a parsed declaration.
type Signature struct {
	Name   string
	Params []Param

	// Result is the declared result text, empty when the function returns
	// nothing. Results lists the individual result types when the dialect
	// supports several (Go); it is nil otherwise.
	Result  string
	Results []string

	// Body is the function body including its braces and Source the whole
	// declaration, both sliced verbatim from the source.
	Body   string
	Source string

	// Imports holds import specs the declaration depends on, in source
	// form (for example `"strings"` or `str "strings"`).
	Imports []string
}

// Param returns the parameter with the given name.
func (s *Signature) Param(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// ParamNames returns the parameter names in declaration order.
func (s *Signature) ParamNames() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return names
}

// Validate checks the invariants every dialect relies on: parameter names are
// unique and none shadows the function itself.
func (s *Signature) Validate() error {
	if s.Name == "" {
		return &SignatureError{Msg: "function has no name"}
	}
	seen := make(map[string]bool, len(s.Params))
	for _, p := range s.Params {
		if p.Name == s.Name {
			return &SignatureError{Msg: "parameter " + p.Name + " shadows the function name"}
		}
		if seen[p.Name] {
			return &SignatureError{Msg: "duplicate parameter " + p.Name}
		}
		seen[p.Name] = true
	}
	return nil
}

// Package rustlang is the Rust dialect of linesynth. Declarations are Rust
// fn items parsed with tree-sitter, sequences are Vec<T> and generated
// programs decode their input with pte::Lines.
package rustlang

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/funvibe/linesynth/internal/config"
	"github.com/funvibe/linesynth/internal/synth"
)

const vecContainer = "Vec"

var integerTypes = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
}

// Dialect is the Rust dialect.
type Dialect struct{}

func New() *Dialect { return &Dialect{} }

func (d *Dialect) Name() string      { return config.DialectRust }
func (d *Dialect) Container() string { return vecContainer }
func (d *Dialect) Indent() string    { return "    " }

func (d *Dialect) IsInteger(typ string) bool {
	return integerTypes[typ]
}

// parse parses src as a Rust source file. The caller closes the tree.
func parse(src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(rust.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, &synth.SignatureError{Msg: "parsing Rust source", Err: err}
	}
	return tree, nil
}

// ParseDecl parses a single fn item. Attributes, comments and use
// declarations around it are ignored.
func (d *Dialect) ParseDecl(src []byte) (*synth.Signature, error) {
	tree, err := parse(src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, &synth.SignatureError{Msg: "declaration has syntax errors near " + errorPosition(root)}
	}
	var funcs []*sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "function_item":
			funcs = append(funcs, child)
		case "function_signature_item":
			return nil, &synth.SignatureError{Msg: "function " + fieldText(child, "name", src) + " has no body"}
		}
	}
	if len(funcs) != 1 {
		return nil, &synth.SignatureError{Msg: fmt.Sprintf("expected exactly one fn item, found %d", len(funcs))}
	}
	return signatureOf(funcs[0], src)
}

func signatureOf(fn *sitter.Node, src []byte) (*synth.Signature, error) {
	name := fieldText(fn, "name", src)
	if fn.ChildByFieldName("type_parameters") != nil {
		return nil, &synth.SignatureError{Msg: "generic function " + name + " is not supported"}
	}
	body := fn.ChildByFieldName("body")
	if body == nil {
		return nil, &synth.SignatureError{Msg: "function " + name + " has no body"}
	}

	sig := &synth.Signature{
		Name:   name,
		Body:   body.Content(src),
		Source: fn.Content(src),
	}
	if ret := fn.ChildByFieldName("return_type"); ret != nil {
		sig.Result = ret.Content(src)
	}

	params := fn.ChildByFieldName("parameters")
	for i := 0; params != nil && i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "parameter":
		case "self_parameter":
			return nil, &synth.SignatureError{Msg: "method " + name + " is not a plain function"}
		case "attribute_item", "line_comment", "block_comment":
			continue
		default:
			return nil, &synth.SignatureError{Msg: "unsupported parameter " + p.Content(src)}
		}
		pattern := p.ChildByFieldName("pattern")
		typ := p.ChildByFieldName("type")
		if pattern == nil || typ == nil {
			return nil, &synth.SignatureError{Msg: "malformed parameter " + p.Content(src)}
		}
		if pattern.Type() != "identifier" {
			return nil, &synth.SignatureError{Msg: "parameter pattern " + pattern.Content(src) + " is not a plain name"}
		}
		pname := pattern.Content(src)
		ref, err := synth.Classify(typeExpr(typ, src), vecContainer)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", pname, err)
		}
		sig.Params = append(sig.Params, synth.Param{Name: pname, Type: ref})
	}
	return sig, nil
}

// typeExpr maps a Rust type node to its syntactic shape. Vec applications
// carry their type arguments; every other type is opaque.
func typeExpr(n *sitter.Node, src []byte) synth.TypeExpr {
	t := synth.TypeExpr{Text: n.Content(src)}
	switch n.Type() {
	case "generic_type":
		base := n.ChildByFieldName("type")
		if base == nil || base.Content(src) != vecContainer {
			return t
		}
		t.Name = vecContainer
		if args := n.ChildByFieldName("type_arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				arg := args.NamedChild(i)
				if arg.Type() == "line_comment" || arg.Type() == "block_comment" {
					continue
				}
				t.Args = append(t.Args, typeExpr(arg, src))
			}
		}
	case "type_identifier":
		if t.Text == vecContainer {
			t.Name = vecContainer
		}
	}
	return t
}

func fieldText(n *sitter.Node, field string, src []byte) string {
	if c := n.ChildByFieldName(field); c != nil {
		return c.Content(src)
	}
	return ""
}

// errorPosition returns the line:column of the first error node under n.
func errorPosition(n *sitter.Node) string {
	if n.IsError() || n.IsMissing() {
		p := n.StartPoint()
		return fmt.Sprintf("%d:%d", p.Row+1, p.Column+1)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.HasError() {
			return errorPosition(c)
		}
	}
	p := n.StartPoint()
	return fmt.Sprintf("%d:%d", p.Row+1, p.Column+1)
}

// Finish checks that the emitted program parses as Rust.
func (d *Dialect) Finish(src []byte) ([]byte, error) {
	tree, err := parse(src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	if root := tree.RootNode(); root.HasError() {
		return nil, fmt.Errorf("generated program does not parse near %s", errorPosition(root))
	}
	return src, nil
}

func (d *Dialect) NewEmitter(sig *synth.Signature) synth.Emitter {
	return newEmitter(sig)
}

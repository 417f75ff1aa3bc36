// Package golang is the Go dialect of linesynth. Declarations are Go func
// declarations, sequences are slices and generated programs import the
// pkg/lines runtime.
package golang

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/funvibe/linesynth/internal/config"
	"github.com/funvibe/linesynth/internal/synth"
)

// sliceContainer is the container keyword of Go slice types.
const sliceContainer = "[]"

var integerTypes = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true, "byte": true, "rune": true,
}

// Generated programs refer to these packages, so neither the function nor
// its parameters can use their names.
var runtimePackages = map[string]bool{
	"fmt": true, "io": true, "os": true, "lines": true,
}

// Generated programs define these functions.
var reservedFuncs = map[string]bool{
	"main": true, "init": true, "run": true,
}

// Dialect is the Go dialect.
type Dialect struct {
	// Runtime is the import path of the runtime package.
	Runtime string
}

// New returns a Go dialect importing the runtime from runtime, or from the
// default runtime path when runtime is empty.
func New(runtime string) *Dialect {
	if runtime == "" {
		runtime = config.DefaultRuntime
	}
	return &Dialect{Runtime: runtime}
}

func (d *Dialect) Name() string      { return config.DialectGo }
func (d *Dialect) Container() string { return sliceContainer }
func (d *Dialect) Indent() string    { return "\t" }

func (d *Dialect) IsInteger(typ string) bool {
	return integerTypes[typ]
}

// ParseDecl parses a single function declaration. The source may be a bare
// declaration or a whole file containing exactly one function; in the latter
// case imports used by the function are carried into the program.
func (d *Dialect) ParseDecl(src []byte) (*synth.Signature, error) {
	fset, file, source, err := parseSource("decl.go", src)
	if err != nil {
		return nil, err
	}
	var funcs []*ast.FuncDecl
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			funcs = append(funcs, fn)
		}
	}
	if len(funcs) != 1 {
		return nil, &synth.SignatureError{Msg: fmt.Sprintf("expected exactly one function declaration, found %d", len(funcs))}
	}
	return signatureOf(fset, file, funcs[0], source)
}

// parseSource parses src as a file, wrapping it in a package clause when it
// has none. The returned source is the text the positions refer to.
func parseSource(filename string, src []byte) (*token.FileSet, *ast.File, []byte, error) {
	source := src
	if !hasPackageClause(src) {
		source = append([]byte("package p\n\n"), src...)
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, source, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, nil, nil, &synth.SignatureError{Msg: "parsing " + filename, Err: err}
	}
	return fset, file, source, nil
}

func hasPackageClause(src []byte) bool {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "", src, parser.PackageClauseOnly)
	return err == nil
}

func signatureOf(fset *token.FileSet, file *ast.File, fn *ast.FuncDecl, src []byte) (*synth.Signature, error) {
	name := fn.Name.Name
	switch {
	case fn.Recv != nil:
		return nil, &synth.SignatureError{Msg: "method " + name + " is not a plain function"}
	case fn.Body == nil:
		return nil, &synth.SignatureError{Msg: "function " + name + " has no body"}
	case fn.Type.TypeParams != nil && len(fn.Type.TypeParams.List) > 0:
		return nil, &synth.SignatureError{Msg: "generic function " + name + " is not supported"}
	case reservedFuncs[name]:
		return nil, &synth.SignatureError{Msg: "function name " + name + " is reserved in generated programs"}
	}

	text := func(n ast.Node) string {
		return string(src[fset.Position(n.Pos()).Offset:fset.Position(n.End()).Offset])
	}

	sig := &synth.Signature{Name: name, Body: text(fn.Body), Source: text(fn)}
	for _, field := range fn.Type.Params.List {
		if len(field.Names) == 0 {
			return nil, &synth.SignatureError{Msg: "parameter of type " + text(field.Type) + " has no name"}
		}
		if _, ok := field.Type.(*ast.Ellipsis); ok {
			return nil, &synth.SignatureError{Msg: "variadic parameter " + field.Names[0].Name + " is not supported"}
		}
		ref, err := synth.Classify(typeExpr(field.Type, text), sliceContainer)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", field.Names[0].Name, err)
		}
		for _, id := range field.Names {
			switch {
			case id.Name == "_":
				return nil, &synth.SignatureError{Msg: "blank parameter names are not supported"}
			case runtimePackages[id.Name]:
				return nil, &synth.SignatureError{Msg: "parameter " + id.Name + " collides with a package used by the generated program"}
			}
			sig.Params = append(sig.Params, synth.Param{Name: id.Name, Type: ref})
		}
	}

	if res := fn.Type.Results; res != nil && len(res.List) > 0 {
		sig.Result = text(res)
		for _, f := range res.List {
			n := max(len(f.Names), 1)
			for range n {
				sig.Results = append(sig.Results, text(f.Type))
			}
		}
		if err := checkResults(sig.Results); err != nil {
			return nil, err
		}
	}

	sig.Imports = carriedImports(file, fn)
	if runtimePackages[name] {
		return nil, &synth.SignatureError{Msg: "function name " + name + " collides with a package used by the generated program"}
	}
	for _, spec := range sig.Imports {
		if importedName(spec) == name {
			return nil, &synth.SignatureError{Msg: "function name " + name + " collides with the import " + spec}
		}
	}
	return sig, nil
}

// typeExpr maps a Go type to its syntactic shape. Only slice types are
// container applications; arrays, maps and named types stay opaque.
func typeExpr(e ast.Expr, text func(ast.Node) string) synth.TypeExpr {
	t := synth.TypeExpr{Text: text(e)}
	if at, ok := e.(*ast.ArrayType); ok && at.Len == nil {
		t.Name = sliceContainer
		t.Args = []synth.TypeExpr{typeExpr(at.Elt, text)}
	}
	return t
}

// checkResults accepts no result, a single result, or a value followed by
// an error.
func checkResults(results []string) error {
	switch len(results) {
	case 0, 1:
		return nil
	case 2:
		if results[1] == "error" && results[0] != "error" {
			return nil
		}
	}
	return &synth.SignatureError{Msg: "unsupported results (" + strings.Join(results, ", ") + "); want T, error or (T, error)"}
}

// resultShape describes how the entry point consumes the function results.
type resultShape int

const (
	resultNone resultShape = iota
	resultValue
	resultError
	resultValueError
)

func shapeOf(results []string) resultShape {
	switch {
	case len(results) == 0:
		return resultNone
	case len(results) == 2:
		return resultValueError
	case results[0] == "error":
		return resultError
	default:
		return resultValue
	}
}

// Finish checks that the emitted program is valid Go syntax.
func (d *Dialect) Finish(src []byte) ([]byte, error) {
	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, "main.go", src, parser.SkipObjectResolution); err != nil {
		return nil, fmt.Errorf("generated program does not parse: %w", err)
	}
	return src, nil
}

// NewEmitter returns the emitter of one program.
func (d *Dialect) NewEmitter(sig *synth.Signature) synth.Emitter {
	return newEmitter(sig, d.Runtime)
}

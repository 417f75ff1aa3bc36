package golang

import (
	"fmt"
	"go/ast"
	"strings"

	"github.com/funvibe/linesynth/internal/config"
	"github.com/funvibe/linesynth/internal/synth"
)

// directiveConfig returns the configuration of a //linesynth:main directive
// in doc, if there is one.
func directiveConfig(doc *ast.CommentGroup) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, config.GoDirective)
		if !ok {
			continue
		}
		if rest == "" {
			return "", true
		}
		if rest[0] == ' ' || rest[0] == '\t' {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

// Annotated returns the functions of a Go source file marked with a
// //linesynth:main directive.
func (d *Dialect) Annotated(filename string, src []byte) ([]synth.Target, error) {
	fset, file, source, err := parseSource(filename, src)
	if err != nil {
		return nil, err
	}
	var targets []synth.Target
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		cfg, ok := directiveConfig(fn.Doc)
		if !ok {
			continue
		}
		pos := fset.Position(fn.Pos())
		sig, err := signatureOf(fset, file, fn, source)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, pos.Line, err)
		}
		targets = append(targets, synth.Target{
			Name:      fn.Name.Name,
			Line:      pos.Line,
			Config:    cfg,
			Annotated: true,
			Sig:       sig,
		})
	}
	return targets, nil
}

// Lookup returns the plain function called name in a Go source file.
func (d *Dialect) Lookup(filename string, src []byte, name string) (synth.Target, error) {
	fset, file, source, err := parseSource(filename, src)
	if err != nil {
		return synth.Target{}, err
	}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || fn.Name.Name != name {
			continue
		}
		pos := fset.Position(fn.Pos())
		sig, err := signatureOf(fset, file, fn, source)
		if err != nil {
			return synth.Target{}, fmt.Errorf("%s:%d: %w", filename, pos.Line, err)
		}
		cfg, annotated := directiveConfig(fn.Doc)
		return synth.Target{Name: name, Line: pos.Line, Config: cfg, Annotated: annotated, Sig: sig}, nil
	}
	return synth.Target{}, fmt.Errorf("function %s not found in %s", name, filename)
}

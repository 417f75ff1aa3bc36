package golang

import (
	"bytes"
	"fmt"
	"path"
	"strconv"
	"strings"
	"text/template"

	"github.com/funvibe/linesynth/internal/synth"
)

var headerTemplate = template.Must(template.New("header").Parse(`// Code generated by linesynth. DO NOT EDIT.

package main

import (
{{- range .Std}}
	{{.}}
{{- end}}
{{range .Other}}
	{{.}}
{{- end}}
)

`))

// locals are the identifiers the entry point declares.
type locals struct {
	stdin, stdout string
	in, head      string
	count, text   string
	buf, more     string
	result, err   string
}

type emitter struct {
	sig     *synth.Signature
	runtime string
	names   locals
	shape   resultShape
}

func newEmitter(sig *synth.Signature, runtime string) *emitter {
	reserved := append(sig.ParamNames(), sig.Name, "fmt", "io", "os", "lines")
	for _, spec := range sig.Imports {
		reserved = append(reserved, importedName(spec))
	}
	n := synth.NewNamer(reserved...)
	return &emitter{
		sig:     sig,
		runtime: runtime,
		shape:   shapeOf(sig.Results),
		names: locals{
			stdin:  n.Name("stdin"),
			stdout: n.Name("stdout"),
			in:     n.Name("in"),
			head:   n.Name("head"),
			count:  n.Name("count"),
			text:   n.Name("text"),
			buf:    n.Name("buf"),
			more:   n.Name("more"),
			result: n.Name("result"),
			err:    n.Name("err"),
		},
	}
}

// importedName is the identifier an import spec binds.
func importedName(spec string) string {
	if name, _, ok := strings.Cut(spec, " "); ok {
		return name
	}
	return packageName(specPath(spec))
}

func (e *emitter) Header(w *synth.Writer) {
	runtime := strconv.Quote(e.runtime)
	if path.Base(e.runtime) != "lines" {
		runtime = "lines " + runtime
	}
	specs := append([]string{`"fmt"`, `"io"`, `"os"`, runtime}, e.sig.Imports...)
	std, other := importGroups(specs)

	var buf bytes.Buffer
	err := headerTemplate.Execute(&buf, struct{ Std, Other []string }{std, other})
	if err != nil {
		panic(fmt.Sprintf("golang: executing header template: %v", err))
	}
	w.Raw(buf.String())
}

func (e *emitter) Decl(w *synth.Writer) {
	w.Raw(e.sig.Source + "\n")
}

func (e *emitter) BeginEntry(w *synth.Writer) {
	w.Line("func main() {")
	w.Indent()
	w.Line("if err := run(os.Stdin, os.Stdout); err != nil {")
	w.Indent()
	w.Line("fmt.Fprintln(os.Stderr, err)")
	w.Line("os.Exit(1)")
	w.Dedent()
	w.Line("}")
	w.Dedent()
	w.Line("}")
	w.Line("")
	w.Linef("func run(%s io.Reader, %s io.Writer) error {", e.names.stdin, e.names.stdout)
	w.Indent()
}

func (e *emitter) Preamble(w *synth.Writer, p synth.Preamble) {
	n := e.names
	w.Linef("%s := lines.NewReader(%s)", n.in, n.stdin)

	lineCount := strconv.Itoa(p.Lines)
	if p.Kind == synth.AcquireCounted {
		w.Linef("%s, %s := %s.ReadLine()", n.head, n.err, n.in)
		e.check(w, "reading line count: %w")
		w.Linef("%s, %s := lines.Count(%s, %d)", n.count, n.err, n.head, p.Field)
		e.check(w, "reading line count: %w")
		lineCount = n.count
	}

	if len(e.sig.Params) == 0 {
		w.Linef("if _, %s := %s.ReadLines(%s); %s != nil {", n.err, n.in, lineCount, n.err)
		e.returnErr(w, "reading input: %w")
		return
	}
	w.Linef("%s, %s := %s.ReadLines(%s)", n.text, n.err, n.in, lineCount)
	e.check(w, "reading input: %w")
	w.Linef("%s := lines.New(%s)", n.buf, n.text)
}

func (e *emitter) Decode(w *synth.Writer, step synth.DecodeStep) {
	n := e.names
	p := step.Param
	method := "Scan"
	switch step.Op {
	case synth.DecodeSequence:
		method = "ScanRow"
	case synth.DecodeMatrix:
		method = "ScanGrid"
	}
	w.Linef("var %s %s", p.Name, p.Type.Text)
	w.Linef("if %s := %s.%s(&%s); %s != nil {", n.err, n.buf, method, p.Name, n.err)
	e.returnErr(w, "decoding "+p.Name+": %w")

	if step.Extend {
		w.Linef("%s, %s := %s.ReadLines(int(%s))", n.more, n.err, n.in, p.Name)
		e.check(w, "reading lines counted by "+p.Name+": %w")
		w.Linef("%s.Extend(%s)", n.buf, n.more)
	}
}

func (e *emitter) Invoke(w *synth.Writer) {
	n := e.names
	call := e.sig.Name + "(" + strings.Join(e.sig.ParamNames(), ", ") + ")"
	switch e.shape {
	case resultNone:
		w.Line(call)
		w.Line("return nil")
		return
	case resultError:
		w.Linef("if %s := %s; %s != nil {", n.err, call, n.err)
		w.Indent()
		w.Line("return " + n.err)
		w.Dedent()
		w.Line("}")
		w.Line("return nil")
		return
	case resultValue:
		w.Linef("%s := %s", n.result, call)
	case resultValueError:
		w.Linef("%s, %s := %s", n.result, n.err, call)
		w.Linef("if %s != nil {", n.err)
		w.Indent()
		w.Line("return " + n.err)
		w.Dedent()
		w.Line("}")
	}
	w.Linef("if _, %s := fmt.Fprintln(%s, %s); %s != nil {", n.err, n.stdout, n.result, n.err)
	w.Indent()
	w.Line("return " + n.err)
	w.Dedent()
	w.Line("}")
	w.Line("return nil")
}

func (e *emitter) EndEntry(w *synth.Writer) {
	w.Dedent()
	w.Line("}")
}

// check writes an error check for the error local declared by the previous
// statement.
func (e *emitter) check(w *synth.Writer, format string) {
	w.Linef("if %s != nil {", e.names.err)
	e.returnErr(w, format)
}

// returnErr writes the body and closing brace of an error check.
func (e *emitter) returnErr(w *synth.Writer, format string) {
	w.Indent()
	w.Linef("return fmt.Errorf(%q, %s)", format, e.names.err)
	w.Dedent()
	w.Line("}")
}

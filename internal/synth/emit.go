package synth

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Emitter renders program fragments for one dialect and one signature. Emit
// calls its methods in program order.
type Emitter interface {
	// Header writes everything before the reproduced declaration: package
	// clause, imports and the runtime import.
	Header(w *Writer)
	// Decl reproduces the declaration with its body verbatim.
	Decl(w *Writer)
	// BeginEntry opens the generated entry point.
	BeginEntry(w *Writer)
	// Preamble acquires the initial buffer.
	Preamble(w *Writer, p Preamble)
	// Decode decodes one parameter.
	Decode(w *Writer, step DecodeStep)
	// Invoke calls the function and prints its result.
	Invoke(w *Writer)
	// EndEntry closes the entry point.
	EndEntry(w *Writer)
}

// Emit renders a program: header, declaration, then the entry point with the
// preamble, one decode instruction per parameter and the invocation.
func Emit(w *Writer, e Emitter, plan *Plan) []byte {
	e.Header(w)
	e.Decl(w)
	w.Line("")
	e.BeginEntry(w)
	e.Preamble(w, plan.Preamble)
	for _, step := range plan.Steps {
		e.Decode(w, step)
	}
	e.Invoke(w)
	e.EndEntry(w)
	return w.Bytes()
}

// Writer accumulates indented source lines.
type Writer struct {
	buf   bytes.Buffer
	unit  string
	depth int
}

// NewWriter returns a Writer that indents with unit.
func NewWriter(unit string) *Writer {
	return &Writer{unit: unit}
}

// Line writes s on its own line at the current indentation. An empty s
// writes an empty line.
func (w *Writer) Line(s string) {
	if s != "" {
		w.buf.WriteString(strings.Repeat(w.unit, w.depth))
		w.buf.WriteString(s)
	}
	w.buf.WriteByte('\n')
}

func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Raw writes s unchanged.
func (w *Writer) Raw(s string) {
	w.buf.WriteString(s)
}

func (w *Writer) Indent() { w.depth++ }

func (w *Writer) Dedent() {
	if w.depth > 0 {
		w.depth--
	}
}

func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Namer hands out identifiers for generated locals that never collide with
// reserved names such as parameters.
type Namer struct {
	taken map[string]bool
}

func NewNamer(reserved ...string) *Namer {
	n := &Namer{taken: make(map[string]bool, len(reserved))}
	for _, r := range reserved {
		n.taken[r] = true
	}
	return n
}

// Name returns base if it is free, otherwise base followed by the smallest
// free numeric suffix. The returned name is reserved.
func (n *Namer) Name(base string) string {
	name := base
	for i := 1; n.taken[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	n.taken[name] = true
	return name
}

package rustlang

import (
	"strconv"
	"strings"

	"github.com/funvibe/linesynth/internal/synth"
)

type emitter struct {
	sig *synth.Signature

	input, firstLine, rowNum, lines, result string
}

func newEmitter(sig *synth.Signature) *emitter {
	n := synth.NewNamer(append(sig.ParamNames(), sig.Name, "Lines", "std", "main")...)
	return &emitter{
		sig:       sig,
		input:     n.Name("input"),
		firstLine: n.Name("first_line"),
		rowNum:    n.Name("row_num"),
		lines:     n.Name("lines"),
		result:    n.Name("result"),
	}
}

func (e *emitter) Header(w *synth.Writer) {
	w.Line("use pte::Lines;")
	w.Line("")
}

func (e *emitter) Decl(w *synth.Writer) {
	w.Raw(e.sig.Source + "\n")
}

func (e *emitter) BeginEntry(w *synth.Writer) {
	w.Line("fn main() {")
	w.Indent()
}

func (e *emitter) Preamble(w *synth.Writer, p synth.Preamble) {
	switch {
	case p.Kind == synth.AcquireCounted:
		w.Linef("let mut %s = String::new();", e.firstLine)
		w.Linef("std::io::stdin().read_line(&mut %s).unwrap();", e.firstLine)
		w.Linef("let %s = %s.split_whitespace().nth(%d).unwrap().parse::<usize>().unwrap();", e.rowNum, e.firstLine, p.Field)
		e.readLines(w, e.rowNum)
	case p.Lines == 1:
		w.Linef("let mut %s = String::new();", e.input)
		w.Linef("std::io::stdin().read_line(&mut %s).unwrap();", e.input)
	default:
		e.readLines(w, strconv.Itoa(p.Lines))
	}
	w.Linef("let mut %s = Lines::new(&%s);", e.lines, e.input)
}

// readLines appends count lines of stdin to a fresh input string.
func (e *emitter) readLines(w *synth.Writer, count string) {
	w.Linef("let mut %s = String::new();", e.input)
	w.Linef("for _ in 0..%s {", count)
	w.Indent()
	w.Linef("std::io::stdin().read_line(&mut %s).unwrap();", e.input)
	w.Dedent()
	w.Line("}")
}

func (e *emitter) Decode(w *synth.Writer, step synth.DecodeStep) {
	p := step.Param
	method := "consume"
	switch step.Op {
	case synth.DecodeSequence:
		method = "consume_to_vec"
	case synth.DecodeMatrix:
		method = "consume_to_two_d_vec"
	}
	w.Linef("let %s = %s.%s::<%s>().unwrap();", p.Name, e.lines, method, p.Type.Leaf().Text)

	if step.Extend {
		e.readLines(w, p.Name)
		w.Linef("%s.extend(&%s);", e.lines, e.input)
	}
}

func (e *emitter) Invoke(w *synth.Writer) {
	call := e.sig.Name + "(" + strings.Join(e.sig.ParamNames(), ", ") + ")"
	if isUnit(e.sig.Result) {
		w.Line(call + ";")
		return
	}
	w.Linef("let %s = %s;", e.result, call)
	w.Linef(`println!("{}", %s);`, e.result)
}

// isUnit reports whether a return type text denotes no printable value.
func isUnit(result string) bool {
	r := strings.Join(strings.Fields(result), "")
	return r == "" || r == "()"
}

func (e *emitter) EndEntry(w *synth.Writer) {
	w.Dedent()
	w.Line("}")
}

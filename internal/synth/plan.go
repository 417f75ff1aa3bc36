package synth

import "fmt"

// AcquireKind is how the preamble of a generated program fills its initial
// buffer.
type AcquireKind int

const (
	// AcquireLines reads Preamble.Lines lines.
	AcquireLines AcquireKind = iota
	// AcquireCounted reads one line, parses field Preamble.Field of it as a
	// line count and reads that many further lines.
	AcquireCounted
)

// Preamble describes the input acquisition that precedes decoding.
type Preamble struct {
	Kind  AcquireKind
	Lines int
	Field int
}

// DecodeOp is the buffer operation that decodes one parameter.
type DecodeOp int

const (
	DecodeScalar DecodeOp = iota
	DecodeSequence
	DecodeMatrix
)

func (op DecodeOp) String() string {
	switch op {
	case DecodeScalar:
		return "scalar"
	case DecodeSequence:
		return "sequence"
	case DecodeMatrix:
		return "matrix"
	default:
		return fmt.Sprintf("DecodeOp(%d)", int(op))
	}
}

// DecodeStep decodes one parameter. When Extend is set the decoded value is a
// line count: that many lines are read from the input and appended to the
// buffer before the next step.
type DecodeStep struct {
	Param  Param
	Op     DecodeOp
	Extend bool
}

// Plan is everything an emitter needs to render the entry point.
type Plan struct {
	Strategy Strategy
	Preamble Preamble
	Steps    []DecodeStep
}

// Resolve builds the decode plan of sig under s. isInteger reports whether a
// declared type text names an integer type of the dialect; it is consulted
// only for CountFromVariable.
func Resolve(s Strategy, sig *Signature, isInteger func(string) bool) (*Plan, error) {
	if s.Kind == StrategyCountFromVariable {
		if err := checkCountVariable(s.Variable, sig, isInteger); err != nil {
			return nil, err
		}
	}
	return &Plan{
		Strategy: s,
		Preamble: preamble(s),
		Steps:    decodeSteps(s, sig.Params),
	}, nil
}

func preamble(s Strategy) Preamble {
	switch s.Kind {
	case StrategyDefault, StrategyCountFromVariable:
		return Preamble{Kind: AcquireLines, Lines: 1}
	case StrategyFixedCount:
		return Preamble{Kind: AcquireLines, Lines: s.Count}
	case StrategyCountFromField:
		return Preamble{Kind: AcquireCounted, Field: s.Field}
	default:
		panic(fmt.Sprintf("synth: unknown strategy kind %d", int(s.Kind)))
	}
}

func decodeSteps(s Strategy, params []Param) []DecodeStep {
	steps := make([]DecodeStep, len(params))
	for i, p := range params {
		steps[i] = DecodeStep{
			Param:  p,
			Op:     opFor(p.Type.Kind),
			Extend: s.Kind == StrategyCountFromVariable && p.Name == s.Variable,
		}
	}
	return steps
}

func opFor(k TypeKind) DecodeOp {
	switch k {
	case Sequence:
		return DecodeSequence
	case Matrix:
		return DecodeMatrix
	default:
		return DecodeScalar
	}
}

func checkCountVariable(name string, sig *Signature, isInteger func(string) bool) error {
	config := RowKey + " = " + name
	var matches []Param
	for _, p := range sig.Params {
		if p.Name == name {
			matches = append(matches, p)
		}
	}
	// Signature.Validate has already rejected duplicate names, so at most
	// one parameter matches.
	if len(matches) == 0 {
		return &ConfigError{Config: config, Msg: fmt.Sprintf("no parameter named %s in %s", name, sig.Name)}
	}
	p := matches[0]
	if p.Type.Kind != Scalar {
		return &ConfigError{Config: config, Msg: fmt.Sprintf("line count parameter %s must be a scalar, got %s", name, p.Type)}
	}
	if isInteger == nil || !isInteger(p.Type.Text) {
		return &ConfigError{Config: config, Msg: fmt.Sprintf("line count parameter %s must have an integer type, got %s", name, p.Type.Text)}
	}
	return nil
}

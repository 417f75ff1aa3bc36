package synth

// Dialect adapts the synthesizer to one target language.
type Dialect interface {
	// Name is the dialect name used on the command line ("go", "rust").
	Name() string
	// Container is the sequence container keyword recognized by Classify.
	Container() string
	// Indent is one level of indentation in generated code.
	Indent() string
	// IsInteger reports whether a type text names a builtin integer type.
	IsInteger(typ string) bool
	// ParseDecl parses a single function declaration.
	ParseDecl(src []byte) (*Signature, error)
	// NewEmitter returns an emitter for one program.
	NewEmitter(sig *Signature) Emitter
	// Finish checks and post-processes an emitted program.
	Finish(src []byte) ([]byte, error)
}

// Target is a function found in a source file, with the configuration
// attached to it by a directive.
type Target struct {
	Name      string
	Line      int
	Config    string
	Annotated bool
	Sig       *Signature
}

// FileDialect is a Dialect that also understands whole source files.
type FileDialect interface {
	Dialect
	// Annotated returns every function of src that carries a synthesis
	// directive, in source order.
	Annotated(filename string, src []byte) ([]Target, error)
	// Lookup returns the named function of src.
	Lookup(filename string, src []byte, name string) (Target, error)
}

// Synthesizer generates programs for one dialect. It holds no state between
// calls and is safe for concurrent use.
type Synthesizer struct {
	dialect Dialect
}

func New(d Dialect) *Synthesizer {
	return &Synthesizer{dialect: d}
}

func (s *Synthesizer) Dialect() Dialect { return s.dialect }

// Synthesize generates the program for the declaration decl under config.
// The output is a pure function of its inputs.
func (s *Synthesizer) Synthesize(config string, decl []byte) ([]byte, error) {
	strategy, err := ParseConfig(config)
	if err != nil {
		return nil, err
	}
	sig, err := s.dialect.ParseDecl(decl)
	if err != nil {
		return nil, err
	}
	return s.generate(strategy, sig)
}

// SynthesizeSignature is Synthesize for an already parsed declaration.
func (s *Synthesizer) SynthesizeSignature(config string, sig *Signature) ([]byte, error) {
	strategy, err := ParseConfig(config)
	if err != nil {
		return nil, err
	}
	return s.generate(strategy, sig)
}

func (s *Synthesizer) generate(strategy Strategy, sig *Signature) ([]byte, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	plan, err := Resolve(strategy, sig, s.dialect.IsInteger)
	if err != nil {
		return nil, err
	}
	out := Emit(NewWriter(s.dialect.Indent()), s.dialect.NewEmitter(sig), plan)
	return s.dialect.Finish(out)
}

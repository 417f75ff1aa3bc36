package synth

import "fmt"

// ConfigError reports a malformed configuration or a row value that cannot
// be resolved to a strategy.
type ConfigError struct {
	Config string
	Msg    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %q: %s", e.Config, e.Msg)
}

// ClassificationError reports a parameter type that cannot be classified.
type ClassificationError struct {
	Type string
	Msg  string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("cannot classify type %s: %s", e.Type, e.Msg)
}

// SignatureError reports a declaration that cannot be turned into a
// Signature.
type SignatureError struct {
	Msg string
	Err error
}

func (e *SignatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid declaration: %s: %v", e.Msg, e.Err)
	}
	return "invalid declaration: " + e.Msg
}

func (e *SignatureError) Unwrap() error { return e.Err }

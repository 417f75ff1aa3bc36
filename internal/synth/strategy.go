package synth

import "fmt"

// StrategyKind selects how the generated program acquires its input lines.
type StrategyKind int

const (
	// StrategyDefault reads exactly one line.
	StrategyDefault StrategyKind = iota
	// StrategyFixedCount reads a fixed number of lines.
	StrategyFixedCount
	// StrategyCountFromField reads one line, takes the line count from one
	// of its fields and reads that many further lines.
	StrategyCountFromField
	// StrategyCountFromVariable reads one line and extends the buffer once
	// the count parameter has been decoded.
	StrategyCountFromVariable
)

// Strategy is the resolved line-count strategy of a configuration. Only the
// fields relevant to Kind are set.
type Strategy struct {
	Kind     StrategyKind
	Count    int    // StrategyFixedCount
	Field    int    // StrategyCountFromField
	Variable string // StrategyCountFromVariable
}

// Default returns the strategy that reads exactly one line.
func Default() Strategy { return Strategy{Kind: StrategyDefault} }

// FixedCount returns the strategy that reads exactly n lines.
func FixedCount(n int) Strategy { return Strategy{Kind: StrategyFixedCount, Count: n} }

// CountFromField returns the strategy that reads the line count from the
// given 0-based field of the first line.
func CountFromField(field int) Strategy { return Strategy{Kind: StrategyCountFromField, Field: field} }

// CountFromVariable returns the strategy that reads the line count from the
// named parameter.
func CountFromVariable(name string) Strategy {
	return Strategy{Kind: StrategyCountFromVariable, Variable: name}
}

func (s Strategy) String() string {
	switch s.Kind {
	case StrategyDefault:
		return "Default"
	case StrategyFixedCount:
		return fmt.Sprintf("FixedCount(%d)", s.Count)
	case StrategyCountFromField:
		return fmt.Sprintf("CountFromField(%d)", s.Field)
	case StrategyCountFromVariable:
		return fmt.Sprintf("CountFromVariable(%s)", s.Variable)
	default:
		return fmt.Sprintf("Strategy(%d)", int(s.Kind))
	}
}

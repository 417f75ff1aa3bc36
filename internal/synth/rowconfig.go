package synth

import (
	"strconv"
	"strings"
)

// RowKey is the only configuration key that affects synthesis.
const RowKey = "row"

// Entry is one "key = value" pair of a configuration.
type Entry struct {
	Key   string
	Value string
}

// ParseEntries splits a configuration into its entries. An empty or blank
// configuration has no entries. Surrounding whitespace of keys and values is
// trimmed; values may be empty.
func ParseEntries(config string) ([]Entry, error) {
	if strings.TrimSpace(config) == "" {
		return nil, nil
	}
	var entries []Entry
	for _, part := range strings.Split(config, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, &ConfigError{Config: config, Msg: "expected key = value, got " + strconv.Quote(strings.TrimSpace(part))}
		}
		key = strings.TrimSpace(key)
		if !isIdent(key) {
			return nil, &ConfigError{Config: config, Msg: "invalid key " + strconv.Quote(key)}
		}
		entries = append(entries, Entry{Key: key, Value: strings.TrimSpace(value)})
	}
	return entries, nil
}

// ParseConfig parses a configuration into its Strategy. The first row entry
// wins; other keys are accepted and ignored.
//
// A row value is resolved in order: in<digit> selects CountFromField, an
// integer selects FixedCount, an identifier selects CountFromVariable. An
// absent or empty row value selects Default.
func ParseConfig(config string) (Strategy, error) {
	entries, err := ParseEntries(config)
	if err != nil {
		return Strategy{}, err
	}
	for _, e := range entries {
		if e.Key == RowKey {
			return parseRow(config, e.Value)
		}
	}
	return Default(), nil
}

func parseRow(config, value string) (Strategy, error) {
	if value == "" {
		return Default(), nil
	}
	if strings.HasPrefix(value, "in") {
		ref := value[len("in"):]
		if len(ref) != 1 || !isDigit(ref[0]) {
			return Strategy{}, &ConfigError{Config: config, Msg: "invalid input reference " + value + `, format is "in<digit>"`}
		}
		return CountFromField(int(ref[0] - '0')), nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		if n < 0 {
			return Strategy{}, &ConfigError{Config: config, Msg: "row count must not be negative, got " + value}
		}
		return FixedCount(n), nil
	} else if isDigit(value[0]) || value[0] == '-' || value[0] == '+' {
		return Strategy{}, &ConfigError{Config: config, Msg: "invalid row count " + value}
	}
	if isIdent(value) {
		return CountFromVariable(value), nil
	}
	return Strategy{}, &ConfigError{Config: config, Msg: "invalid row value " + strconv.Quote(value)}
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// isIdent reports whether s is an ASCII identifier.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case isDigit(c) && i > 0:
		default:
			return false
		}
	}
	return true
}

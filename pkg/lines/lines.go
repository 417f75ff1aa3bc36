// Package lines is the input runtime of programs generated by linesynth.
//
// A Reader acquires whole lines from the input stream and a Buffer decodes
// values from the acquired text:
//
//	in := lines.NewReader(os.Stdin)
//	text, err := in.ReadLines(2)
//	...
//	buf := lines.New(text)
//	var n int
//	err = buf.Scan(&n)
//
// Scan consumes one whitespace-delimited token, ScanRow one line of tokens
// and ScanGrid every remaining line. Extend appends further text to a Buffer
// without disturbing the position already consumed.
package lines

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNoToken is returned when a Buffer has no token left.
	ErrNoToken = errors.New("lines: no token left")
	// ErrNoLine is returned when a Buffer has no line left.
	ErrNoLine = errors.New("lines: no line left")
	// ErrShortInput is returned when the input ends before the requested
	// number of lines was read.
	ErrShortInput = errors.New("lines: unexpected end of input")
)

// ParseError reports a token that cannot be parsed as the requested type.
type ParseError struct {
	Token string
	Type  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("lines: cannot parse %q as %s: %v", e.Token, e.Type, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Reader reads whole lines from an input stream.
type Reader struct {
	r    *bufio.Reader
	line int
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line including its newline. A last line without
// a newline is returned with one appended.
func (r *Reader) ReadLine() (string, error) {
	s, err := r.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("lines: reading line %d: %w", r.line+1, err)
		}
		if s == "" {
			return "", fmt.Errorf("line %d: %w", r.line+1, ErrShortInput)
		}
		s += "\n"
	}
	r.line++
	return s, nil
}

// ReadLines reads exactly n lines and returns them concatenated.
func (r *Reader) ReadLines(n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("lines: negative line count %d", n)
	}
	var sb strings.Builder
	for i := 0; i < n; i++ {
		s, err := r.ReadLine()
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// Count parses the field-th (0-based) whitespace-separated token of line as
// a line count.
func Count(line string, field int) (int, error) {
	fields := strings.Fields(line)
	if field < 0 || field >= len(fields) {
		return 0, fmt.Errorf("lines: field %d of %q: %w", field, strings.TrimRight(line, "\r\n"), ErrNoToken)
	}
	tok := fields[field]
	n, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, &ParseError{Token: tok, Type: "line count", Err: err}
	}
	if n > math.MaxInt {
		return 0, &ParseError{Token: tok, Type: "line count", Err: strconv.ErrRange}
	}
	return int(n), nil
}

package lines

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Buffer is a cursor over acquired input text.
type Buffer struct {
	src string
	off int
}

// New returns a Buffer positioned at the start of text.
func New(text string) *Buffer {
	return &Buffer{src: text}
}

// Extend appends text to the buffer. A missing newline at the end of the
// current text is added first so that text starts a new line.
func (b *Buffer) Extend(text string) {
	if text == "" {
		return
	}
	if b.src != "" && !strings.HasSuffix(b.src, "\n") {
		b.src += "\n"
	}
	b.src += text
}

// Remaining returns the unconsumed text.
func (b *Buffer) Remaining() string {
	return b.src[b.off:]
}

// Scan parses the next token into the value pointed to by dst. Tokens are
// separated by any whitespace, including line ends.
func (b *Buffer) Scan(dst any) error {
	v, err := target(dst)
	if err != nil {
		return err
	}
	tok, ok := b.token()
	if !ok {
		return ErrNoToken
	}
	return setScalar(v, tok)
}

// ScanRow parses one line of tokens into the slice pointed to by dst. In the
// middle of a line the rest of that line is used unless it is blank, in which
// case the next line is.
func (b *Buffer) ScanRow(dst any) error {
	v, err := target(dst)
	if err != nil {
		return err
	}
	if v.Kind() != reflect.Slice {
		return &InvalidTargetError{Type: reflect.TypeOf(dst)}
	}
	row, ok := b.row()
	if !ok {
		return ErrNoLine
	}
	return setRow(v, row)
}

// ScanGrid parses every remaining line into the slice of slices pointed to
// by dst, one row per line.
func (b *Buffer) ScanGrid(dst any) error {
	v, err := target(dst)
	if err != nil {
		return err
	}
	if v.Kind() != reflect.Slice || v.Type().Elem().Kind() != reflect.Slice {
		return &InvalidTargetError{Type: reflect.TypeOf(dst)}
	}
	first, ok := b.row()
	if !ok {
		return ErrNoLine
	}
	rows := [][]string{first}
	for b.off < len(b.src) {
		r, _ := b.row()
		rows = append(rows, r)
	}
	grid := reflect.MakeSlice(v.Type(), len(rows), len(rows))
	for i, r := range rows {
		if err := setRow(grid.Index(i), r); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	v.Set(grid)
	return nil
}

func (b *Buffer) token() (string, bool) {
	i := b.off
	for i < len(b.src) && isSpace(b.src[i]) {
		i++
	}
	if i == len(b.src) {
		b.off = i
		return "", false
	}
	j := i
	for j < len(b.src) && !isSpace(b.src[j]) {
		j++
	}
	b.off = j
	return b.src[i:j], true
}

func (b *Buffer) row() ([]string, bool) {
	if b.off >= len(b.src) {
		return nil, false
	}
	if !b.atLineStart() {
		rest, next := b.lineAt(b.off)
		b.off = next
		if f := strings.Fields(rest); len(f) > 0 {
			return f, true
		}
		if b.off >= len(b.src) {
			return nil, false
		}
	}
	line, next := b.lineAt(b.off)
	b.off = next
	return strings.Fields(line), true
}

func (b *Buffer) atLineStart() bool {
	return b.off == 0 || b.src[b.off-1] == '\n'
}

// lineAt returns the text from off to the end of its line and the offset
// just past the line's newline.
func (b *Buffer) lineAt(off int) (string, int) {
	i := strings.IndexByte(b.src[off:], '\n')
	if i < 0 {
		return b.src[off:], len(b.src)
	}
	return b.src[off : off+i], off + i + 1
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// InvalidTargetError reports a destination that is not a non-nil pointer
// of a supported shape.
type InvalidTargetError struct {
	Type reflect.Type
}

func (e *InvalidTargetError) Error() string {
	if e.Type == nil {
		return "lines: scan into nil"
	}
	return "lines: cannot scan into " + e.Type.String()
}

func target(dst any) (reflect.Value, error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, &InvalidTargetError{Type: reflect.TypeOf(dst)}
	}
	return rv.Elem(), nil
}

func setRow(v reflect.Value, row []string) error {
	s := reflect.MakeSlice(v.Type(), len(row), len(row))
	for i, tok := range row {
		if err := setScalar(s.Index(i), tok); err != nil {
			return err
		}
	}
	v.Set(s)
	return nil
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

func setScalar(v reflect.Value, tok string) error {
	if v.CanAddr() && v.Addr().Type().Implements(textUnmarshalerType) {
		u := v.Addr().Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(tok)); err != nil {
			return &ParseError{Token: tok, Type: v.Type().String(), Err: err}
		}
		return nil
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(tok, 10, v.Type().Bits())
		if err != nil {
			return &ParseError{Token: tok, Type: v.Type().String(), Err: err}
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(tok, 10, v.Type().Bits())
		if err != nil {
			return &ParseError{Token: tok, Type: v.Type().String(), Err: err}
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(tok, v.Type().Bits())
		if err != nil {
			return &ParseError{Token: tok, Type: v.Type().String(), Err: err}
		}
		v.SetFloat(f)
	case reflect.Bool:
		t, err := strconv.ParseBool(tok)
		if err != nil {
			return &ParseError{Token: tok, Type: v.Type().String(), Err: err}
		}
		v.SetBool(t)
	case reflect.String:
		v.SetString(tok)
	default:
		return fmt.Errorf("lines: unsupported type %s", v.Type())
	}
	return nil
}

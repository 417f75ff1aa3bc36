package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/linesynth/internal/backend/golang"
	"github.com/funvibe/linesynth/internal/synth"
	"github.com/funvibe/linesynth/pkg/lines"
)

func synthesize(t *testing.T, config, decl string) []byte {
	t.Helper()
	out, err := synth.New(golang.New("")).Synthesize(config, []byte(decl))
	require.NoError(t, err)
	return out
}

func run(t *testing.T, program []byte, input string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	var out bytes.Buffer
	err := New().Run(ctx, program, strings.NewReader(input), &out)
	return out.String(), err
}

func TestRunScenarios(t *testing.T) {
	tests := []struct {
		name   string
		config string
		decl   string
		input  string
		want   string
	}{
		{
			name:   "default reads one line",
			config: "",
			decl:   "func solve(v uint) int32 { return int32(v) * 2 }",
			input:  "21\nignored\n",
			want:   "42\n",
		},
		{
			name:   "count from field",
			config: "row = in1",
			decl:   "func solve(grid [][]int) int {\n\ts := 0\n\tfor _, r := range grid {\n\t\tfor _, x := range r {\n\t\t\ts += x\n\t\t}\n\t}\n\treturn s\n}",
			input:  "x 2\n1 2\n3 4\n",
			want:   "10\n",
		},
		{
			name:   "fixed count",
			config: "row = 3",
			decl:   "func solve(a int, words []string, b int) string { return fmt.Sprint(a+b, len(words)) }",
			input:  "1\nx y z\n2\n",
			want:   "3 3\n",
		},
		{
			name:   "count from variable",
			config: "row = n",
			decl:   "func solve(v int, n int, vec []int) int {\n\ts := v\n\tfor _, x := range vec {\n\t\ts += x\n\t}\n\treturn s\n}",
			input:  "7 2\n1 2 3\n4 5\n",
			want:   "13\n",
		},
		{
			name:   "value and error",
			config: "",
			decl:   "func solve(a, b int) (int, error) { return a / b, nil }",
			input:  "9 3\n",
			want:   "3\n",
		},
		{
			name:   "no result",
			config: "",
			decl:   "func solve(v int) {}",
			input:  "1\n",
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, synthesize(t, tt.config, tt.decl), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunMalformedInput(t *testing.T) {
	program := synthesize(t, "", "func solve(v int) int { return v }")
	got, err := run(t, program, "abc\n")
	require.Error(t, err)
	assert.ErrorContains(t, err, "decoding v")
	var pe *lines.ParseError
	assert.True(t, errors.As(err, &pe), "error %v does not wrap *lines.ParseError", err)
	assert.Empty(t, got)
}

func TestRunShortInput(t *testing.T) {
	program := synthesize(t, "row = n", "func solve(n int, rows [][]int) int { return len(rows) }")
	got, err := run(t, program, "3\n1\n2\n")
	require.Error(t, err)
	assert.ErrorContains(t, err, "reading lines counted by n")
	assert.True(t, errors.Is(err, lines.ErrShortInput))
	assert.Empty(t, got)
}

func TestRunFunctionError(t *testing.T) {
	program := synthesize(t, "", "func solve(v int) (int, error) {\n\tif v < 0 {\n\t\treturn 0, fmt.Errorf(\"negative\")\n\t}\n\treturn v, nil\n}")
	_, err := run(t, program, "-1\n")
	assert.EqualError(t, err, "negative")
}

func TestRunPanic(t *testing.T) {
	program := synthesize(t, "", "func solve(xs []int) int { return xs[5] }")
	_, err := run(t, program, "1 2\n")
	assert.ErrorContains(t, err, "program panicked")
}

func TestRunInvalidProgram(t *testing.T) {
	_, err := run(t, []byte("package main\n\nfunc main() {"), "")
	assert.ErrorContains(t, err, "parsing program")

	_, err = run(t, []byte("package main\n\nfunc main() {}\n"), "")
	assert.ErrorContains(t, err, "no run function")
}

func TestDisableMain(t *testing.T) {
	code, err := disableMain(synthesize(t, "", "func solve(v int) int { return v }"))
	require.NoError(t, err)
	assert.NotContains(t, code, "func main()")
	assert.Contains(t, code, "func linesynthMain()")
	assert.Contains(t, code, "func run(stdin io.Reader, stdout io.Writer) error")
}

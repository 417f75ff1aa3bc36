package runner

import (
	"reflect"

	"github.com/traefik/yaegi/interp"

	"github.com/funvibe/linesynth/pkg/lines"
)

// Symbols exports the lines runtime to the interpreter under the import
// path runtime.
func Symbols(runtime string) interp.Exports {
	return interp.Exports{
		runtime + "/lines": {
			"Buffer":             reflect.ValueOf((*lines.Buffer)(nil)),
			"Count":              reflect.ValueOf(lines.Count),
			"ErrNoLine":          reflect.ValueOf(&lines.ErrNoLine).Elem(),
			"ErrNoToken":         reflect.ValueOf(&lines.ErrNoToken).Elem(),
			"ErrShortInput":      reflect.ValueOf(&lines.ErrShortInput).Elem(),
			"InvalidTargetError": reflect.ValueOf((*lines.InvalidTargetError)(nil)),
			"New":                reflect.ValueOf(lines.New),
			"NewReader":          reflect.ValueOf(lines.NewReader),
			"ParseError":         reflect.ValueOf((*lines.ParseError)(nil)),
			"Reader":             reflect.ValueOf((*lines.Reader)(nil)),
		},
	}
}

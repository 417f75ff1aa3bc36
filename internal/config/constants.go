// Package config holds the names shared across linesynth and the
// environment based settings of the command line tool.
package config

// Dialect names.
const (
	DialectGo   = "go"
	DialectRust = "rust"
)

// SourceFileExtensions maps recognized source file extensions to dialects.
var SourceFileExtensions = map[string]string{
	".go": DialectGo,
	".rs": DialectRust,
}

// DefaultRuntime is the import path of the runtime used by generated Go
// programs.
const DefaultRuntime = "github.com/funvibe/linesynth/pkg/lines"

// Directives that mark a function as a synthesis target.
const (
	GoDirective   = "//linesynth:main"
	RustAttribute = "pte"
)

// Project layout.
const (
	ProjectFileName    = "linesynth.yaml"
	ProjectFileNameAlt = "linesynth.yml"
	StateDir           = ".linesynth"
	CacheDirName       = "cache"
	DefaultOutDir      = "gen"
)

// Generated file names per dialect.
var OutputFileNames = map[string]string{
	DialectGo:   "main.go",
	DialectRust: "main.rs",
}

// CodegenVersion is bumped whenever generated code changes shape, which
// invalidates cached outputs.
const CodegenVersion = "v1"

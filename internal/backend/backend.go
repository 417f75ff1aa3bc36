// Package backend selects the dialect that parses declarations and renders
// programs.
package backend

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/funvibe/linesynth/internal/backend/golang"
	"github.com/funvibe/linesynth/internal/backend/rustlang"
	"github.com/funvibe/linesynth/internal/config"
	"github.com/funvibe/linesynth/internal/synth"
)

// Options configures the dialects built by ForName and ForFile.
type Options struct {
	// Runtime is the import path of the Go runtime package.
	Runtime string
}

// Names lists the supported dialect names, sorted.
func Names() []string {
	names := make([]string, 0, len(config.OutputFileNames))
	for name := range config.OutputFileNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForName returns the dialect called name.
func ForName(name string, opts Options) (synth.FileDialect, error) {
	switch name {
	case config.DialectGo:
		return golang.New(opts.Runtime), nil
	case config.DialectRust:
		return rustlang.New(), nil
	default:
		return nil, fmt.Errorf("unknown dialect %q (want one of %v)", name, Names())
	}
}

// ForFile returns the dialect of a source file, chosen by its extension.
func ForFile(filename string, opts Options) (synth.FileDialect, error) {
	ext := filepath.Ext(filename)
	name, ok := config.SourceFileExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%s: no dialect for %q files", filename, ext)
	}
	return ForName(name, opts)
}

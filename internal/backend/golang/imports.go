package golang

import (
	"go/ast"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// packageName guesses the package name of an import path the way the go
// tool names an unaliased import: the last path element, skipping a major
// version suffix and dropping characters that cannot appear in identifiers.
func packageName(pkgPath string) string {
	parts := strings.Split(pkgPath, "/")
	last := parts[len(parts)-1]
	if len(parts) > 1 && isMajorVersion(last) {
		last = parts[len(parts)-2]
	}
	last = strings.TrimPrefix(last, "go-")
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, last)
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// carriedImports returns the import specs of file that fn refers to through
// a qualified identifier, sorted.
func carriedImports(file *ast.File, fn *ast.FuncDecl) []string {
	used := make(map[string]bool)
	ast.Inspect(fn, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				used[id.Name] = true
			}
		}
		return true
	})

	var specs []string
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := packageName(path)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." || !used[name] {
			continue
		}
		spec := strconv.Quote(path)
		if imp.Name != nil {
			spec = imp.Name.Name + " " + spec
		}
		specs = append(specs, spec)
	}
	slices.Sort(specs)
	return slices.Compact(specs)
}

// importGroups splits import specs into standard library and other
// packages, each sorted by path with duplicates removed.
func importGroups(specs []string) (std, other []string) {
	seen := make(map[string]bool)
	for _, spec := range specs {
		if seen[spec] {
			continue
		}
		seen[spec] = true
		if isStdPath(specPath(spec)) {
			std = append(std, spec)
		} else {
			other = append(other, spec)
		}
	}
	byPath := func(a, b string) int { return strings.Compare(specPath(a), specPath(b)) }
	slices.SortStableFunc(std, byPath)
	slices.SortStableFunc(other, byPath)
	return std, other
}

func specPath(spec string) string {
	i := strings.IndexByte(spec, '"')
	if i < 0 {
		return spec
	}
	path, err := strconv.Unquote(spec[i:])
	if err != nil {
		return spec
	}
	return path
}

// isStdPath reports whether path belongs to the standard library: its first
// element has no dot.
func isStdPath(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}

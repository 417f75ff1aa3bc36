package rustlang

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/funvibe/linesynth/internal/config"
	"github.com/funvibe/linesynth/internal/synth"
)

// attributeConfig returns the configuration of a #[pte(...)] attribute, if
// the attribute item text is one.
func attributeConfig(item string) (string, bool) {
	inner, ok := strings.CutPrefix(strings.TrimSpace(item), "#[")
	if !ok {
		return "", false
	}
	inner, ok = strings.CutSuffix(inner, "]")
	if !ok {
		return "", false
	}
	rest, ok := strings.CutPrefix(strings.TrimSpace(inner), config.RustAttribute)
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", true
	}
	args, ok := strings.CutPrefix(rest, "(")
	if !ok {
		return "", false
	}
	args, ok = strings.CutSuffix(args, ")")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(args), true
}

// item is a top-level fn item with the attributes written before it.
type item struct {
	fn     *sitter.Node
	config string
	marked bool
}

// items lists the fn items directly under root. Outer attributes are
// sibling nodes preceding the item they annotate.
func items(root *sitter.Node, src []byte) []item {
	var (
		out     []item
		pending []string
	)
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "attribute_item":
			pending = append(pending, child.Content(src))
			continue
		case "line_comment", "block_comment":
			continue
		case "function_item":
			it := item{fn: child}
			for _, attr := range pending {
				if cfg, ok := attributeConfig(attr); ok {
					it.config, it.marked = cfg, true
					break
				}
			}
			out = append(out, it)
		}
		pending = pending[:0]
	}
	return out
}

func parseFile(filename string, src []byte) (*sitter.Tree, error) {
	tree, err := parse(src)
	if err != nil {
		return nil, err
	}
	if root := tree.RootNode(); root.HasError() {
		pos := errorPosition(root)
		tree.Close()
		return nil, &synth.SignatureError{Msg: fmt.Sprintf("%s:%s: syntax error", filename, pos)}
	}
	return tree, nil
}

func target(filename string, it item, src []byte) (synth.Target, error) {
	line := int(it.fn.StartPoint().Row) + 1
	sig, err := signatureOf(it.fn, src)
	if err != nil {
		return synth.Target{}, fmt.Errorf("%s:%d: %w", filename, line, err)
	}
	return synth.Target{Name: sig.Name, Line: line, Config: it.config, Annotated: it.marked, Sig: sig}, nil
}

// Annotated returns the fn items of a Rust source file marked with a
// #[pte] attribute.
func (d *Dialect) Annotated(filename string, src []byte) ([]synth.Target, error) {
	tree, err := parseFile(filename, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var targets []synth.Target
	for _, it := range items(tree.RootNode(), src) {
		if !it.marked {
			continue
		}
		tg, err := target(filename, it, src)
		if err != nil {
			return nil, err
		}
		targets = append(targets, tg)
	}
	return targets, nil
}

// Lookup returns the fn item called name in a Rust source file.
func (d *Dialect) Lookup(filename string, src []byte, name string) (synth.Target, error) {
	tree, err := parseFile(filename, src)
	if err != nil {
		return synth.Target{}, err
	}
	defer tree.Close()

	for _, it := range items(tree.RootNode(), src) {
		if fieldText(it.fn, "name", src) == name {
			return target(filename, it, src)
		}
	}
	return synth.Target{}, fmt.Errorf("function %s not found in %s", name, filename)
}

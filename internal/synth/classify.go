package synth

// maxDepth is the number of container levels a parameter type may have.
const maxDepth = 2

// Classify classifies t, whose container applications use the keyword
// container. An application of the container with exactly one argument is a
// Sequence of that argument; two levels make a Matrix. Any other type is an
// opaque Scalar and its own generic arguments are not examined.
func Classify(t TypeExpr, container string) (TypeRef, error) {
	return classify(t, container, t.Text, 0)
}

// classify reports errors against the full declared type root.
func classify(t TypeExpr, container, root string, depth int) (TypeRef, error) {
	if t.Name != container || container == "" {
		return TypeRef{Kind: Scalar, Text: t.Text}, nil
	}
	switch {
	case len(t.Args) == 0:
		return TypeRef{}, &ClassificationError{Type: root, Msg: container + " requires a type argument"}
	case len(t.Args) > 1:
		return TypeRef{}, &ClassificationError{Type: root, Msg: container + " takes exactly one type argument"}
	case depth == maxDepth:
		return TypeRef{}, &ClassificationError{Type: root, Msg: "nesting deeper than two sequence levels is not supported"}
	}

	elem, err := classify(t.Args[0], container, root, depth+1)
	if err != nil {
		return TypeRef{}, err
	}
	kind := Sequence
	if elem.Kind != Scalar {
		kind = Matrix
	}
	return TypeRef{Kind: kind, Text: t.Text, Elem: &elem}, nil
}

package doctree

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page (0 if the format has no page concept)
	Children []*DocNode // Subsections
}

// Walk visits every node in depth-first document order.
func (t *DocTree) Walk(fn func(n *DocNode, depth int)) {
	var visit func(nodes []*DocNode, depth int)
	visit = func(nodes []*DocNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			visit(n.Children, depth+1)
		}
	}
	visit(t.Children, 0)
}

package mdast

// NewNode creates a detached node of kind with an empty span.
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// NewRoot creates a document root node.
func NewRoot() *Node {
	return NewNode(NodeDocument)
}

// AppendChild makes child the last child of parent, detaching it from any
// previous parent first.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	Detach(child)

	child.Parent = parent
	child.Prev = parent.LastChild
	if parent.LastChild == nil {
		parent.FirstChild = child
	} else {
		parent.LastChild.Next = child
	}
	parent.LastChild = child
}

// Detach unlinks n from its parent and siblings. Its own subtree is kept.
func Detach(n *Node) {
	if n == nil || n.Parent == nil {
		return
	}
	parent := n.Parent

	if n.Prev == nil {
		parent.FirstChild = n.Next
	} else {
		n.Prev.Next = n.Next
	}
	if n.Next == nil {
		parent.LastChild = n.Prev
	} else {
		n.Next.Prev = n.Prev
	}

	n.Parent, n.Prev, n.Next = nil, nil, nil
}

// Attach points node and every descendant at doc and fills in their 0-based
// line and column from the span start.
func Attach(node *Node, doc *Document) {
	for n := range All(node) {
		n.Doc = doc
		if doc != nil {
			n.Line, n.Column = doc.LineAt(n.Span.Start)
		}
	}
}

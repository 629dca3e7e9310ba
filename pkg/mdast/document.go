package mdast

// Document is the root of a parse: the source content, its line index and
// the node tree. A Document is never mutated after the parser returns it.
type Document struct {
	// Path is the file path associated with the content, if any.
	Path string

	// Content is the raw source.
	Content []byte

	// Lines is the line index of Content.
	Lines []LineInfo

	// Root is the NodeDocument at the top of the tree.
	Root *Node

	// FrontMatter holds decoded YAML front matter, or nil when the document
	// has none or it failed to decode.
	FrontMatter map[string]any
}

// NewDocument creates a Document for content with an empty root node.
func NewDocument(path string, content []byte) *Document {
	doc := &Document{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
	doc.Root = NewRoot()
	doc.Root.Span = Span{Start: 0, Len: len(content)}
	doc.Root.Doc = doc
	return doc
}

// Blocks returns the top-level blocks of the document.
func (d *Document) Blocks() []*Node {
	if d == nil || d.Root == nil {
		return nil
	}
	return d.Root.Children()
}

// FirstBlock returns the first top-level block, or nil for an empty document.
func (d *Document) FirstBlock() *Node {
	if d == nil || d.Root == nil {
		return nil
	}
	return d.Root.FirstChild
}

package mdast

// BlockAttrs carries the kind-specific data of a block node. Only the field
// matching the node's kind is set.
type BlockAttrs struct {
	HeadingLevel int // 1-6
	List         *ListAttrs
	ListItem     *ListItemAttrs
	CodeBlock    *CodeBlockAttrs
}

// ListStyle is how a list numbers its items.
type ListStyle uint8

// List styles.
const (
	ListStyleBullet     ListStyle = iota // -, + or *
	ListStyleNumeric                     // 1. 2. 3.
	ListStyleLowerAlpha                  // a. b. c.
	ListStyleUpperAlpha                  // A. B. C.
)

var listStyleNames = [...]string{"bullet", "numeric", "lower-alpha", "upper-alpha"}

func (s ListStyle) String() string {
	if int(s) < len(listStyleNames) {
		return listStyleNames[s]
	}
	return "unknown"
}

// ListAttrs describes a NodeList.
type ListAttrs struct {
	Ordered      bool
	BulletMarker string // "-", "+" or "*" for bullet lists
	Delimiter    string // "." or ")" for ordered lists
	Style        ListStyle
	Tight        bool

	// StartNumber is the first ordinal. Lettered lists count "a" as 1.
	StartNumber int
}

// ListItemAttrs describes a NodeListItem.
type ListItemAttrs struct {
	// Marker is written exactly as in the source: "-", "3.", "b)".
	Marker string

	// ContentOffset is the byte distance from the item start to its content,
	// covering the marker and the spaces after it.
	ContentOffset int
}

// CodeBlockAttrs describes a NodeCodeBlock.
type CodeBlockAttrs struct {
	Indented bool

	// Fence fields are zero for indented blocks.
	FenceChar   byte // '`' or '~'
	FenceLength int
	Info        string
	Language    string // first word of Info

	// Closed is false for a fenced block that runs to the end of its
	// container. Indented blocks are always closed.
	Closed bool

	ContentLines int
	Content      Span
}

// InlineAttrs carries the kind-specific data of an inline node.
type InlineAttrs struct {
	Text          []byte // NodeText, NodeCodeSpan
	Link          *LinkAttrs
	EmphasisLevel int  // 1 emphasis, 2 strong
	Checked       bool // NodeTaskMarker
}

// ReferenceStyle is the syntax a link or image was written in.
type ReferenceStyle uint8

// Reference styles.
const (
	RefStyleInline    ReferenceStyle = iota // [text](url)
	RefStyleFull                            // [text][label]
	RefStyleCollapsed                       // [label][]
	RefStyleShortcut                        // [label]
	RefStyleAutolink                        // <https://example.com>
)

var referenceStyleNames = [...]string{"inline", "full", "collapsed", "shortcut", "autolink"}

func (s ReferenceStyle) String() string {
	if int(s) < len(referenceStyleNames) {
		return referenceStyleNames[s]
	}
	return "unknown"
}

// LinkAttrs describes a NodeLink, NodeImage or NodeAutoLink.
type LinkAttrs struct {
	Destination    string
	Title          string
	ReferenceLabel string // empty for inline links and autolinks
	ReferenceStyle ReferenceStyle

	// URLSpan is the destination inside "(...)". It is only meaningful when
	// HasURLSpan is set.
	URLSpan    Span
	HasURLSpan bool
}

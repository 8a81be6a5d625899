package document

// Well-known node and mark tags emitted by the editor. Rule sets are free to
// handle tags outside this list.
const (
	TypeDoc            = "doc"
	TypeText           = "text"
	TypeParagraph      = "paragraph"
	TypeHeading        = "heading"
	TypeBlockquote     = "blockquote"
	TypeImage          = "image"
	TypeCodeBlock      = "codeBlock"
	TypeBulletList     = "bulletList"
	TypeOrderedList    = "orderedList"
	TypeTaskList       = "taskList"
	TypeListItem       = "listItem"
	TypeTaskItem       = "taskItem"
	TypeHorizontalRule = "horizontalRule"
	TypeHardBreak      = "hardBreak"

	MarkLink   = "link"
	MarkBold   = "bold"
	MarkCode   = "code"
	MarkItalic = "italic"
	MarkStrike = "strike"
)

// Node is an element of the document tree. A node whose Type is "text" is a
// text run: Text holds the literal content and Marks the ordered inline
// formatting. Every other node is a block or inline container whose children
// live in Content.
type Node struct {
	Type    string  `json:"type" msgpack:"type"`
	Attrs   Attrs   `json:"attrs,omitempty" msgpack:"attrs,omitempty"`
	Content []*Node `json:"content,omitempty" msgpack:"content,omitempty"`
	Text    string  `json:"text,omitempty" msgpack:"text,omitempty"`
	Marks   []Mark  `json:"marks,omitempty" msgpack:"marks,omitempty"`
}

// Mark is an inline formatting annotation applied to a text run.
type Mark struct {
	Type  string `json:"type" msgpack:"type"`
	Attrs Attrs  `json:"attrs,omitempty" msgpack:"attrs,omitempty"`
}

// IsText reports whether the node is a text run.
func (n *Node) IsText() bool {
	return n != nil && n.Type == TypeText
}

// HasContent reports whether the node carries any children.
func (n *Node) HasContent() bool {
	return n != nil && len(n.Content) > 0
}

// New builds a container node.
func New(nodeType string, attrs Attrs, children ...*Node) *Node {
	return &Node{
		Type:    nodeType,
		Attrs:   attrs,
		Content: children,
	}
}

// Text builds a text run with the marks applied in the given order.
func Text(text string, marks ...Mark) *Node {
	node := &Node{Type: TypeText, Text: text}
	if len(marks) > 0 {
		node.Marks = marks
	}
	return node
}

// NewMark builds a mark with optional attributes.
func NewMark(markType string, attrs Attrs) Mark {
	return Mark{Type: markType, Attrs: attrs}
}

// Doc wraps top-level blocks in a document root.
func Doc(blocks ...*Node) *Node {
	return New(TypeDoc, nil, blocks...)
}

// Paragraph builds a paragraph from inline children.
func Paragraph(children ...*Node) *Node {
	return New(TypeParagraph, nil, children...)
}

// Heading builds a heading of the given level.
func Heading(level int, children ...*Node) *Node {
	return New(TypeHeading, Attrs{"level": level}, children...)
}

// ListItem wraps block children in a list item.
func ListItem(children ...*Node) *Node {
	return New(TypeListItem, nil, children...)
}

// Package doctree defines the canonical, renderer-independent document tree
// produced by the converter and consumed by the serializers.
package doctree

// NodeType identifies a node variant in the canonical tree.
type NodeType string

// Block node types.
const (
	Root          NodeType = "root"
	Paragraph     NodeType = "paragraph"
	Heading       NodeType = "heading"
	Blockquote    NodeType = "blockquote"
	List          NodeType = "list"
	ListItem      NodeType = "listItem"
	CodeBlock     NodeType = "code"
	Table         NodeType = "table"
	TableRow      NodeType = "tableRow"
	TableCell     NodeType = "tableCell"
	ThematicBreak NodeType = "thematicBreak"
	ImageBlock    NodeType = "imageBlock"
	HTMLBlock     NodeType = "html"
	Embed         NodeType = "embed"
	MathBlock     NodeType = "mathBlock"
)

// Inline node types.
const (
	Text        NodeType = "text"
	Emphasis    NodeType = "emphasis"
	Strong      NodeType = "strong"
	Delete      NodeType = "delete"
	InlineCode  NodeType = "inlineCode"
	Link        NodeType = "link"
	ImageInline NodeType = "imageInline"
	MathInline  NodeType = "mathInline"
	HardBreak   NodeType = "break"
	HTMLInline  NodeType = "htmlInline"
)

// Alignment is a table column/cell alignment hint.
type Alignment string

const (
	AlignNone   Alignment = ""
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Node is a single node in the canonical tree. Which fields are meaningful
// depends on Type; unused fields stay at their zero value and are omitted
// from JSON output.
type Node struct {
	Type     NodeType `json:"type"`
	Children []*Node  `json:"children,omitempty"`

	// Text, inlineCode, code, math (formula source), html (raw markup),
	// embed (raw markup fallback).
	Value string `json:"value,omitempty"`

	// Heading.
	Depth int `json:"depth,omitempty"`

	// List.
	Ordered bool `json:"ordered,omitempty"`
	Start   int  `json:"start,omitempty"`

	// ListItem task state: nil for plain items, otherwise checked/unchecked.
	Checked *bool `json:"checked,omitempty"`

	// Code block.
	Lang string `json:"lang,omitempty"`

	// Link, embed.
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`

	// Image nodes.
	AssetID string `json:"assetId,omitempty"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`

	// Math nodes.
	Display bool   `json:"display,omitempty"`
	Engine  string `json:"engine,omitempty"`

	// Table.
	Align      []Alignment `json:"align,omitempty"`
	HasRowspan bool        `json:"hasRowspan,omitempty"`
	HasColspan bool        `json:"hasColspan,omitempty"`

	// Table cell.
	Header    bool      `json:"header,omitempty"`
	CellAlign Alignment `json:"cellAlign,omitempty"`
	RowSpan   int       `json:"rowSpan,omitempty"`
	ColSpan   int       `json:"colSpan,omitempty"`

	// Embed.
	EmbedType string `json:"embedType,omitempty"`
	Provider  string `json:"provider,omitempty"`
}

// IsInline reports whether the node belongs to the inline vocabulary.
func (n *Node) IsInline() bool {
	switch n.Type {
	case Text, Emphasis, Strong, Delete, InlineCode, Link, ImageInline,
		MathInline, HardBreak, HTMLInline:
		return true
	default:
		return false
	}
}

// IsBlock reports whether the node belongs to the block vocabulary.
func (n *Node) IsBlock() bool {
	return !n.IsInline()
}

// NewText returns a text node with the given verbatim content.
func NewText(value string) *Node {
	return &Node{Type: Text, Value: value}
}

// NewParagraph wraps the given inline children in a paragraph.
func NewParagraph(children ...*Node) *Node {
	return &Node{Type: Paragraph, Children: children}
}

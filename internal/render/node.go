package render

import "strings"

// Tag names the element a Node maps to
type Tag string

const (
	TagText       Tag = ""
	TagParagraph  Tag = "p"
	TagH1         Tag = "h1"
	TagH2         Tag = "h2"
	TagH3         Tag = "h3"
	TagBlockquote Tag = "blockquote"
	TagBulletList Tag = "ul"
	TagNumberList Tag = "ol"
	TagListItem   Tag = "li"
	TagStrong     Tag = "strong"
	TagEm         Tag = "em"
	TagUnderline  Tag = "u"
	TagStrike     Tag = "s"
	TagLink       Tag = "a"
	TagSpan       Tag = "span"
	TagBreak      Tag = "br"
)

// Attrs are the optional attributes of a Node
type Attrs struct {
	Href   string
	Target string
	Rel    string
	Class  string

	// LeadIn marks a paragraph the presentation layer should space as a section label
	LeadIn bool
	// Placeholder marks the node emitted when there is nothing to show
	Placeholder bool
}

// Node is one element of a rendered document tree.
// Text nodes carry Text and no children; every other tag carries children.
type Node struct {
	Tag      Tag
	Text     string
	Children []Node
	Attrs    Attrs
}

// Text returns a text leaf
func Text(s string) Node {
	return Node{Tag: TagText, Text: s}
}

// Element returns a node with the given children
func Element(tag Tag, children ...Node) Node {
	return Node{Tag: tag, Children: children}
}

// IsText reports whether the node is a text leaf
func (n Node) IsText() bool {
	return n.Tag == TagText
}

// IsBlock reports whether the node is a block-level element
func (n Node) IsBlock() bool {
	switch n.Tag {
	case TagParagraph, TagH1, TagH2, TagH3, TagBlockquote, TagBulletList, TagNumberList, TagListItem:
		return true
	}
	return false
}

// PlainText returns the concatenated text of the node and its descendants
func (n Node) PlainText() string {
	if n.IsText() {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.Children {
		if c.Tag == TagBreak {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(c.PlainText())
	}
	return sb.String()
}

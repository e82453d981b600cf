package content

import "strings"

// BlockType is the CMS `_type` of a body block
type BlockType string

const (
	// BlockTypeText is the only block type carrying rich text
	BlockTypeText BlockType = "block"
)

// Style is the paragraph-level style of a text block
type Style string

const (
	StyleNormal     Style = "normal"
	StyleH1         Style = "h1"
	StyleH2         Style = "h2"
	StyleH3         Style = "h3"
	StyleBlockquote Style = "blockquote"
)

// ListKind identifies the list a list-item block belongs to
type ListKind string

const (
	ListNone   ListKind = ""
	ListBullet ListKind = "bullet"
	ListNumber ListKind = "number"
)

// Block is one structural unit of rich text as authored in the CMS
type Block struct {
	Key      string    `json:"_key,omitempty" yaml:"_key,omitempty"`
	Type     BlockType `json:"_type,omitempty" yaml:"_type,omitempty"`
	Style    Style     `json:"style,omitempty" yaml:"style,omitempty"`
	ListItem ListKind  `json:"listItem,omitempty" yaml:"listItem,omitempty"`
	Level    int       `json:"level,omitempty" yaml:"level,omitempty"`
	Children []Span    `json:"children,omitempty" yaml:"children,omitempty"`
	MarkDefs []MarkDef `json:"markDefs,omitempty" yaml:"markDefs,omitempty"`
}

// Span is a run of text sharing the same marks
type Span struct {
	Text  string   `json:"text" yaml:"text"`
	Marks []string `json:"marks,omitempty" yaml:"marks,omitempty"`
}

// MarkDef is an annotation referenced by key from a span's marks
type MarkDef struct {
	Key  string `json:"_key" yaml:"_key"`
	Type string `json:"_type,omitempty" yaml:"_type,omitempty"`
	Href string `json:"href,omitempty" yaml:"href,omitempty"`
}

// IsText reports whether the block carries rich text.
// A missing type is treated as text; anything else (images, embeds) is not.
func (b Block) IsText() bool {
	return b.Type == "" || b.Type == BlockTypeText
}

// IsListItem reports whether the block is part of a list
func (b Block) IsListItem() bool {
	return b.ListItem != ListNone
}

// List returns the normalized list kind. Unknown list values are bullets.
func (b Block) List() ListKind {
	switch b.ListItem {
	case ListNone:
		return ListNone
	case ListNumber:
		return ListNumber
	default:
		return ListBullet
	}
}

// PlainText concatenates the text of every span
func (b Block) PlainText() string {
	var sb strings.Builder
	for _, s := range b.Children {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// IsEmpty reports whether the block has no visible text
func (b Block) IsEmpty() bool {
	return strings.TrimSpace(b.PlainText()) == ""
}

// MarkDef looks up an annotation by key
func (b Block) MarkDef(key string) (MarkDef, bool) {
	for _, d := range b.MarkDefs {
		if d.Key == key {
			return d, true
		}
	}
	return MarkDef{}, false
}

package render

import (
	"strings"

	"github.com/keystonebuyers/propsite/internal/content"
)

// DefaultLeadInPhrases are paragraph texts treated as section labels
var DefaultLeadInPhrases = []string{"Key Features:"}

// Options tunes presentation hints. The zero value renders with no lead-in phrases
// and no placeholder.
type Options struct {
	// LeadInPhrases are matched case-insensitively against a paragraph's full text
	LeadInPhrases []string
	// Placeholder, when set, is emitted as a single paragraph if nothing else renders
	Placeholder string
}

// DefaultOptions returns the options used by the public site
func DefaultOptions() Options {
	return Options{
		LeadInPhrases: DefaultLeadInPhrases,
	}
}

var styleMarks = map[string]Tag{
	"strong":         TagStrong,
	"bold":           TagStrong,
	"em":             TagEm,
	"italic":         TagEm,
	"underline":      TagUnderline,
	"strike-through": TagStrike,
	"strikethrough":  TagStrike,
}

// Renderer converts CMS blocks into Node trees.
// It holds no per-call state and may be shared between goroutines.
type Renderer struct {
	placeholder string
	phrases     map[string]bool
}

// New creates a renderer with the given options
func New(opts Options) *Renderer {
	phrases := make(map[string]bool, len(opts.LeadInPhrases))
	for _, p := range opts.LeadInPhrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			phrases[p] = true
		}
	}
	return &Renderer{
		placeholder: opts.Placeholder,
		phrases:     phrases,
	}
}

// Render converts blocks with the default options
func Render(blocks []content.Block) []Node {
	return New(DefaultOptions()).Render(blocks)
}

// Render converts blocks into block-level nodes in a single pass.
// Consecutive list items of the same kind are grouped into one list; any
// non-list block, empty or not, closes the open list.
func (r *Renderer) Render(blocks []content.Block) []Node {
	var out []Node
	var items []Node
	current := content.ListNone

	flush := func() {
		if len(items) > 0 {
			out = append(out, Node{Tag: listTag(current), Children: items})
		}
		items = nil
	}

	for _, b := range blocks {
		if !b.IsText() {
			continue
		}

		if b.IsListItem() {
			kind := b.List()
			if kind != current {
				flush()
				current = kind
			}
			if !b.IsEmpty() {
				items = append(items, Node{Tag: TagListItem, Children: r.inline(b)})
			}
			continue
		}

		flush()
		current = content.ListNone

		if b.IsEmpty() {
			continue
		}
		out = append(out, r.block(b))
	}
	flush()

	if len(out) == 0 && r.placeholder != "" {
		return []Node{{
			Tag:      TagParagraph,
			Children: []Node{Text(r.placeholder)},
			Attrs:    Attrs{Placeholder: true, Class: "empty"},
		}}
	}
	return out
}

func listTag(kind content.ListKind) Tag {
	if kind == content.ListNumber {
		return TagNumberList
	}
	return TagBulletList
}

// block renders a non-list block. Unknown styles are paragraphs.
func (r *Renderer) block(b content.Block) Node {
	children := r.inline(b)
	switch b.Style {
	case content.StyleH1:
		return Node{Tag: TagH1, Children: children}
	case content.StyleH2:
		return Node{Tag: TagH2, Children: children}
	case content.StyleH3:
		return Node{Tag: TagH3, Children: children}
	case content.StyleBlockquote:
		return Node{Tag: TagBlockquote, Children: children}
	}

	n := Node{Tag: TagParagraph, Children: children}
	if r.isLeadIn(b) {
		n.Attrs.LeadIn = true
		n.Attrs.Class = "lead-in"
	}
	return n
}

func (r *Renderer) isLeadIn(b content.Block) bool {
	text := strings.ToLower(strings.TrimSpace(b.PlainText()))
	if r.phrases[text] {
		return true
	}
	if len(b.Children) == 0 {
		return false
	}
	first := b.Children[0]
	return hasBold(first.Marks) && strings.HasSuffix(strings.TrimSpace(first.Text), ":")
}

func hasBold(marks []string) bool {
	for _, m := range marks {
		if styleMarks[m] == TagStrong {
			return true
		}
	}
	return false
}

// inline renders the spans of a block, applying marks in the order listed
func (r *Renderer) inline(b content.Block) []Node {
	var out []Node
	for _, span := range b.Children {
		if span.Text == "" {
			continue
		}
		nodes := textNodes(span.Text)
		for _, mark := range span.Marks {
			if tag, ok := styleMarks[mark]; ok {
				nodes = []Node{Element(tag, nodes...)}
				continue
			}
			def, ok := b.MarkDef(mark)
			if !ok || (def.Type != "" && def.Type != "link") {
				continue
			}
			href := strings.TrimSpace(def.Href)
			if !SafeHref(href) {
				continue
			}
			nodes = []Node{{
				Tag:      TagLink,
				Children: nodes,
				Attrs: Attrs{
					Href:   href,
					Target: "_blank",
					Rel:    "noopener noreferrer",
				},
			}}
		}
		out = append(out, nodes...)
	}
	return out
}

// textNodes splits soft line breaks into break nodes
func textNodes(s string) []Node {
	if !strings.Contains(s, "\n") {
		return []Node{Text(s)}
	}
	parts := strings.Split(s, "\n")
	out := make([]Node, 0, len(parts)*2-1)
	for i, p := range parts {
		if i > 0 {
			out = append(out, Node{Tag: TagBreak})
		}
		if p != "" {
			out = append(out, Text(p))
		}
	}
	return out
}

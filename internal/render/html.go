package render

import (
	"html"
	"strings"
)

// HTML serializes nodes as escaped HTML, one block element per line
func HTML(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		writeHTML(&sb, n)
		if n.IsBlock() {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// InlineHTML serializes nodes without block separators
func InlineHTML(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		writeHTML(&sb, n)
	}
	return sb.String()
}

func writeHTML(sb *strings.Builder, n Node) {
	switch n.Tag {
	case TagText:
		sb.WriteString(html.EscapeString(n.Text))
		return
	case TagBreak:
		sb.WriteString("<br>")
		return
	}

	sb.WriteString("<")
	sb.WriteString(string(n.Tag))
	writeAttr(sb, "href", n.Attrs.Href)
	writeAttr(sb, "target", n.Attrs.Target)
	writeAttr(sb, "rel", n.Attrs.Rel)
	writeAttr(sb, "class", n.Attrs.Class)
	sb.WriteString(">")

	for _, c := range n.Children {
		writeHTML(sb, c)
	}

	sb.WriteString("</")
	sb.WriteString(string(n.Tag))
	sb.WriteString(">")
}

func writeAttr(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	sb.WriteString(" ")
	sb.WriteString(name)
	sb.WriteString(`="`)
	sb.WriteString(html.EscapeString(value))
	sb.WriteString(`"`)
}

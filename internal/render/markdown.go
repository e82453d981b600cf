package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"`", "\\`",
	"<", `\<`,
	"&", `\&`,
)

var hrefEscaper = strings.NewReplacer(
	"(", `\(`,
	")", `\)`,
	" ", "%20",
)

// escapeLineStart keeps text at the start of a line from reading as block syntax
func escapeLineStart(s string) string {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return s
	}
	switch s[0] {
	case '#', '>', '-', '+', '=', '~', '|':
		return `\` + s
	}

	digits := 0
	for digits < len(s) && digits < 10 && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(s) && (s[digits] == '.' || s[digits] == ')') {
		return s[:digits] + `\` + s[digits:]
	}
	return s
}

// Markdown serializes nodes as CommonMark, blocks separated by a blank line
func Markdown(nodes []Node) string {
	var blocks []string
	for _, n := range nodes {
		if s := markdownBlock(n); s != "" {
			blocks = append(blocks, s)
		}
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

func markdownBlock(n Node) string {
	switch n.Tag {
	case TagH1:
		return "# " + markdownInline(n.Children, "")
	case TagH2:
		return "## " + markdownInline(n.Children, "")
	case TagH3:
		return "### " + markdownInline(n.Children, "")
	case TagBlockquote:
		return "> " + markdownInline(n.Children, "> ")
	case TagBulletList, TagNumberList:
		lines := make([]string, 0, len(n.Children))
		for i, item := range n.Children {
			marker := "- "
			if n.Tag == TagNumberList {
				marker = fmt.Sprintf("%d. ", i+1)
			}
			indent := strings.Repeat(" ", len(marker))
			lines = append(lines, marker+markdownInline(item.Children, indent))
		}
		return strings.Join(lines, "\n")
	case TagParagraph:
		if n.Attrs.Placeholder {
			return "_" + markdownInline(n.Children, "") + "_"
		}
		return markdownInline(n.Children, "")
	}
	return markdownInline([]Node{n}, "")
}

// markdownInline renders inline content; linePrefix continues hard breaks
func markdownInline(nodes []Node, linePrefix string) string {
	var sb strings.Builder
	lineStart := true
	for _, n := range nodes {
		if n.Tag == TagBreak {
			sb.WriteString("  \n")
			sb.WriteString(linePrefix)
			lineStart = true
			continue
		}
		switch n.Tag {
		case TagText:
			text := mdEscaper.Replace(n.Text)
			if lineStart {
				text = escapeLineStart(text)
			}
			if text == "" {
				continue
			}
			sb.WriteString(text)
		case TagStrong:
			sb.WriteString("**" + markdownInline(n.Children, linePrefix) + "**")
		case TagEm:
			sb.WriteString("_" + markdownInline(n.Children, linePrefix) + "_")
		case TagStrike:
			sb.WriteString("~~" + markdownInline(n.Children, linePrefix) + "~~")
		case TagLink:
			sb.WriteString("[" + markdownInline(n.Children, linePrefix) + "](" + hrefEscaper.Replace(n.Attrs.Href) + ")")
		default:
			// underline and span have no markdown form
			sb.WriteString(markdownInline(n.Children, linePrefix))
		}
		lineStart = false
	}
	return sb.String()
}

// Terminal renders nodes for a terminal through glamour.
// If glamour cannot render, the plain markdown is returned.
func Terminal(nodes []Node, width int) string {
	md := Markdown(nodes)
	if width <= 0 {
		width = 80
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}

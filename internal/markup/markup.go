// Package markup turns CMS-authored inline markup (raw HTML in title fields)
// into render nodes. Input is sanitized to a small allow-list first and never
// passed through to output as-is.
package markup

import (
	"regexp"
	"strings"

	"github.com/keystonebuyers/propsite/internal/render"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("strong", "b", "em", "i", "br", "span")
	p.AllowAttrs("class").
		Matching(regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)).
		OnElements("span")
	return p
}

var tags = map[string]render.Tag{
	"strong": render.TagStrong,
	"b":      render.TagStrong,
	"em":     render.TagEm,
	"i":      render.TagEm,
	"span":   render.TagSpan,
}

// Sanitize strips everything outside the allow-list, keeping text content
func Sanitize(raw string) string {
	return policy.Sanitize(raw)
}

type frame struct {
	tag      render.Tag
	class    string
	children []render.Node
}

// Parse sanitizes raw and returns it as inline nodes
func Parse(raw string) []render.Node {
	z := html.NewTokenizer(strings.NewReader(Sanitize(raw)))
	stack := []*frame{{}}

	top := func() *frame { return stack[len(stack)-1] }
	pop := func() {
		f := top()
		stack = stack[:len(stack)-1]
		n := render.Node{Tag: f.tag, Children: f.children, Attrs: render.Attrs{Class: f.class}}
		top().children = append(top().children, n)
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			for len(stack) > 1 {
				pop()
			}
			return stack[0].children

		case html.TextToken:
			text := string(z.Text())
			if text != "" {
				top().children = append(top().children, render.Text(text))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data == "br" {
				top().children = append(top().children, render.Node{Tag: render.TagBreak})
				continue
			}
			tag, ok := tags[tok.Data]
			if !ok || tt == html.SelfClosingTagToken {
				continue
			}
			f := &frame{tag: tag}
			for _, a := range tok.Attr {
				if a.Key == "class" {
					f.class = a.Val
				}
			}
			stack = append(stack, f)

		case html.EndTagToken:
			tok := z.Token()
			tag, ok := tags[tok.Data]
			if !ok {
				continue
			}
			// close up to the nearest matching element; stray end tags are ignored
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].tag == tag {
					for len(stack) > i {
						pop()
					}
					break
				}
			}
		}
	}
}

// HTML returns raw as safe inline HTML
func HTML(raw string) string {
	return render.InlineHTML(Parse(raw))
}

// Plain returns only the text content of raw
func Plain(raw string) string {
	var sb strings.Builder
	for _, n := range Parse(raw) {
		if n.Tag == render.TagBreak {
			sb.WriteString(" ")
			continue
		}
		sb.WriteString(n.PlainText())
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

package render

import (
	"strings"
	"testing"

	"github.com/keystonebuyers/propsite/internal/content"
)

func TestHTML(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []Node
		expected string
	}{
		{
			name: "paragraph and list",
			nodes: []Node{
				p(Text("Hello")),
				Element(TagBulletList, li(Text("A")), li(Text("B"))),
			},
			expected: "<p>Hello</p>\n<ul><li>A</li><li>B</li></ul>\n",
		},
		{
			name:     "escapes text",
			nodes:    []Node{p(Text(`<script>alert("x") & more</script>`))},
			expected: "<p>&lt;script&gt;alert(&#34;x&#34;) &amp; more&lt;/script&gt;</p>\n",
		},
		{
			name: "link attributes are escaped",
			nodes: []Node{p(Node{
				Tag:      TagLink,
				Children: []Node{Text("go")},
				Attrs:    Attrs{Href: `https://x.test/?a=1&b="2"`, Target: "_blank", Rel: "noopener noreferrer"},
			})},
			expected: `<p><a href="https://x.test/?a=1&amp;b=&#34;2&#34;" target="_blank" rel="noopener noreferrer">go</a></p>` + "\n",
		},
		{
			name:     "break",
			nodes:    []Node{p(Text("a"), Node{Tag: TagBreak}, Text("b"))},
			expected: "<p>a<br>b</p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := HTML(tt.nodes)
			if actual != tt.expected {
				t.Errorf("HTML() = %q, want %q", actual, tt.expected)
			}
		})
	}
}

func TestHTMLLeadInClass(t *testing.T) {
	out := HTML(Render([]content.Block{para("Key Features:")}))
	if !strings.Contains(out, `<p class="lead-in">`) {
		t.Errorf("expected lead-in class, got %q", out)
	}
}

func TestInlineHTML(t *testing.T) {
	out := InlineHTML([]Node{Text("Sell "), Element(TagEm, Text("fast"))})
	if out != "Sell <em>fast</em>" {
		t.Errorf("InlineHTML() = %q", out)
	}
}

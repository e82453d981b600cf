package render

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var linkPolicy = newLinkPolicy()

func newLinkPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	return p
}

// SafeHref reports whether href may be emitted as a link target.
// Only http, https, mailto and relative URLs pass.
func SafeHref(href string) bool {
	if href == "" {
		return false
	}
	out := linkPolicy.Sanitize(`<a href="` + html.EscapeString(href) + `">x</a>`)
	return strings.Contains(out, "href=")
}

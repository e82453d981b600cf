package content

import "time"

// Post is a blog post authored in the CMS.
// Title may contain raw inline markup and must go through the markup package.
type Post struct {
	ID          string     `json:"_id,omitempty" yaml:"_id,omitempty"`
	Slug        string     `json:"slug" yaml:"slug"`
	Title       string     `json:"title" yaml:"title"`
	Excerpt     string     `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" yaml:"publishedAt,omitempty"`
	Body        []Block    `json:"body,omitempty" yaml:"body,omitempty"`
}

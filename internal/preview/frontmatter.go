package preview

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// Page is a rendered markdown file with its front matter.
type Page struct {
	Title string
	Slug  string
	Meta  map[string]any
	HTML  []byte
}

type frontMatterEnvelope struct {
	Title  string         `yaml:"title"`
	Slug   string         `yaml:"slug"`
	Custom map[string]any `yaml:",inline"`
}

// ParseFrontMatter splits source into its YAML front matter and markdown
// body. Sources without front matter return an empty map and the full body.
func ParseFrontMatter(source []byte) (map[string]any, []byte, error) {
	var env frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return nil, nil, fmt.Errorf("preview: parse frontmatter: %w", err)
	}
	meta := make(map[string]any, len(env.Custom)+2)
	for key, value := range env.Custom {
		meta[key] = value
	}
	if env.Title != "" {
		meta["title"] = env.Title
	}
	if env.Slug != "" {
		meta["slug"] = env.Slug
	}
	return meta, body, nil
}

// Page renders a markdown file that may start with YAML front matter.
func (r *Renderer) Page(source []byte) (*Page, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}
	out, err := r.Markdown(body)
	if err != nil {
		return nil, err
	}
	page := &Page{Meta: meta, HTML: out}
	page.Title, _ = meta["title"].(string)
	page.Slug, _ = meta["slug"].(string)
	return page, nil
}

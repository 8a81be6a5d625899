package export

import (
	"strings"

	"github.com/goliatone/go-richdoc/internal/rules/gfm"
	"github.com/goliatone/go-richdoc/internal/rules/htmlrules"
	"github.com/goliatone/go-richdoc/internal/transformer"
)

// Built-in format names.
const (
	FormatGFM  = "gfm"
	FormatHTML = "html"
)

// Format binds a rule set to the metadata used when publishing its output.
type Format struct {
	Name        string
	Extension   string
	ContentType string
	Rules       transformer.RuleSet
	// PostProcess runs on the rendered output, e.g. HTML sanitizing.
	PostProcess func(string) string
	// FrontMatter reports whether a YAML header may precede the output.
	FrontMatter bool
}

// GFMFormat renders GitHub Flavored Markdown.
func GFMFormat() Format {
	return Format{
		Name:        FormatGFM,
		Extension:   "md",
		ContentType: "text/markdown; charset=utf-8",
		Rules:       gfm.New(),
		FrontMatter: true,
	}
}

// HTMLFormat renders sanitized HTML fragments.
func HTMLFormat() Format {
	return Format{
		Name:        FormatHTML,
		Extension:   "html",
		ContentType: "text/html; charset=utf-8",
		Rules:       htmlrules.New(),
		PostProcess: htmlrules.Sanitize,
	}
}

// DefaultFormats returns the built-in formats.
func DefaultFormats() []Format {
	return []Format{GFMFormat(), HTMLFormat()}
}

func normalizeFormat(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

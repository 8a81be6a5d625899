// Package htmlrules renders documents as HTML fragments. Literal text is
// escaped before marks are applied and the assembled fragment can be run
// through a bluemonday policy tuned to the tags this set emits.
package htmlrules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-richdoc/internal/document"
	"github.com/goliatone/go-richdoc/internal/rules"
)

// Name identifies the rule set.
const Name = "html"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML replaces the five HTML special characters with entities.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// New returns a fresh HTML rule set.
func New() *rules.Set {
	return rules.NewSet(Name,
		rules.WithText(EscapeHTML),

		rules.WithInline(document.MarkLink, link),
		rules.WithInline(document.MarkBold, element("strong")),
		rules.WithInline(document.MarkCode, element("code")),
		rules.WithInline(document.MarkItalic, element("em")),
		rules.WithInline(document.MarkStrike, element("s")),

		rules.WithBlock(document.TypeDoc, rules.Identity),
		rules.WithBlock(document.TypeParagraph, element("p")),
		rules.WithBlock(document.TypeHeading, heading),
		rules.WithBlock(document.TypeBlockquote, element("blockquote")),
		rules.WithBlock(document.TypeImage, image),
		rules.WithBlock(document.TypeCodeBlock, codeBlock),
		rules.WithBlock(document.TypeBulletList, list("ul")),
		rules.WithBlock(document.TypeOrderedList, orderedList),
		rules.WithBlock(document.TypeTaskList, taskList),
		rules.WithBlock(document.TypeListItem, element("li")),
		rules.WithBlock(document.TypeTaskItem, taskItem),
		rules.WithBlock(document.TypeHorizontalRule, void("hr")),
		rules.WithBlock(document.TypeHardBreak, void("br")),
	)
}

func element(tag string) func(document.Attrs, string) string {
	return func(_ document.Attrs, content string) string {
		return "<" + tag + ">" + content + "</" + tag + ">"
	}
}

func void(tag string) func(document.Attrs, string) string {
	return func(document.Attrs, string) string {
		return "<" + tag + ">"
	}
}

func attr(name, value string) string {
	return " " + name + `="` + EscapeHTML(value) + `"`
}

func link(attrs document.Attrs, content string) string {
	return "<a" + attr("href", attrs.String("href", "")) + ">" + content + "</a>"
}

func heading(attrs document.Attrs, content string) string {
	level := attrs.Int("level", 1)
	switch {
	case level < 1:
		level = 1
	case level > 6:
		level = 6
	}
	tag := "h" + strconv.Itoa(level)
	return "<" + tag + ">" + content + "</" + tag + ">"
}

func image(attrs document.Attrs, _ string) string {
	return "<img" + attr("src", attrs.String("src", "")) + attr("alt", attrs.String("alt", "")) + ">"
}

func codeBlock(attrs document.Attrs, content string) string {
	lang := attrs.String("lang", attrs.String("language", ""))
	open := "<code>"
	if lang != "" {
		open = "<code" + attr("class", "language-"+lang) + ">"
	}
	return "<pre>" + open + content + "</code></pre>"
}

func list(tag string) func(document.Attrs, string) string {
	return func(_ document.Attrs, content string) string {
		return "<" + tag + ">\n" + content + "\n</" + tag + ">"
	}
}

func orderedList(attrs document.Attrs, content string) string {
	start := attrs.Int("start", 1)
	if start == 1 {
		return list("ol")(attrs, content)
	}
	return "<ol" + attr("start", strconv.Itoa(start)) + ">\n" + content + "\n</ol>"
}

func taskList(_ document.Attrs, content string) string {
	return `<ul data-type="taskList">` + "\n" + content + "\n</ul>"
}

func taskItem(attrs document.Attrs, content string) string {
	checked := strconv.FormatBool(attrs.Bool("checked", false))
	return `<li data-type="taskItem"` + attr("data-checked", checked) + ">" + content + "</li>"
}

var (
	languageClass = regexp.MustCompile(`^language-[a-zA-Z0-9_+-]+$`)
	digits        = regexp.MustCompile(`^\d+$`)
)

// Policy returns the sanitizer policy for fragments produced by this set:
// bluemonday's UGC baseline plus the task list and numbering attributes.
func Policy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(languageClass).OnElements("code")
	policy.AllowAttrs("start").Matching(digits).OnElements("ol")
	policy.AllowAttrs("data-type").Matching(regexp.MustCompile("^taskList$")).OnElements("ul")
	policy.AllowAttrs("data-type").Matching(regexp.MustCompile("^taskItem$")).OnElements("li")
	policy.AllowAttrs("data-checked").Matching(regexp.MustCompile("^(true|false)$")).OnElements("li")
	return policy
}

var defaultPolicy = Policy()

// Sanitize strips anything outside Policy from fragment.
func Sanitize(fragment string) string {
	return defaultPolicy.Sanitize(fragment)
}

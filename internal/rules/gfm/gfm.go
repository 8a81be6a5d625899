// Package gfm is the GitHub-Flavored Markdown rule set.
package gfm

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-richdoc/internal/document"
	"github.com/goliatone/go-richdoc/internal/rules"
)

// Name identifies the rule set.
const Name = "gfm"

// ListItemPattern matches a line that is already a rendered list item: a
// dash or one-or-more digits followed by a dot, then whitespace. It is
// applied to the line after trimming surrounding whitespace. Lines produced
// by a nested list match it and are re-indented by the parent list instead
// of being prefixed again.
//
// Literal paragraph text that happens to start with "- " or "1. " inside a
// list item matches too and is indented rather than numbered.
var ListItemPattern = regexp.MustCompile(`^(?:-|(?:\d+\.))\s`)

const nestedIndent = "  "

// MaxHeadingLevel caps the number of leading hashes a heading renders with.
const MaxHeadingLevel = 6

// New returns a fresh GFM rule set. Callers may register additional
// handlers on the returned set.
func New() *rules.Set {
	return rules.NewSet(Name,
		rules.WithInline(document.MarkLink, link),
		rules.WithInline(document.MarkBold, wrap("**")),
		rules.WithInline(document.MarkCode, wrap("`")),
		rules.WithInline(document.MarkItalic, wrap("*")),
		rules.WithInline(document.MarkStrike, wrap("~~")),

		rules.WithBlock(document.TypeDoc, rules.Identity),
		rules.WithBlock(document.TypeListItem, rules.Identity),
		rules.WithBlock(document.TypeTaskItem, rules.Identity),
		rules.WithBlock(document.TypeParagraph, paragraph),
		rules.WithBlock(document.TypeHeading, heading),
		rules.WithBlock(document.TypeBlockquote, blockquote),
		rules.WithBlock(document.TypeImage, image),
		rules.WithBlock(document.TypeCodeBlock, codeBlock),
		rules.WithBlock(document.TypeBulletList, bulletList),
		rules.WithBlock(document.TypeOrderedList, orderedList),
		rules.WithBlock(document.TypeTaskList, taskList),
		rules.WithBlock(document.TypeHorizontalRule, horizontalRule),
		rules.WithBlock(document.TypeHardBreak, hardBreak),
	)
}

func wrap(delimiter string) rules.InlineFunc {
	return func(_ document.Attrs, content string) string {
		return delimiter + content + delimiter
	}
}

func link(attrs document.Attrs, content string) string {
	return "[" + content + "](" + attrs.String("href", "") + ")"
}

func block(body string) string {
	return "\n" + body + "\n"
}

func paragraph(_ document.Attrs, content string) string {
	return block(content)
}

func heading(attrs document.Attrs, content string) string {
	level := attrs.Int("level", 1)
	switch {
	case level < 1:
		level = 1
	case level > MaxHeadingLevel:
		level = MaxHeadingLevel
	}
	return block(strings.Repeat("#", level) + " " + content)
}

func blockquote(_ document.Attrs, content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return block(strings.Join(lines, "\n"))
}

func image(attrs document.Attrs, _ string) string {
	return block("![" + attrs.String("alt", "") + "](" + attrs.String("src", "") + ")")
}

func codeBlock(attrs document.Attrs, content string) string {
	lang := attrs.String("lang", attrs.String("language", ""))
	return block("```" + lang + "\n" + content + "\n```")
}

func horizontalRule(document.Attrs, string) string {
	return block("---")
}

func hardBreak(document.Attrs, string) string {
	return "\n"
}

func bulletList(_ document.Attrs, content string) string {
	lines := listLines(content)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if isListItem(line) {
			out = append(out, nestedIndent+line)
			continue
		}
		out = append(out, "- "+strings.TrimSpace(line))
	}
	return block(strings.Join(out, "\n"))
}

// orderedList numbers only lines that are not already list items, so nested
// continuation lines never consume a number of the parent list.
func orderedList(attrs document.Attrs, content string) string {
	lines := listLines(content)
	out := make([]string, 0, len(lines))
	next := attrs.Int("start", 1)
	for _, line := range lines {
		if isListItem(line) {
			out = append(out, nestedIndent+line)
			continue
		}
		out = append(out, strconv.Itoa(next)+". "+strings.TrimSpace(line))
		next++
	}
	return block(strings.Join(out, "\n"))
}

// taskList terminates every item line and separates items with a blank line.
func taskList(attrs document.Attrs, content string) string {
	marker := "- [ ] "
	if attrs.Bool("checked", false) {
		marker = "- [x] "
	}
	lines := nonEmpty(strings.Split(content, "\n"))
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		items = append(items, marker+line+"\n")
	}
	return block(strings.Join(items, "\n"))
}

func listLines(content string) []string {
	return nonEmpty(strings.Split(strings.TrimSpace(content), "\n"))
}

func nonEmpty(lines []string) []string {
	out := lines[:0]
	for _, line := range lines {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func isListItem(line string) bool {
	return ListItemPattern.MatchString(strings.TrimSpace(line))
}

package export

import (
	"fmt"
	"strings"

	"github.com/tsawler/rtftext/model"
)

// MarkdownOptions configures Markdown.
type MarkdownOptions struct {
	NoteOptions
	JoinLines bool
	// Images adds an image reference per picture, named picture-N.<ext>.
	Images bool
}

// Markdown renders the document as Markdown. Headings use ATX syntax,
// tables the pipe syntax and footnotes the [^N] definition syntax.
func Markdown(doc *model.Document, opts MarkdownOptions) string {
	var sb strings.Builder
	block := func(s string) {
		if s == "" {
			return
		}
		sb.WriteString(s)
		sb.WriteString("\n\n")
	}

	for _, n := range opts.headers(doc) {
		block(n.GetText())
	}
	pictures := 0
	for _, elem := range doc.Elements {
		switch e := elem.(type) {
		case *model.Heading:
			level := min(max(e.Level, 1), 6)
			block(strings.Repeat("#", level) + " " + joinLines(strings.TrimSpace(e.GetText())))
		case *model.Paragraph:
			block(markdownParagraph(e.GetText(), opts.JoinLines))
		case *model.Table:
			block(strings.TrimRight(e.ToMarkdown(), "\n"))
		case *model.Image:
			pictures++
			if opts.Images {
				block(fmt.Sprintf("![%s](picture-%d.%s)", e.AltText, pictures, e.Format))
			}
		}
	}
	for i, n := range opts.footnotes(doc) {
		block(fmt.Sprintf("[^%d]: %s", i+1, joinLines(n.GetText())))
	}
	for _, n := range opts.footers(doc) {
		block(n.GetText())
	}
	return strings.TrimSpace(sb.String())
}

// markdownParagraph keeps line breaks as hard breaks unless lines are
// joined.
func markdownParagraph(text string, join bool) string {
	text = strings.TrimSpace(text)
	if join {
		return joinLines(text)
	}
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.Join(lines, "  \n")
}

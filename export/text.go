package export

import (
	"strings"

	"github.com/tsawler/rtftext/model"
)

// TextOptions configures Text.
type TextOptions struct {
	NoteOptions
	JoinLines bool // join lines within paragraphs with spaces
}

// Text renders the document as plain text, one paragraph per line. Table
// rows become lines with tab-separated cells.
func Text(doc *model.Document, opts TextOptions) string {
	var blocks []string
	for _, n := range opts.headers(doc) {
		blocks = append(blocks, n.GetText())
	}
	for _, elem := range doc.Elements {
		switch e := elem.(type) {
		case *model.Table:
			blocks = append(blocks, strings.TrimRight(tableText(e), "\n"))
		case model.TextElement:
			text := strings.TrimRight(e.GetText(), "\n")
			if opts.JoinLines {
				text = joinLines(text)
			}
			blocks = append(blocks, text)
		}
	}
	for _, n := range opts.footnotes(doc) {
		blocks = append(blocks, n.GetText())
	}
	for _, n := range opts.footers(doc) {
		blocks = append(blocks, n.GetText())
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n") + "\n"
}

func tableText(t *model.Table) string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			if j > 0 {
				sb.WriteString("\t")
			}
			// Replace newlines within cells with spaces
			sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

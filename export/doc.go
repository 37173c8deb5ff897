// Package export renders a [model.Document] as plain text, Markdown, HTML
// or TEI XML.
//
// All renderers share [NoteOptions] to decide which headers, footers and
// footnotes appear in the output. Headers are written before the body,
// footnotes and footers after it.
package export

import (
	"strings"

	"github.com/tsawler/rtftext/model"
)

// NoteOptions selects the notes that are rendered.
type NoteOptions struct {
	ExcludeHeaders   bool
	ExcludeFooters   bool
	ExcludeFootnotes bool
}

func (o NoteOptions) headers(doc *model.Document) []*model.Note {
	if o.ExcludeHeaders {
		return nil
	}
	return nonBlank(doc.NotesOf(model.NoteHeader))
}

func (o NoteOptions) footers(doc *model.Document) []*model.Note {
	if o.ExcludeFooters {
		return nil
	}
	return nonBlank(doc.NotesOf(model.NoteFooter))
}

func (o NoteOptions) footnotes(doc *model.Document) []*model.Note {
	if o.ExcludeFootnotes {
		return nil
	}
	return nonBlank(doc.NotesOf(model.NoteFootnote))
}

func nonBlank(notes []*model.Note) []*model.Note {
	out := notes[:0:0]
	for _, n := range notes {
		if n.GetText() != "" {
			out = append(out, n)
		}
	}
	return out
}

// joinLines replaces the line breaks inside a paragraph with single spaces.
func joinLines(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}

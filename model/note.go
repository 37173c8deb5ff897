package model

import "strings"

// NoteKind tells where a note lives in the printed document
type NoteKind int

const (
	NoteFootnote NoteKind = iota
	NoteHeader
	NoteFooter
)

func (k NoteKind) String() string {
	switch k {
	case NoteHeader:
		return "header"
	case NoteFooter:
		return "footer"
	default:
		return "footnote"
	}
}

// Note represents a header, footer or footnote. Anchor is the byte offset
// in the body where the note was attached.
type Note struct {
	Kind   NoteKind
	Runs   []Run
	Anchor int
	Span   Span
}

func (n *Note) GetText() string {
	return strings.TrimSpace(runText(n.Runs))
}

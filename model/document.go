package model

import (
	"strings"
	"time"
)

// Document represents a complete RTF document with extracted structure
type Document struct {
	Metadata Metadata
	Elements []Element
	Notes    []*Note
	Colors   []Color
}

// Metadata contains document-level information from the \info group
type Metadata struct {
	Title        string
	Author       string
	Subject      string
	Keywords     []string
	Creator      string // \operator, the last person to edit
	Producer     string // \*\generator
	CreationDate time.Time
	ModDate      time.Time
	PageCount    int
	WordCount    int
	// Custom metadata
	Custom map[string]string
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Metadata: Metadata{
			Custom: make(map[string]string),
		},
		Elements: make([]Element, 0),
	}
}

// Add appends a body element
func (d *Document) Add(elem Element) {
	d.Elements = append(d.Elements, elem)
}

// AddNote appends a note lifted out of the body
func (d *Document) AddNote(note *Note) {
	d.Notes = append(d.Notes, note)
}

// NotesOf returns the notes of one kind in source order
func (d *Document) NotesOf(kind NoteKind) []*Note {
	var notes []*Note
	for _, n := range d.Notes {
		if n.Kind == kind {
			notes = append(notes, n)
		}
	}
	return notes
}

// ExtractText returns the text of all body elements, one block per line
func (d *Document) ExtractText() string {
	var sb strings.Builder
	for _, elem := range d.Elements {
		if te, ok := elem.(TextElement); ok {
			sb.WriteString(te.GetText())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ExtractTables returns all tables of the body
func (d *Document) ExtractTables() []*Table {
	var tables []*Table
	for _, elem := range d.Elements {
		if t, ok := elem.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// Images returns all pictures of the body
func (d *Document) Images() []*Image {
	var images []*Image
	for _, elem := range d.Elements {
		if img, ok := elem.(*Image); ok {
			images = append(images, img)
		}
	}
	return images
}

// Headings returns all headings of the body
func (d *Document) Headings() []*Heading {
	var headings []*Heading
	for _, elem := range d.Elements {
		if h, ok := elem.(*Heading); ok {
			headings = append(headings, h)
		}
	}
	return headings
}

// Runs returns the runs of all paragraphs and headings in order
func (d *Document) Runs() []Run {
	var runs []Run
	for _, elem := range d.Elements {
		switch e := elem.(type) {
		case *Paragraph:
			runs = append(runs, e.Runs...)
		case *Heading:
			runs = append(runs, e.Runs...)
		}
	}
	return runs
}

// TableOfContents returns headings organized as a document outline
func (d *Document) TableOfContents() []TOCEntry {
	var toc []TOCEntry
	for _, h := range d.Headings() {
		entry := TOCEntry{
			Level:  h.Level,
			Text:   strings.TrimSpace(h.GetText()),
			Offset: h.Span.Start,
		}
		if len(h.Runs) > 0 {
			entry.FontSize = h.Runs[0].SizePt
		}
		toc = append(toc, entry)
	}
	return toc
}

// TOCEntry represents an entry in the table of contents
type TOCEntry struct {
	Level    int    // Heading level (1-6)
	Text     string // Heading text
	Offset   int    // Byte offset of the heading in the source
	FontSize int    // Font size of heading in points
}

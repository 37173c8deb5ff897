package rtftext

import (
	"sort"
	"unicode/utf8"

	"github.com/tsawler/rtftext/model"
	"github.com/tsawler/rtftext/rtf"
	"github.com/tsawler/rtftext/rtfdoc"
	"github.com/tsawler/rtftext/sizeclass"
)

// FontUsage counts the body text set in one font.
type FontUsage struct {
	ID    int
	Name  string // empty for fonts missing from the font table
	Runs  int
	Chars int
	Sizes []int // point sizes in use, ascending
}

// Summary describes the structure of a document.
type Summary struct {
	Variant rtf.Variant
	Events  int

	Paragraphs int
	Headings   int
	Tables     int
	Images     int
	Headers    int
	Footers    int
	Footnotes  int

	// Fonts is ordered by character count, most used first.
	Fonts          []FontUsage
	Classification sizeclass.Classification
	Stats          rtf.Stats
	Conversion     rtfdoc.ConversionStats
}

// Analyze summarises the fonts, sizes and structure of the document.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	sum, _, err := rtftext.Open("document.rtf").Analyze()
//	for _, f := range sum.Fonts {
//	    fmt.Printf("%s: %d characters\n", f.Name, f.Chars)
//	}
func (e *Extractor) Analyze() (*Summary, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	return e.summary(), e.warnings, nil
}

// summary needs an open reader.
func (e *Extractor) summary() *Summary {
	parsed := e.reader.Parsed()
	doc, _ := e.reader.Document()
	sum := &Summary{
		Variant:        parsed.Variant,
		Events:         len(parsed.Events),
		Fonts:          fontUsage(parsed.Events),
		Classification: e.reader.Classification(),
		Stats:          parsed.Stats,
		Conversion:     e.reader.ConversionStats(),
	}
	for _, elem := range doc.Elements {
		switch elem.Type() {
		case model.ElementTypeParagraph:
			sum.Paragraphs++
		case model.ElementTypeHeading:
			sum.Headings++
		case model.ElementTypeTable:
			sum.Tables++
		case model.ElementTypeImage:
			sum.Images++
		}
	}
	sum.Headers = len(doc.NotesOf(model.NoteHeader))
	sum.Footers = len(doc.NotesOf(model.NoteFooter))
	sum.Footnotes = len(doc.NotesOf(model.NoteFootnote))
	return sum
}

func fontUsage(events []rtf.Event) []FontUsage {
	byID := make(map[int]*FontUsage)
	sizes := make(map[int]map[int]bool)
	var order []int
	for _, ev := range events {
		if ev.Kind != rtf.TextRun {
			continue
		}
		u, ok := byID[ev.FontID]
		if !ok {
			u = &FontUsage{ID: ev.FontID, Name: ev.FontName}
			byID[ev.FontID] = u
			sizes[ev.FontID] = make(map[int]bool)
			order = append(order, ev.FontID)
		}
		u.Runs++
		u.Chars += utf8.RuneCountInString(ev.Text)
		sizes[ev.FontID][ev.SizePt] = true
	}
	usage := make([]FontUsage, 0, len(order))
	for _, id := range order {
		u := byID[id]
		for size := range sizes[id] {
			u.Sizes = append(u.Sizes, size)
		}
		sort.Ints(u.Sizes)
		usage = append(usage, *u)
	}
	sort.SliceStable(usage, func(i, j int) bool { return usage[i].Chars > usage[j].Chars })
	return usage
}

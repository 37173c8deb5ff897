package rtf

import "fmt"

// EventKind identifies the variant of an Event.
type EventKind int

const (
	// TextRun is a maximal span of body text sharing one font/size attribution.
	TextRun EventKind = iota
	// ParagraphBreak is emitted for \par.
	ParagraphBreak
	// LineBreak is emitted for \line.
	LineBreak
	// CellBreak is emitted for \cell.
	CellBreak
	// RowBreak is emitted for \row.
	RowBreak
	// SpecialBlock carries a footnote, header, footer or picture destination.
	SpecialBlock
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case TextRun:
		return "TextRun"
	case ParagraphBreak:
		return "ParagraphBreak"
	case LineBreak:
		return "LineBreak"
	case CellBreak:
		return "CellBreak"
	case RowBreak:
		return "RowBreak"
	case SpecialBlock:
		return "SpecialBlock"
	default:
		return "Unknown"
	}
}

// SpecialKind classifies a SpecialBlock event.
type SpecialKind int

const (
	// Footnote is a \footnote destination.
	Footnote SpecialKind = iota
	// Header is a \header, \headerl, \headerr or \headerf destination.
	Header
	// Footer is a \footer, \footerl, \footerr or \footerf destination.
	Footer
	// Picture is a \pict destination.
	Picture
)

// String returns the string representation of the special block kind.
func (k SpecialKind) String() string {
	switch k {
	case Footnote:
		return "Footnote"
	case Header:
		return "Header"
	case Footer:
		return "Footer"
	case Picture:
		return "Picture"
	default:
		return "Unknown"
	}
}

// Event is one element of the parser output.
//
// Start and End are byte offsets into the raw document, not into decoded
// text. Start <= End always holds and events are produced in non-decreasing
// End order.
type Event struct {
	Kind EventKind

	// Text is the decoded run text for TextRun and the raw inner RTF of the
	// destination for SpecialBlock.
	Text string

	// Attribution, set for TextRun and SpecialBlock.
	FontID   int
	FontName string
	SizePt   int

	// Special is only meaningful when Kind == SpecialBlock.
	Special SpecialKind

	// Picture holds the parsed picture data of a Picture special block.
	Picture *PictureData

	Start int
	End   int
}

// IsBreak returns true for the four structural break kinds.
func (e Event) IsBreak() bool {
	switch e.Kind {
	case ParagraphBreak, LineBreak, CellBreak, RowBreak:
		return true
	}
	return false
}

func (e Event) String() string {
	switch e.Kind {
	case TextRun:
		return fmt.Sprintf("TextRun(%q, font=%q, size=%d) [%d,%d)", e.Text, e.FontName, e.SizePt, e.Start, e.End)
	case SpecialBlock:
		return fmt.Sprintf("SpecialBlock(%s, font=%q, size=%d) [%d,%d)", e.Special, e.FontName, e.SizePt, e.Start, e.End)
	default:
		return fmt.Sprintf("%s [%d,%d)", e.Kind, e.Start, e.End)
	}
}

package model

import "strings"

// ElementType represents the type of body element
type ElementType int

const (
	ElementTypeUnknown ElementType = iota
	ElementTypeParagraph
	ElementTypeHeading
	ElementTypeTable
	ElementTypeImage
)

func (et ElementType) String() string {
	switch et {
	case ElementTypeParagraph:
		return "Paragraph"
	case ElementTypeHeading:
		return "Heading"
	case ElementTypeTable:
		return "Table"
	case ElementTypeImage:
		return "Image"
	default:
		return "Unknown"
	}
}

// Element is the interface for all body elements
type Element interface {
	Type() ElementType
	SourceSpan() Span
}

// TextElement is an interface for elements containing text
type TextElement interface {
	Element
	GetText() string
}

// Role is the typographic role of a font size relative to the body size
// of the document.
type Role int

const (
	RoleRegular Role = iota
	RoleSmall
	RoleLarge
)

func (r Role) String() string {
	switch r {
	case RoleSmall:
		return "small"
	case RoleLarge:
		return "large"
	default:
		return "regular"
	}
}

// Run is a stretch of text with uniform font attribution
type Run struct {
	Text     string
	FontID   int
	FontName string
	SizePt   int
	Role     Role
	Span     Span
}

// Paragraph represents a paragraph of text. Line breaks inside the
// paragraph appear as "\n" in the run text.
type Paragraph struct {
	Runs []Run
	Span Span
}

func (p *Paragraph) Type() ElementType { return ElementTypeParagraph }
func (p *Paragraph) SourceSpan() Span  { return p.Span }
func (p *Paragraph) GetText() string   { return runText(p.Runs) }

// IsBlank returns true if the paragraph has no visible text
func (p *Paragraph) IsBlank() bool {
	return strings.TrimSpace(p.GetText()) == ""
}

// Heading represents a heading
type Heading struct {
	Runs  []Run
	Level int // 1-6
	Span  Span
}

func (h *Heading) Type() ElementType { return ElementTypeHeading }
func (h *Heading) SourceSpan() Span  { return h.Span }
func (h *Heading) GetText() string   { return runText(h.Runs) }

// Image represents an embedded picture
type Image struct {
	Data   []byte
	Format ImageFormat
	Width  int // pixels, 0 if unknown
	Height int
	Span   Span
	// Alt text if available, e.g. from OCR
	AltText string
}

func (i *Image) Type() ElementType { return ElementTypeImage }
func (i *Image) SourceSpan() Span  { return i.Span }

// ImageFormat represents image format
type ImageFormat int

const (
	ImageFormatUnknown ImageFormat = iota
	ImageFormatJPEG
	ImageFormatPNG
	ImageFormatBMP
	ImageFormatEMF
	ImageFormatWMF
	ImageFormatPICT
)

func (f ImageFormat) String() string {
	switch f {
	case ImageFormatJPEG:
		return "jpeg"
	case ImageFormatPNG:
		return "png"
	case ImageFormatBMP:
		return "bmp"
	case ImageFormatEMF:
		return "emf"
	case ImageFormatWMF:
		return "wmf"
	case ImageFormatPICT:
		return "pict"
	default:
		return "unknown"
	}
}

// Color represents an RGB color
type Color struct {
	R, G, B uint8
}

func runText(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

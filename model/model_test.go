package model

import (
	"strings"
	"testing"
)

// ============================================================================
// Span Tests
// ============================================================================

func TestNewSpan(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		want       Span
	}{
		{"normal", 3, 10, Span{3, 10}},
		{"reversed", 10, 3, Span{3, 10}},
		{"empty", 5, 5, Span{5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewSpan(tt.start, tt.end); got != tt.want {
				t.Errorf("NewSpan() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSpanLen(t *testing.T) {
	if got := (Span{2, 7}).Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
	if got := (Span{7, 2}).Len(); got != 0 {
		t.Errorf("Len() of inverted span = %d, want 0", got)
	}
	if !(Span{4, 4}).IsEmpty() {
		t.Error("zero-length span should be empty")
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{10, 20}
	tests := []struct {
		offset int
		want   bool
	}{
		{9, false},
		{10, true},
		{19, true},
		{20, false},
	}

	for _, tt := range tests {
		if got := s.Contains(tt.offset); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestSpanIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"overlapping", Span{0, 10}, Span{5, 15}, true},
		{"adjacent", Span{0, 10}, Span{10, 20}, false},
		{"contained", Span{0, 10}, Span{2, 3}, true},
		{"disjoint", Span{0, 2}, Span{5, 6}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanUnion(t *testing.T) {
	got := Span{5, 10}.Union(Span{2, 7})
	if got != (Span{2, 10}) {
		t.Errorf("Union() = %+v, want {2 10}", got)
	}
	if got := (Span{}).Union(Span{4, 8}); got != (Span{4, 8}) {
		t.Errorf("Union() with empty span = %+v, want {4 8}", got)
	}
}

// ============================================================================
// Document Tests
// ============================================================================

func para(texts ...string) *Paragraph {
	p := &Paragraph{}
	for _, text := range texts {
		p.Runs = append(p.Runs, Run{Text: text, SizePt: 12})
	}
	return p
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument()

	if doc.Metadata.Custom == nil {
		t.Error("NewDocument() should initialize Custom metadata map")
	}
	if doc.Elements == nil {
		t.Error("NewDocument() should initialize Elements slice")
	}
	if len(doc.Elements) != 0 {
		t.Errorf("new document has %d elements, want 0", len(doc.Elements))
	}
}

func TestDocumentExtractText(t *testing.T) {
	doc := NewDocument()
	doc.Add(&Heading{Runs: []Run{{Text: "Title"}}, Level: 1})
	doc.Add(para("Hello ", "World"))
	doc.Add(&Image{Format: ImageFormatPNG})

	want := "Title\nHello World\n"
	if got := doc.ExtractText(); got != want {
		t.Errorf("ExtractText() = %q, want %q", got, want)
	}
}

func TestDocumentExtractTables(t *testing.T) {
	doc := NewDocument()
	doc.Add(para("before"))
	doc.Add(table([]string{"a", "b"}))
	doc.Add(table([]string{"a", "b", "c"}))

	tables := doc.ExtractTables()
	if len(tables) != 2 {
		t.Fatalf("ExtractTables() returned %d tables, want 2", len(tables))
	}
	if tables[1].ColCount() != 3 {
		t.Errorf("second table ColCount() = %d, want 3", tables[1].ColCount())
	}
}

func TestDocumentImagesAndHeadings(t *testing.T) {
	doc := NewDocument()
	doc.Add(&Heading{Runs: []Run{{Text: "H"}}, Level: 2})
	doc.Add(&Image{Format: ImageFormatJPEG, Width: 4})
	doc.Add(para("p"))

	if n := len(doc.Images()); n != 1 {
		t.Errorf("Images() returned %d, want 1", n)
	}
	headings := doc.Headings()
	if len(headings) != 1 || headings[0].Level != 2 {
		t.Errorf("Headings() = %+v, want one level-2 heading", headings)
	}
}

func TestDocumentRuns(t *testing.T) {
	doc := NewDocument()
	doc.Add(&Heading{Runs: []Run{{Text: "a"}}, Level: 1})
	doc.Add(table([]string{"x"}))
	doc.Add(para("b", "c"))

	var texts []string
	for _, r := range doc.Runs() {
		texts = append(texts, r.Text)
	}
	if strings.Join(texts, ",") != "a,b,c" {
		t.Errorf("Runs() texts = %v, want [a b c]", texts)
	}
}

func TestDocumentNotes(t *testing.T) {
	doc := NewDocument()
	doc.AddNote(&Note{Kind: NoteHeader, Runs: []Run{{Text: " Page head "}}})
	doc.AddNote(&Note{Kind: NoteFootnote, Runs: []Run{{Text: "first"}}, Anchor: 12})
	doc.AddNote(&Note{Kind: NoteFootnote, Runs: []Run{{Text: "second"}}, Anchor: 40})

	footnotes := doc.NotesOf(NoteFootnote)
	if len(footnotes) != 2 {
		t.Fatalf("NotesOf(footnote) returned %d, want 2", len(footnotes))
	}
	if footnotes[1].Anchor != 40 {
		t.Errorf("second footnote Anchor = %d, want 40", footnotes[1].Anchor)
	}
	headers := doc.NotesOf(NoteHeader)
	if len(headers) != 1 || headers[0].GetText() != "Page head" {
		t.Errorf("header text = %q, want %q", headers[0].GetText(), "Page head")
	}
	if len(doc.NotesOf(NoteFooter)) != 0 {
		t.Error("NotesOf(footer) should be empty")
	}
}

func TestDocumentTableOfContents(t *testing.T) {
	doc := NewDocument()
	doc.Add(&Heading{Runs: []Run{{Text: " Chapter One ", SizePt: 18}}, Level: 1, Span: Span{5, 30}})
	doc.Add(para("body"))
	doc.Add(&Heading{Runs: []Run{{Text: "Section", SizePt: 14}}, Level: 2, Span: Span{60, 80}})

	toc := doc.TableOfContents()
	if len(toc) != 2 {
		t.Fatalf("TableOfContents() returned %d entries, want 2", len(toc))
	}
	want := TOCEntry{Level: 1, Text: "Chapter One", Offset: 5, FontSize: 18}
	if toc[0] != want {
		t.Errorf("toc[0] = %+v, want %+v", toc[0], want)
	}
	if toc[1].Level != 2 || toc[1].Offset != 60 {
		t.Errorf("toc[1] = %+v, want level 2 at 60", toc[1])
	}
}

// ============================================================================
// Element Tests
// ============================================================================

func TestElementTypeString(t *testing.T) {
	tests := []struct {
		et   ElementType
		want string
	}{
		{ElementTypeParagraph, "Paragraph"},
		{ElementTypeHeading, "Heading"},
		{ElementTypeTable, "Table"},
		{ElementTypeImage, "Image"},
		{ElementTypeUnknown, "Unknown"},
		{ElementType(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.et.String(); got != tt.want {
			t.Errorf("ElementType(%d).String() = %q, want %q", tt.et, got, tt.want)
		}
	}
}

func TestRoleString(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleRegular, "regular"},
		{RoleSmall, "small"},
		{RoleLarge, "large"},
	}

	for _, tt := range tests {
		if got := tt.role.String(); got != tt.want {
			t.Errorf("Role.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNoteKindString(t *testing.T) {
	if NoteHeader.String() != "header" || NoteFooter.String() != "footer" || NoteFootnote.String() != "footnote" {
		t.Error("NoteKind.String() mismatch")
	}
}

func TestImageFormatString(t *testing.T) {
	tests := []struct {
		f    ImageFormat
		want string
	}{
		{ImageFormatPNG, "png"},
		{ImageFormatJPEG, "jpeg"},
		{ImageFormatBMP, "bmp"},
		{ImageFormatEMF, "emf"},
		{ImageFormatWMF, "wmf"},
		{ImageFormatPICT, "pict"},
		{ImageFormatUnknown, "unknown"},
	}

	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("ImageFormat.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParagraphInterface(t *testing.T) {
	p := para("Hello", " ", "World")
	p.Span = Span{3, 20}

	var elem TextElement = p
	if elem.Type() != ElementTypeParagraph {
		t.Error("Type() should return ElementTypeParagraph")
	}
	if elem.SourceSpan() != (Span{3, 20}) {
		t.Error("SourceSpan() mismatch")
	}
	if elem.GetText() != "Hello World" {
		t.Errorf("GetText() = %q, want %q", elem.GetText(), "Hello World")
	}
	if p.IsBlank() {
		t.Error("paragraph with text should not be blank")
	}
	if !para(" ", "\t").IsBlank() {
		t.Error("whitespace-only paragraph should be blank")
	}
}

func TestHeadingInterface(t *testing.T) {
	h := &Heading{Runs: []Run{{Text: "Title", Role: RoleLarge}}, Level: 1, Span: Span{0, 9}}

	var elem TextElement = h
	if elem.Type() != ElementTypeHeading {
		t.Error("Type() should return ElementTypeHeading")
	}
	if elem.GetText() != "Title" {
		t.Errorf("GetText() = %q, want Title", elem.GetText())
	}
}

func TestImageInterface(t *testing.T) {
	img := &Image{Format: ImageFormatPNG, Span: Span{1, 2}}

	var elem Element = img
	if elem.Type() != ElementTypeImage {
		t.Error("Type() should return ElementTypeImage")
	}
	if elem.SourceSpan() != (Span{1, 2}) {
		t.Error("SourceSpan() mismatch")
	}
}

// ============================================================================
// Metadata Tests
// ============================================================================

func TestMetadata(t *testing.T) {
	meta := Metadata{
		Title:     "Test Document",
		Keywords:  []string{"test", "go"},
		Producer:  "Msftedit 5.41",
		PageCount: 3,
		Custom:    map[string]string{"company": "ACME"},
	}

	if meta.Title != "Test Document" {
		t.Error("Title not set correctly")
	}
	if len(meta.Keywords) != 2 {
		t.Error("Keywords not set correctly")
	}
	if meta.Custom["company"] != "ACME" {
		t.Error("Custom metadata not set correctly")
	}
}

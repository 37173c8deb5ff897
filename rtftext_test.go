package rtftext

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/rtftext/format"
	"github.com/tsawler/rtftext/rtf"
	"github.com/tsawler/rtftext/rtfdoc"
	"github.com/tsawler/rtftext/textconv"
)

const sample = `{\rtf1\ansi\deff0{\fonttbl{\f0\fnil Body;}{\f1\fnil Dedris-a;}}` +
	`{\info{\title Sample}}` +
	`{\header Running head}{\footer Page}` +
	`\fs24 The body text of the sample document.\par` +
	`\fs36 Chapter\par` +
	`\fs24 More body text{\footnote A note.} here.\par` +
	`\trowd a\cell b\cell\row}`

// writeFile writes content to a temporary file with the given name.
func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestOpen(t *testing.T) {
	// Test with non-existent file
	_, _, err := Open("nonexistent.rtf").Text()
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestBasicTextExtraction(t *testing.T) {
	path := writeFile(t, "sample.rtf", []byte(sample))

	text, warnings, err := Open(path).Text()
	if err != nil {
		t.Fatalf("failed to extract text: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %s", FormatWarnings(warnings))
	}

	want := "Running head\n" +
		"The body text of the sample document.\n" +
		"Chapter\n" +
		"More body text here.\n" +
		"a\tb\n" +
		"A note.\n" +
		"Page\n"
	if text != want {
		t.Errorf("Text() = %q, want %q", text, want)
	}
}

func TestRTFNamedDoc(t *testing.T) {
	path := writeFile(t, "letter.doc", []byte(sample))

	text, _, err := Open(path).Text()
	if err != nil {
		t.Fatalf("failed to extract text: %v", err)
	}
	if !strings.Contains(text, "Chapter") {
		t.Error("expected text to contain 'Chapter'")
	}
}

func TestBinaryDocUnsupported(t *testing.T) {
	ole := []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1, 0, 0, 0, 0}
	path := writeFile(t, "binary.doc", ole)

	_, _, err := Open(path).Text()
	if !errors.Is(err, format.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNotRTFWarning(t *testing.T) {
	text, warnings, err := FromBytes([]byte("just some text")).Text()
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if text != "just some text\n" {
		t.Errorf("Text() = %q", text)
	}
	if !hasWarning(warnings, WarningNotRTF) {
		t.Errorf("expected not-rtf warning, got %v", warnings)
	}
}

func TestParseWarnings(t *testing.T) {
	_, warnings, err := FromBytes([]byte(`{\rtf1 a}} b \'zz`)).Text()
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if !hasWarning(warnings, WarningUnbalancedGroups) {
		t.Errorf("expected unbalanced-groups warning, got %v", warnings)
	}
	if !hasWarning(warnings, WarningPlaceholders) {
		t.Errorf("expected placeholders warning, got %v", warnings)
	}

	_, warnings, _ = FromBytes([]byte(`{\rtf1}`)).Text()
	if !hasWarning(warnings, WarningNoContent) {
		t.Errorf("expected no-content warning, got %v", warnings)
	}
}

func hasWarning(warnings []Warning, code WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func TestExcludeHeadersAndFooters(t *testing.T) {
	base := FromBytes([]byte(sample))

	filtered, _, err := base.ExcludeHeadersAndFooters().ExcludeFootnotes().Text()
	if err != nil {
		t.Fatalf("failed to extract filtered text: %v", err)
	}
	for _, s := range []string{"Running head", "Page", "A note."} {
		if strings.Contains(filtered, s) {
			t.Errorf("filtered text should not contain %q", s)
		}
	}

	// The base extractor is unchanged by the chained options
	full, _, err := base.Text()
	if err != nil {
		t.Fatalf("failed to extract full text: %v", err)
	}
	if !strings.Contains(full, "Running head") {
		t.Error("base extractor should keep headers")
	}
}

func TestReuseAfterTerminal(t *testing.T) {
	ext := FromBytes([]byte(`{\rtf1 a}}`))

	first, w1, err := ext.Text()
	if err != nil {
		t.Fatalf("first Text() error = %v", err)
	}
	second, w2, err := ext.Text()
	if err != nil {
		t.Fatalf("second Text() error = %v", err)
	}
	if first != second {
		t.Errorf("second Text() = %q, want %q", second, first)
	}
	if len(w1) != len(w2) {
		t.Errorf("warnings grew from %d to %d", len(w1), len(w2))
	}
}

func TestFromReader(t *testing.T) {
	r := rtfdoc.FromBytes([]byte(sample), rtfdoc.Options{})
	defer r.Close()

	text, _, err := FromReader(r).ExcludeHeaders().Text()
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if strings.HasPrefix(text, "Running head") {
		t.Errorf("Text() = %q, want header excluded", text)
	}
}

func TestToMarkdown(t *testing.T) {
	md, _, err := FromBytes([]byte(sample)).ToMarkdown()
	if err != nil {
		t.Fatalf("ToMarkdown() error = %v", err)
	}

	for _, want := range []string{"# Chapter\n", "| a | b |", "[^1]: A note."} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestNoHeadings(t *testing.T) {
	md, _, _ := FromBytes([]byte(sample)).NoHeadings().ToMarkdown()
	if strings.Contains(md, "# Chapter") {
		t.Errorf("markdown should have no headings:\n%s", md)
	}
}

func TestToHTML(t *testing.T) {
	out, _, err := FromBytes([]byte(sample)).Title("Custom").Language("en").ToHTML()
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}

	for _, want := range []string{"<title>Custom</title>", `lang="en"`, "<h1>", "Chapter"} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q", want)
		}
	}

	// The title override does not leak into the shared document
	meta, err := FromBytes([]byte(sample)).Metadata()
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if meta.Title != "Sample" {
		t.Errorf("Metadata().Title = %q, want %q", meta.Title, "Sample")
	}
}

func TestLanguageTag(t *testing.T) {
	out, _, err := FromBytes([]byte(sample)).Language("en-us").ToHTML()
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	if !strings.Contains(out, `lang="en-US"`) {
		t.Errorf("HTML should carry the canonical tag:\n%s", out)
	}

	_, _, err = FromBytes([]byte(sample)).Language("not a tag").ToHTML()
	if err == nil {
		t.Error("ToHTML() with an invalid language tag should fail")
	}
}

func TestToTEI(t *testing.T) {
	path := writeFile(t, "sample.rtf", []byte(sample))

	out, _, err := Open(path).Language("bo").ToTEI()
	if err != nil {
		t.Fatalf("ToTEI() error = %v", err)
	}

	sum := sha256.Sum256([]byte(sample))
	for _, want := range []string{
		`<idno type="src_path">` + path + `</idno>`,
		`<idno type="src_sha256">` + hex.EncodeToString(sum[:]) + `</idno>`,
		`<title>Sample</title>`,
		`<body xml:lang="bo">`,
		`rend="head"`,
		`<note place="foot">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("TEI missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Running head") {
		t.Error("TEI should not contain header text")
	}
}

func TestEventsAndFonts(t *testing.T) {
	events, _, err := FromBytes([]byte(sample)).Events()
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected events")
	}
	if events[0].Kind != rtf.SpecialBlock || events[0].Special != rtf.Header {
		t.Errorf("first event = %v, want header block", events[0])
	}
	for i := 1; i < len(events); i++ {
		if events[i].Start < events[i-1].End {
			t.Errorf("event %d starts at %d before previous end %d", i, events[i].Start, events[i-1].End)
		}
	}

	fonts, err := FromBytes([]byte(sample)).Fonts()
	if err != nil {
		t.Fatalf("Fonts() error = %v", err)
	}
	if len(fonts) != 2 || fonts[0].Name != "Body" || fonts[1].Name != "Dedris-a" {
		t.Errorf("Fonts() = %+v", fonts)
	}
}

func TestTables(t *testing.T) {
	tables := Must(FromBytes([]byte(sample)).Tables())
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	if tables[0].Rows[0][1].Text != "b" {
		t.Errorf("cell = %q, want %q", tables[0].Rows[0][1].Text, "b")
	}
}

func TestConverter(t *testing.T) {
	upper := textconv.ConverterFunc(func(font, text string) textconv.Result {
		if font != "Dedris-a" {
			return textconv.Result{Text: text}
		}
		return textconv.Result{Text: strings.ToUpper(text), Font: font, Handled: true}
	})

	text, _, err := FromBytes([]byte(`{\rtf1{\fonttbl{\f0\fnil Body;}{\f1\fnil Dedris-a;}}\f0 low \f1 high}`)).
		Converter(upper).
		Text()
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if text != "low HIGH\n" {
		t.Errorf("Text() = %q, want %q", text, "low HIGH\n")
	}
}

func TestConversionTable(t *testing.T) {
	path := writeFile(t, "table.json", []byte(`{"fonts": {"Dedris-a": {"k": "K"}}}`))

	text, warnings, err := FromBytes([]byte(`{\rtf1{\fonttbl{\f1\fnil Dedris-a;}}\f1 kqk}`)).
		ConversionTable(path).
		CollapseSpaces().
		Text()
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if text != "KqK\n" {
		t.Errorf("Text() = %q, want %q", text, "KqK\n")
	}
	if !hasWarning(warnings, WarningUnconvertedChars) {
		t.Errorf("expected unconverted-chars warning, got %v", warnings)
	}
}

func TestConversionTableMissing(t *testing.T) {
	ext := FromBytes([]byte(sample)).ConversionTable(filepath.Join(t.TempDir(), "missing.json"))

	if _, _, err := ext.Text(); err == nil {
		t.Error("Text() should fail when the conversion table is missing")
	}
	if _, err := ext.Fonts(); err == nil {
		t.Error("Fonts() should fail when the conversion table is missing")
	}
}

func TestAnalyze(t *testing.T) {
	sum, _, err := FromBytes([]byte(sample)).Analyze()
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	counts := []struct {
		name      string
		got, want int
	}{
		{"Paragraphs", sum.Paragraphs, 2},
		{"Headings", sum.Headings, 1},
		{"Tables", sum.Tables, 1},
		{"Images", sum.Images, 0},
		{"Headers", sum.Headers, 1},
		{"Footers", sum.Footers, 1},
		{"Footnotes", sum.Footnotes, 1},
	}
	for _, c := range counts {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	if len(sum.Fonts) != 1 {
		t.Fatalf("expected 1 font in use, got %+v", sum.Fonts)
	}
	f := sum.Fonts[0]
	if f.Name != "Body" || len(f.Sizes) != 2 || f.Sizes[0] != 12 || f.Sizes[1] != 18 {
		t.Errorf("font usage = %+v", f)
	}
	if sum.Classification.Body != 12 {
		t.Errorf("body size = %d, want 12", sum.Classification.Body)
	}
}

func TestMust(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Must should panic on error")
		}
	}()
	Must(Open("nonexistent.rtf").Fonts())
}

func TestMustText(t *testing.T) {
	text := MustText(FromBytes([]byte(`{\rtf1 hi}`)).Text())
	if text != "hi\n" {
		t.Errorf("MustText() = %q", text)
	}
}

func TestFormatWarnings(t *testing.T) {
	got := FormatWarnings([]Warning{
		{Code: WarningPlaceholders, Message: "undecodable characters", Count: 2},
		{Code: WarningOCR, Message: "no OCR"},
	})
	if got != "undecodable characters (2); no OCR" {
		t.Errorf("FormatWarnings() = %q", got)
	}
	if WarningOCR.String() != "ocr" || WarningCode(0).String() != "unknown" {
		t.Error("unexpected WarningCode strings")
	}
}

func TestConvert(t *testing.T) {
	conv, err := FromBytes([]byte(sample)).Convert(FormatMarkdown)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(conv.Output, "# Chapter") {
		t.Errorf("Convert().Output = %q", conv.Output)
	}
	if conv.Summary == nil || conv.Summary.Headings != 1 {
		t.Errorf("Convert().Summary = %+v", conv.Summary)
	}
	sum := sha256.Sum256([]byte(sample))
	if conv.SHA256 != hex.EncodeToString(sum[:]) {
		t.Errorf("Convert().SHA256 = %q", conv.SHA256)
	}

	if _, err := FromBytes([]byte(sample)).Convert(OutputFormat("pdf")); err == nil {
		t.Error("Convert() should reject unknown formats")
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    OutputFormat
		wantErr bool
	}{
		{"text", FormatText, false},
		{"TXT", FormatText, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{"tei", FormatTEI, false},
		{"xml", FormatTEI, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
	if FormatTEI.Extension() != ".xml" || FormatText.Extension() != ".txt" {
		t.Error("unexpected output extensions")
	}
}

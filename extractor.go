package rtftext

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/language"

	"github.com/tsawler/rtftext/export"
	"github.com/tsawler/rtftext/format"
	"github.com/tsawler/rtftext/model"
	"github.com/tsawler/rtftext/ocr"
	"github.com/tsawler/rtftext/rtf"
	"github.com/tsawler/rtftext/rtfdoc"
	"github.com/tsawler/rtftext/textconv"
)

// Extractor provides a fluent interface for extracting content from RTF
// files. Each configuration method returns a new Extractor instance,
// making it safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	data     []byte
	format   format.Format

	reader *rtfdoc.Reader

	// Lifecycle
	ownsReader   bool // true if we built the reader and should close it
	readerOpened bool // true if reader has been built

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	newExt := &Extractor{
		filename:     e.filename,
		data:         e.data,
		format:       e.format,
		reader:       e.reader,
		ownsReader:   e.ownsReader,
		readerOpened: e.readerOpened,
		options:      e.options.clone(),
		err:          e.err,
		warnings:     append([]Warning(nil), e.warnings...),
	}
	return newExt
}

// ensureReader reads and parses the source if not already done.
func (e *Extractor) ensureReader() error {
	if e.readerOpened {
		return nil
	}
	e.warnings = nil
	if e.data == nil {
		if e.filename == "" {
			return fmt.Errorf("no filename specified")
		}
		data, err := os.ReadFile(e.filename)
		if err != nil {
			return fmt.Errorf("failed to open RTF: %w", err)
		}
		e.data = data
	}

	e.format = format.Resolve(e.filename, e.data)
	switch {
	case e.format == format.Unknown:
		e.warnings = append(e.warnings, Warning{Code: WarningNotRTF, Message: "input does not start with {\\rtf"})
	case !e.format.Supported():
		return fmt.Errorf("%s document: %w", e.format, format.ErrUnsupportedFormat)
	}

	e.reader = rtfdoc.FromBytes(e.data, e.options.docOptions())
	e.ownsReader = true
	e.readerOpened = true
	e.warnings = append(e.warnings, parseWarnings(e.reader.Parsed())...)
	e.warnings = append(e.warnings, conversionWarning(e.reader.ConversionStats())...)
	if e.options.ocr {
		e.labelPictures()
	}
	tracer().Debugf("%s: %d events, %d warnings", e.source(), len(e.reader.Parsed().Events), len(e.warnings))
	return nil
}

// newOCREngine opens the engine used by labelPictures.
var newOCREngine = func() (ocr.Engine, error) {
	client, err := ocr.New()
	if err != nil {
		return nil, err
	}
	return client, nil
}

// labelPictures runs OCR over the pictures of the document. Failures
// become warnings.
func (e *Extractor) labelPictures() {
	doc, _ := e.reader.Document()
	if len(doc.Images()) == 0 {
		return
	}
	client, err := newOCREngine()
	if err != nil {
		e.warnings = append(e.warnings, Warning{Code: WarningOCR, Message: err.Error()})
		return
	}
	defer client.Close()
	if err := client.SetLanguage(e.options.ocrLanguage); err != nil {
		e.warnings = append(e.warnings, Warning{Code: WarningOCR, Message: err.Error()})
		return
	}
	if err := client.SetPageSegMode(e.options.ocrMode); err != nil {
		e.warnings = append(e.warnings, Warning{Code: WarningOCR, Message: err.Error()})
		return
	}
	if _, errs := ocr.LabelImages(client, doc); len(errs) > 0 {
		e.warnings = append(e.warnings, Warning{
			Code:    WarningOCR,
			Message: fmt.Sprintf("picture recognition failed: %v", errors.Join(errs...)),
			Count:   len(errs),
		})
	}
}

func (e *Extractor) source() string {
	if e.filename != "" {
		return e.filename
	}
	return "<memory>"
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsReader && e.reader != nil {
		err := e.reader.Close()
		e.reader = nil
		e.ownsReader = false
		e.readerOpened = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// ExcludeHeaders configures the extractor to leave out \header blocks.
//
// Example:
//
//	text, _, err := rtftext.Open("doc.rtf").ExcludeHeaders().Text()
func (e *Extractor) ExcludeHeaders() *Extractor {
	newExt := e.clone()
	newExt.options.excludeHeaders = true
	return newExt
}

// ExcludeFooters configures the extractor to leave out \footer blocks.
//
// Example:
//
//	text, _, err := rtftext.Open("doc.rtf").ExcludeFooters().Text()
func (e *Extractor) ExcludeFooters() *Extractor {
	newExt := e.clone()
	newExt.options.excludeFooters = true
	return newExt
}

// ExcludeHeadersAndFooters configures the extractor to leave out both
// headers and footers. This is a convenience method equivalent to calling
// ExcludeHeaders().ExcludeFooters().
//
// Example:
//
//	text, _, err := rtftext.Open("doc.rtf").ExcludeHeadersAndFooters().Text()
func (e *Extractor) ExcludeHeadersAndFooters() *Extractor {
	newExt := e.clone()
	newExt.options.excludeHeaders = true
	newExt.options.excludeFooters = true
	return newExt
}

// ExcludeFootnotes configures the extractor to leave out footnotes.
func (e *Extractor) ExcludeFootnotes() *Extractor {
	newExt := e.clone()
	newExt.options.excludeFootnotes = true
	return newExt
}

// JoinLines configures the extractor to join the lines of a paragraph
// (\line breaks) with spaces instead of newlines.
//
// Example:
//
//	text, _, err := rtftext.Open("doc.rtf").JoinLines().Text()
func (e *Extractor) JoinLines() *Extractor {
	newExt := e.clone()
	newExt.options.joinLines = true
	return newExt
}

// FontFamily sets the custom font family whose \panose entries mark the
// extended font table variant. The default is rtf.DefaultFontFamily.
func (e *Extractor) FontFamily(name string) *Extractor {
	newExt := e.clone()
	newExt.options.fontFamily = name
	return newExt
}

// CodePages makes \'hh escapes follow the document's \ansicpg code page
// instead of Latin-1.
func (e *Extractor) CodePages() *Extractor {
	newExt := e.clone()
	newExt.options.codePages = true
	return newExt
}

// Converter sets the converter applied to the text of every run.
func (e *Extractor) Converter(c textconv.Converter) *Extractor {
	newExt := e.clone()
	newExt.options.converter = c
	return newExt
}

// ConversionTable loads a JSON conversion table and uses it as converter.
// A table that cannot be loaded makes every terminal operation fail.
//
// Example:
//
//	text, _, err := rtftext.Open("pecha.rtf").ConversionTable("dedris.json").Text()
func (e *Extractor) ConversionTable(path string) *Extractor {
	newExt := e.clone()
	if newExt.err != nil {
		return newExt
	}
	table, err := textconv.LoadTableFile(path)
	if err != nil {
		newExt.err = err
		return newExt
	}
	newExt.options.converter = table
	return newExt
}

// Normalize applies Unicode NFC normalization to run text after
// conversion.
func (e *Extractor) Normalize() *Extractor {
	newExt := e.clone()
	if newExt.options.normalizer == nil {
		newExt.options.normalizer = &textconv.Normalizer{}
	}
	return newExt
}

// CollapseSpaces normalizes run text and collapses runs of spaces and
// tabs into one space.
func (e *Extractor) CollapseSpaces() *Extractor {
	newExt := e.Normalize()
	newExt.options.normalizer.CollapseSpaces = true
	return newExt
}

// Script restricts the characters that vote for the body font size, e.g.
// unicode.Tibetan for documents with Latin annotations.
func (e *Extractor) Script(table *unicode.RangeTable) *Extractor {
	newExt := e.clone()
	newExt.options.script = table
	return newExt
}

// NoHeadings keeps paragraphs in large sizes as paragraphs.
func (e *Extractor) NoHeadings() *Extractor {
	newExt := e.clone()
	newExt.options.noHeadings = true
	return newExt
}

// EmbedImages inlines raster pictures into HTML output.
func (e *Extractor) EmbedImages() *Extractor {
	newExt := e.clone()
	newExt.options.embedImages = true
	return newExt
}

// Title overrides the document title in TEI and HTML output.
func (e *Extractor) Title(title string) *Extractor {
	newExt := e.clone()
	newExt.options.title = title
	return newExt
}

// Language sets the BCP 47 language tag of TEI and HTML output, e.g. "bo".
// The tag is written in canonical form. An invalid tag makes every
// terminal operation fail.
func (e *Extractor) Language(lang string) *Extractor {
	newExt := e.clone()
	if newExt.err != nil || lang == "" {
		newExt.options.lang = ""
		return newExt
	}
	tag, err := language.Parse(lang)
	if err != nil {
		newExt.err = fmt.Errorf("invalid language tag %q: %w", lang, err)
		return newExt
	}
	newExt.options.lang = tag.String()
	return newExt
}

// OCRPictures recognizes the text of raster pictures and stores it as
// their alt text. lang is a Tesseract language list such as "bod+eng";
// empty keeps Tesseract's default. Without the ocr build tag this only
// adds a warning.
func (e *Extractor) OCRPictures(lang string) *Extractor {
	newExt := e.clone()
	newExt.options.ocr = true
	newExt.options.ocrLanguage = lang
	return newExt
}

// OCRPageSegMode sets how Tesseract lays out a picture before reading it.
// The default, ocr.PSM_SINGLE_BLOCK, suits pictures holding one block of
// text. It has no effect without OCRPictures.
func (e *Extractor) OCRPageSegMode(mode ocr.PageSegMode) *Extractor {
	newExt := e.clone()
	newExt.options.ocrMode = mode
	return newExt
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// Text extracts and returns the text content of the document: headers,
// body, footnotes and footers, one paragraph per line.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	text, warnings, err := rtftext.Open("document.rtf").Text()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", rtftext.FormatWarnings(warnings))
//	}
func (e *Extractor) Text() (string, []Warning, error) {
	return e.Render(FormatText)
}

// ToMarkdown extracts content and returns it as markdown.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	md, warnings, err := rtftext.Open("document.rtf").
//	    ExcludeHeadersAndFooters().
//	    ToMarkdown()
func (e *Extractor) ToMarkdown() (string, []Warning, error) {
	return e.Render(FormatMarkdown)
}

// ToHTML extracts content and returns it as a standalone HTML page.
// This is a terminal operation that closes the underlying reader.
func (e *Extractor) ToHTML() (string, []Warning, error) {
	return e.Render(FormatHTML)
}

// ToTEI extracts content and returns it as TEI XML with size roles marked
// up. The source path and the SHA-256 of the source are recorded in the
// header. Headers and footers are never part of the output.
// This is a terminal operation that closes the underlying reader.
func (e *Extractor) ToTEI() (string, []Warning, error) {
	return e.Render(FormatTEI)
}

// Render extracts content in the given output format.
// This is a terminal operation that closes the underlying reader.
func (e *Extractor) Render(f OutputFormat) (string, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return "", warnings, err
	}
	out, err := e.render(doc, f)
	return out, warnings, err
}

// Conversion is the result of Convert.
type Conversion struct {
	Output   string
	Warnings []Warning
	Summary  *Summary
	// SHA256 is the hex digest of the source, empty for FromReader.
	SHA256 string
}

// Convert renders the document and summarises it in one pass.
// This is a terminal operation that closes the underlying reader.
func (e *Extractor) Convert(f OutputFormat) (*Conversion, error) {
	if e.err != nil {
		return nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, err
	}
	defer e.Close()

	doc, err := e.reader.Document()
	if err != nil {
		return nil, err
	}
	out, err := e.render(doc, f)
	if err != nil {
		return nil, err
	}
	return &Conversion{
		Output:   out,
		Warnings: e.warnings,
		Summary:  e.summary(),
		SHA256:   e.sourceSHA256(),
	}, nil
}

func (e *Extractor) render(doc *model.Document, f OutputFormat) (string, error) {
	switch f {
	case FormatText:
		return export.Text(doc, export.TextOptions{
			NoteOptions: e.options.noteOptions(),
			JoinLines:   e.options.joinLines,
		}), nil
	case FormatMarkdown:
		return export.Markdown(doc, export.MarkdownOptions{
			NoteOptions: e.options.noteOptions(),
			JoinLines:   e.options.joinLines,
			Images:      true,
		}), nil
	case FormatHTML:
		return export.HTMLString(e.withTitle(doc), export.HTMLOptions{
			NoteOptions: e.options.noteOptions(),
			Lang:        e.options.lang,
			EmbedImages: e.options.embedImages,
		})
	case FormatTEI:
		var sb strings.Builder
		err := export.TEI(&sb, doc, export.TEIOptions{
			NoteOptions: export.NoteOptions{ExcludeFootnotes: e.options.excludeFootnotes},
			Title:       e.options.title,
			Lang:        e.options.lang,
			IDs:         e.sourceIDs(),
		})
		return sb.String(), err
	}
	return "", fmt.Errorf("unknown output format %q", f)
}

// sourceIDs identifies the source in TEI headers.
func (e *Extractor) sourceIDs() [][2]string {
	var ids [][2]string
	if e.filename != "" {
		ids = append(ids, [2]string{"src_path", e.filename})
	}
	if sum := e.sourceSHA256(); sum != "" {
		ids = append(ids, [2]string{"src_sha256", sum})
	}
	return ids
}

func (e *Extractor) sourceSHA256() string {
	if e.data == nil {
		return ""
	}
	sum := sha256.Sum256(e.data)
	return hex.EncodeToString(sum[:])
}

// withTitle returns doc with the configured title, leaving the shared
// document untouched.
func (e *Extractor) withTitle(doc *model.Document) *model.Document {
	if e.options.title == "" {
		return doc
	}
	titled := *doc
	titled.Metadata.Title = e.options.title
	return &titled
}

// Document extracts content and returns it as a structured model.Document.
// Elements are in source order; notes are kept apart in Document.Notes.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	doc, warnings, err := rtftext.Open("document.rtf").Document()
//	for _, h := range doc.Headings() {
//	    fmt.Println(h.Level, h.GetText())
//	}
func (e *Extractor) Document() (*model.Document, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	doc, err := e.reader.Document()
	if err != nil {
		return nil, e.warnings, err
	}
	return doc, e.warnings, nil
}

// Events returns the attributed event stream of the parse.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	events, _, err := rtftext.Open("document.rtf").Events()
//	for _, ev := range events {
//	    fmt.Println(ev)
//	}
func (e *Extractor) Events() ([]rtf.Event, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	return e.reader.Parsed().Events, e.warnings, nil
}

// Fonts returns the entries of the document's font table in declaration
// order.
// This is a terminal operation that closes the underlying reader.
func (e *Extractor) Fonts() ([]rtf.FontTableEntry, error) {
	if e.err != nil {
		return nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, err
	}
	defer e.Close()

	return e.reader.Parsed().Fonts.Entries(), nil
}

// Metadata returns the document information from the \info group.
// This is a terminal operation that closes the underlying reader.
func (e *Extractor) Metadata() (model.Metadata, error) {
	doc, _, err := e.Document()
	if err != nil {
		return model.Metadata{}, err
	}
	return doc.Metadata, nil
}

// Tables returns the tables of the document.
// This is a terminal operation that closes the underlying reader.
func (e *Extractor) Tables() ([]*model.Table, error) {
	doc, _, err := e.Document()
	if err != nil {
		return nil, err
	}
	return doc.ExtractTables(), nil
}

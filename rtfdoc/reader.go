// Package rtfdoc builds structured documents from RTF files.
//
// A [Reader] parses the file with package rtf, converts the run text of
// legacy fonts, classifies font sizes and exposes the result as a
// [model.Document] together with text and Markdown renderings.
package rtfdoc

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/npillmayer/schuko/tracing"

	"github.com/tsawler/rtftext/export"
	"github.com/tsawler/rtftext/model"
	"github.com/tsawler/rtftext/rtf"
	"github.com/tsawler/rtftext/sizeclass"
	"github.com/tsawler/rtftext/textconv"
)

func tracer() tracing.Trace {
	return tracing.Select("rtftext.rtfdoc")
}

// Options configures how a Reader builds its document.
type Options struct {
	// Parse is passed to the RTF parser.
	Parse []rtf.Option
	// Converter maps legacy font text to Unicode. Nil leaves text as is.
	Converter textconv.Converter
	// Normalizer cleans run text after conversion. Nil skips it.
	Normalizer *textconv.Normalizer
	// Script restricts the characters counted for size classification.
	Script *unicode.RangeTable
	// NoHeadings keeps paragraphs in large sizes as plain paragraphs.
	NoHeadings bool
}

// ExtractOptions selects the content of Text and Markdown output.
type ExtractOptions struct {
	ExcludeHeaders   bool
	ExcludeFooters   bool
	ExcludeFootnotes bool
	JoinLines        bool
}

// Reader provides access to RTF document content.
type Reader struct {
	parsed *rtf.Document
	doc    *model.Document
	class  sizeclass.Classification
	stats  ConversionStats
}

// Open reads and parses an RTF file.
func Open(filename string, opts Options) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("opening RTF file: %w", err)
	}
	return FromBytes(data, opts), nil
}

// FromBytes parses an RTF document held in memory.
func FromBytes(data []byte, opts Options) *Reader {
	return FromDocument(rtf.Parse(data, opts.Parse...), opts)
}

// FromDocument builds a Reader from an already parsed document.
func FromDocument(parsed *rtf.Document, opts Options) *Reader {
	res := NewRunResolver(opts.Converter, opts.Normalizer)
	doc := newBuilder(parsed, res).build()
	doc.Metadata = metadata(parsed.Info)
	for _, c := range parsed.Colors {
		doc.Colors = append(doc.Colors, model.Color{R: c.Red, G: c.Green, B: c.Blue})
	}
	r := &Reader{
		parsed: parsed,
		doc:    doc,
		stats:  res.Stats(),
	}
	r.class = classify(doc, opts.Script, !opts.NoHeadings)
	tracer().Debugf("built %d elements and %d notes from %d events",
		len(doc.Elements), len(doc.Notes), len(parsed.Events))
	return r
}

// Close releases resources associated with the Reader. The document is
// held in memory, so Close only exists for symmetry with other readers.
func (r *Reader) Close() error {
	return nil
}

// Parsed returns the underlying parse result with its event stream.
func (r *Reader) Parsed() *rtf.Document {
	return r.parsed
}

// Document returns the model.Document representation of the RTF content.
// The document is shared by all calls.
func (r *Reader) Document() (*model.Document, error) {
	return r.doc, nil
}

// Text extracts and returns all text content, notes included.
func (r *Reader) Text() (string, error) {
	return r.TextWithOptions(ExtractOptions{})
}

// TextWithOptions extracts text with notes filtered by opts.
func (r *Reader) TextWithOptions(opts ExtractOptions) (string, error) {
	return export.Text(r.doc, export.TextOptions{
		NoteOptions: opts.noteOptions(),
		JoinLines:   opts.JoinLines,
	}), nil
}

// Markdown returns the document content as a Markdown-formatted string.
func (r *Reader) Markdown() (string, error) {
	return r.MarkdownWithOptions(ExtractOptions{})
}

// MarkdownWithOptions returns Markdown with notes filtered by opts.
func (r *Reader) MarkdownWithOptions(opts ExtractOptions) (string, error) {
	return export.Markdown(r.doc, export.MarkdownOptions{
		NoteOptions: opts.noteOptions(),
		JoinLines:   opts.JoinLines,
	}), nil
}

func (o ExtractOptions) noteOptions() export.NoteOptions {
	return export.NoteOptions{
		ExcludeHeaders:   o.ExcludeHeaders,
		ExcludeFooters:   o.ExcludeFooters,
		ExcludeFootnotes: o.ExcludeFootnotes,
	}
}

// Metadata returns document metadata.
func (r *Reader) Metadata() model.Metadata {
	return r.doc.Metadata
}

// Tables returns all tables of the document.
func (r *Reader) Tables() []*model.Table {
	return r.doc.ExtractTables()
}

// Classification returns the font size classification of the body.
func (r *Reader) Classification() sizeclass.Classification {
	return r.class
}

// ConversionStats returns the glyph conversion counts.
func (r *Reader) ConversionStats() ConversionStats {
	return r.stats
}

// HasHeaders returns true if the document has header blocks.
func (r *Reader) HasHeaders() bool {
	return len(r.HeaderTexts()) > 0
}

// HasFooters returns true if the document has footer blocks.
func (r *Reader) HasFooters() bool {
	return len(r.FooterTexts()) > 0
}

// HeaderTexts returns the text of all non-empty headers.
func (r *Reader) HeaderTexts() []string {
	return noteTexts(r.doc, model.NoteHeader)
}

// FooterTexts returns the text of all non-empty footers.
func (r *Reader) FooterTexts() []string {
	return noteTexts(r.doc, model.NoteFooter)
}

// FootnoteTexts returns the text of all non-empty footnotes.
func (r *Reader) FootnoteTexts() []string {
	return noteTexts(r.doc, model.NoteFootnote)
}

func noteTexts(doc *model.Document, kind model.NoteKind) []string {
	var texts []string
	for _, n := range doc.NotesOf(kind) {
		if text := n.GetText(); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

// metadata maps the \info group onto model metadata.
func metadata(info rtf.Info) model.Metadata {
	meta := model.Metadata{
		Title:        info.Title,
		Author:       info.Author,
		Subject:      info.Subject,
		Creator:      info.Operator,
		Producer:     info.Generator,
		CreationDate: info.Created,
		ModDate:      info.Revised,
		PageCount:    info.Pages,
		WordCount:    info.Words,
		Custom:       make(map[string]string),
	}
	for _, kw := range strings.FieldsFunc(info.Keywords, func(r rune) bool { return r == ',' || r == ';' }) {
		if kw = strings.TrimSpace(kw); kw != "" {
			meta.Keywords = append(meta.Keywords, kw)
		}
	}
	for key, val := range map[string]string{
		"manager":  info.Manager,
		"company":  info.Company,
		"category": info.Category,
		"comment":  info.Comment,
	} {
		if val != "" {
			meta.Custom[key] = val
		}
	}
	return meta
}

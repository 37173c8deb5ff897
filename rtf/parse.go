package rtf

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Document is the result of parsing one RTF document.
type Document struct {
	Events  []Event
	Fonts   *FontTable
	Colors  ColorTable
	Variant Variant
	Info    Info
	Stats   Stats

	bytes ByteDecoder
}

// Stats counts the anomalies the parser absorbed. None of them is an error.
type Stats struct {
	// UnmatchedClose counts closing braces seen with no open group.
	UnmatchedClose int
	// UnclosedGroups is the number of groups still open at end of input.
	UnclosedGroups int
	// UnknownControlWords counts control words that were discarded.
	UnknownControlWords int
	// Placeholders counts characters replaced by '?' or U+FFFD.
	Placeholders int
	// UnknownFontRuns counts text runs whose font id is not in the font table.
	UnknownFontRuns int
	// SkippedDestinations counts destination groups consumed without output.
	SkippedDestinations int
}

// OK reports whether parsing produced at least one event.
func (d *Document) OK() bool {
	return d != nil && len(d.Events) > 0
}

// TextRuns returns the TextRun events in order.
func (d *Document) TextRuns() []Event {
	var runs []Event
	for _, ev := range d.Events {
		if ev.Kind == TextRun {
			runs = append(runs, ev)
		}
	}
	return runs
}

// SpecialBlocks returns the SpecialBlock events of the given kind.
func (d *Document) SpecialBlocks(kind SpecialKind) []Event {
	var blocks []Event
	for _, ev := range d.Events {
		if ev.Kind == SpecialBlock && ev.Special == kind {
			blocks = append(blocks, ev)
		}
	}
	return blocks
}

// Text concatenates the body text. Paragraph and row breaks become
// newlines, line breaks too, and cell breaks become tabs. Special blocks
// are left out.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, ev := range d.Events {
		switch ev.Kind {
		case TextRun:
			sb.WriteString(ev.Text)
		case ParagraphBreak, LineBreak, RowBreak:
			sb.WriteByte('\n')
		case CellBreak:
			sb.WriteByte('\t')
		}
	}
	return sb.String()
}

// Option configures a parse.
type Option func(*options)

type options struct {
	family      string
	codePages   bool
	defaultSize int
}

func defaultOptions() options {
	return options{
		family:      DefaultFontFamily,
		defaultSize: 24,
	}
}

// WithFontFamily sets the custom font family whose \panose entries mark
// the extended font table variant.
func WithFontFamily(name string) Option {
	return func(o *options) {
		if name != "" {
			o.family = name
		}
	}
}

// WithCodePages makes \'hh escapes follow the document's \ansicpg code
// page instead of Latin-1.
func WithCodePages(enabled bool) Option {
	return func(o *options) {
		o.codePages = enabled
	}
}

// WithDefaultSize sets the font size in half-points that applies before
// the first \fs.
func WithDefaultSize(halfPoints int) Option {
	return func(o *options) {
		if halfPoints > 0 {
			o.defaultSize = halfPoints
		}
	}
}

// Parse parses an RTF document held in memory. It never fails: malformed
// input yields whatever events could be recovered, with the anomalies
// counted in Document.Stats.
func Parse(data []byte, opts ...Option) *Document {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	dec := Latin1
	if o.codePages {
		if cp, ok := detectCodePage(data); ok {
			dec = cp
		}
	}
	doc := &Document{
		Variant: DetectVariant(data, o.family),
		Colors:  ExtractColorTable(data),
		Info:    ExtractInfo(data, dec),
		bytes:   dec,
	}
	doc.Fonts = ExtractFontTable(data, doc.Variant)

	p := newParser(data, doc.Fonts, dec, o)
	p.run()
	doc.Events = p.emit.Events()
	doc.Stats = p.stats
	tracer().Debugf("parsed %d bytes: %d events, %d fonts, stats %+v",
		len(data), len(doc.Events), doc.Fonts.Len(), doc.Stats)
	return doc
}

// ParseSpecial parses the content of a Footnote, Header or Footer block
// against the tables of d. Parsing starts under the font and size the
// block carried. Offsets of the returned events are relative to ev.Text.
func (d *Document) ParseSpecial(ev Event, opts ...Option) *Document {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if ev.SizePt > 0 {
		o.defaultSize = ev.SizePt * 2
	}
	dec := d.bytes
	if dec == nil {
		dec = Latin1
	}
	sub := &Document{
		Fonts:   d.Fonts,
		Colors:  d.Colors,
		Variant: d.Variant,
		bytes:   dec,
	}
	p := newParser([]byte(ev.Text), d.Fonts, dec, o)
	p.cur.Fonts = NewFontMap(ev.FontID)
	p.run()
	sub.Events = p.emit.Events()
	sub.Stats = p.stats
	return sub
}

// ParseReader reads r to the end and parses the result.
func ParseReader(r io.Reader, opts ...Option) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read RTF input: %w", err)
	}
	return Parse(data, opts...), nil
}

// ParseFile reads and parses the file at path.
func ParseFile(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data, opts...), nil
}

var reAnsiCodePage = regexp.MustCompile(`\\ansicpg(\d+)`)

// headerRegion bounds the search for document-level control words.
const headerRegion = 4 << 10

func detectCodePage(data []byte) (ByteDecoder, bool) {
	region := data
	if len(region) > headerRegion {
		region = region[:headerRegion]
	}
	m := reAnsiCodePage.FindSubmatch(region)
	if m == nil {
		return Latin1, false
	}
	cp, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return Latin1, false
	}
	return CodePage(cp)
}

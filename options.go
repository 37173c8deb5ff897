package rtftext

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tsawler/rtftext/export"
	"github.com/tsawler/rtftext/ocr"
	"github.com/tsawler/rtftext/rtf"
	"github.com/tsawler/rtftext/rtfdoc"
	"github.com/tsawler/rtftext/textconv"
)

// ExtractOptions holds configuration for extraction.
type ExtractOptions struct {
	// Content filtering
	excludeHeaders   bool
	excludeFooters   bool
	excludeFootnotes bool

	// Parsing
	fontFamily string
	codePages  bool

	// Run processing
	converter  textconv.Converter
	normalizer *textconv.Normalizer
	script     *unicode.RangeTable
	noHeadings bool

	// Output
	joinLines   bool
	embedImages bool
	title       string
	lang        string

	// Pictures
	ocr         bool
	ocrLanguage string
	ocrMode     ocr.PageSegMode
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		fontFamily: rtf.DefaultFontFamily,
		ocrMode:    ocr.PSM_SINGLE_BLOCK,
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	if o.normalizer != nil {
		n := *o.normalizer
		newOpts.normalizer = &n
	}
	return newOpts
}

func (o ExtractOptions) docOptions() rtfdoc.Options {
	return rtfdoc.Options{
		Parse: []rtf.Option{
			rtf.WithFontFamily(o.fontFamily),
			rtf.WithCodePages(o.codePages),
		},
		Converter:  o.converter,
		Normalizer: o.normalizer,
		Script:     o.script,
		NoHeadings: o.noHeadings,
	}
}

func (o ExtractOptions) noteOptions() export.NoteOptions {
	return export.NoteOptions{
		ExcludeHeaders:   o.excludeHeaders,
		ExcludeFooters:   o.excludeFooters,
		ExcludeFootnotes: o.excludeFootnotes,
	}
}

// OutputFormat selects the rendering of Render and Convert.
type OutputFormat string

// Output formats.
const (
	FormatText     OutputFormat = "text"
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
	FormatTEI      OutputFormat = "tei"
)

// Extension returns the file extension for output of format f.
func (f OutputFormat) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	case FormatTEI:
		return ".xml"
	default:
		return ".txt"
	}
}

// ParseOutputFormat parses a format name as used on command lines.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(name)); f {
	case FormatText, FormatMarkdown, FormatHTML, FormatTEI:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "txt":
		return FormatText, nil
	case "xml":
		return FormatTEI, nil
	}
	return "", fmt.Errorf("unknown output format %q", name)
}

// Package rtftext provides a fluent API for extracting text, structure and
// font-attributed runs from RTF files.
//
// Basic usage:
//
//	text, warnings, err := rtftext.Open("document.rtf").Text()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", rtftext.FormatWarnings(warnings))
//	}
//
// With options:
//
//	text, _, err := rtftext.Open("letter.rtf").
//	    ExcludeHeadersAndFooters().
//	    ConversionTable("dedris.json").
//	    Text()
//
// For the event stream itself, the lower-level rtf package is also
// available.
package rtftext

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/tsawler/rtftext/rtfdoc"
)

func tracer() tracing.Trace {
	return tracing.Select("rtftext")
}

// Open returns an Extractor for an RTF file. The file is read and parsed
// by the first terminal operation.
//
// Example:
//
//	text, warnings, err := rtftext.Open("document.rtf").Text()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns an Extractor for an RTF document held in memory.
//
// Example:
//
//	md, _, err := rtftext.FromBytes(data).ToMarkdown()
func FromBytes(data []byte) *Extractor {
	return &Extractor{
		data:    data,
		options: defaultOptions(),
	}
}

// FromReader creates an Extractor from an already-built rtfdoc.Reader.
// Options that affect parsing have no effect on such an Extractor.
// Note: The caller is responsible for closing the reader.
//
// Example:
//
//	r, err := rtfdoc.Open("document.rtf", rtfdoc.Options{})
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	text, warnings, err := rtftext.FromReader(r).Text()
func FromReader(r *rtfdoc.Reader) *Extractor {
	return &Extractor{
		reader:       r,
		ownsReader:   false,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	fonts := rtftext.Must(rtftext.Open("document.rtf").Fonts())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to Text() or ToMarkdown() and
// panics if the error is non-nil. It discards warnings and returns just
// the value.
//
// Example:
//
//	text := rtftext.MustText(rtftext.Open("document.rtf").Text())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// Package textconv converts run text set in legacy, non-Unicode fonts into
// Unicode.
//
// Documents typeset with pre-Unicode fonts store glyph positions as plain
// Latin characters; only the font name tells how to read them. A
// [Converter] takes the font name of a run together with its text and
// returns the Unicode reading. [Table] is a data-driven converter loaded
// from JSON.
package textconv

import (
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/unicode/norm"
)

func tracer() tracing.Trace {
	return tracing.Select("rtftext.textconv")
}

// Converter maps the text of one run to Unicode.
type Converter interface {
	Convert(fontName, text string) Result
}

// Result is the outcome of converting one run.
type Result struct {
	Text    string
	Font    string // table font actually used, empty if none
	Handled bool   // false if no table applied and Text is the input
	Unknown []rune // input characters the table had no entry for
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(fontName, text string) Result

func (f ConverterFunc) Convert(fontName, text string) Result {
	return f(fontName, text)
}

// Identity leaves every run unchanged.
var Identity Converter = ConverterFunc(func(_, text string) Result {
	return Result{Text: text}
})

// Normalizer cleans converted text. The zero value applies NFC only.
type Normalizer struct {
	CollapseSpaces bool // fold runs of spaces and tabs into one space
}

// Normalize returns s in Unicode normalization form C.
func (n Normalizer) Normalize(s string) string {
	s = norm.NFC.String(s)
	if !n.CollapseSpaces {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	blank := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !blank {
				sb.WriteByte(' ')
			}
			blank = true
			continue
		}
		blank = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// NFC is a shorthand for Normalizer{}.Normalize.
func NFC(s string) string {
	return norm.NFC.String(s)
}

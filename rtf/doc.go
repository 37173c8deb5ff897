// Package rtf extracts an ordered stream of attributed text from RTF
// documents.
//
// The parser never rejects input. Unbalanced braces, unknown control words
// and unmappable characters are absorbed and counted in [Stats]; only a
// failure to read the input at all is reported as an error.
//
// # Usage
//
//	doc, err := rtf.ParseFile("volume-001.rtf")
//	if err != nil {
//	    // input could not be read
//	}
//	for _, ev := range doc.Events {
//	    switch ev.Kind {
//	    case rtf.TextRun:
//	        fmt.Printf("%s (%s, %dpt)\n", ev.Text, ev.FontName, ev.SizePt)
//	    case rtf.ParagraphBreak:
//	        fmt.Println()
//	    }
//	}
//
// # Font Attribution
//
// RTF producers select fonts per directionality (\ltrch, \rtlch) and per
// charset context (\loch, \hich, \dbch). The parser keeps one font slot for
// each of the six combinations in a [FontMap] and attributes every run to
// the slot of the context active when its text was written.
//
// # Destinations
//
// Font, colour and style tables, document info and all ignorable {\* ...}
// groups never reach the text stream. Footnotes, headers, footers and
// pictures are emitted as single [SpecialBlock] events so they cannot be
// merged into body text.
package rtf

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'rtftext.rtf'
func tracer() tracing.Trace {
	return tracing.Select("rtftext.rtf")
}

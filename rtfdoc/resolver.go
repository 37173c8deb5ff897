package rtfdoc

import (
	"github.com/tsawler/rtftext/model"
	"github.com/tsawler/rtftext/rtf"
	"github.com/tsawler/rtftext/textconv"
)

// ConversionStats summarises glyph conversion over one document.
type ConversionStats struct {
	HandledFonts   map[string]int // runs per table font
	UnhandledFonts map[string]int // runs per font name without a table
	UnknownChars   map[rune]int   // characters a table had no entry for
}

// NewConversionStats returns empty counts, ready for Merge.
func NewConversionStats() ConversionStats {
	return ConversionStats{
		HandledFonts:   make(map[string]int),
		UnhandledFonts: make(map[string]int),
		UnknownChars:   make(map[rune]int),
	}
}

// Merge adds the counts of other to s.
func (s ConversionStats) Merge(other ConversionStats) {
	for k, v := range other.HandledFonts {
		s.HandledFonts[k] += v
	}
	for k, v := range other.UnhandledFonts {
		s.UnhandledFonts[k] += v
	}
	for k, v := range other.UnknownChars {
		s.UnknownChars[k] += v
	}
}

// RunResolver turns TextRun events into model runs: the text goes through
// the converter for the run's font, then through the normalizer.
type RunResolver struct {
	conv  textconv.Converter
	norm  *textconv.Normalizer
	stats ConversionStats
}

// NewRunResolver creates a resolver. A nil converter leaves text as is and
// a nil normalizer skips normalization.
func NewRunResolver(conv textconv.Converter, norm *textconv.Normalizer) *RunResolver {
	if conv == nil {
		conv = textconv.Identity
	}
	return &RunResolver{conv: conv, norm: norm, stats: NewConversionStats()}
}

// Resolve converts one TextRun event.
func (rr *RunResolver) Resolve(ev rtf.Event) model.Run {
	res := rr.conv.Convert(ev.FontName, ev.Text)
	switch {
	case res.Handled:
		rr.stats.HandledFonts[res.Font]++
	case ev.FontName != "":
		rr.stats.UnhandledFonts[ev.FontName]++
	}
	for _, r := range res.Unknown {
		rr.stats.UnknownChars[r]++
	}
	text := res.Text
	if rr.norm != nil {
		text = rr.norm.Normalize(text)
	}
	return model.Run{
		Text:     text,
		FontID:   ev.FontID,
		FontName: ev.FontName,
		SizePt:   ev.SizePt,
		Span:     model.NewSpan(ev.Start, ev.End),
	}
}

// Stats returns the conversion counts gathered so far.
func (rr *RunResolver) Stats() ConversionStats {
	return rr.stats
}

package rtftext

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/rtftext/rtf"
	"github.com/tsawler/rtftext/rtfdoc"
)

// WarningCode classifies a Warning.
type WarningCode int

const (
	// WarningNotRTF means the input does not start with {\rtf. It is
	// parsed anyway.
	WarningNotRTF WarningCode = iota + 1
	// WarningUnbalancedGroups means braces did not match up.
	WarningUnbalancedGroups
	// WarningPlaceholders means characters were replaced by '?' or U+FFFD.
	WarningPlaceholders
	// WarningUnknownFonts means text runs referred to undeclared fonts.
	WarningUnknownFonts
	// WarningUnconvertedChars means a conversion table lacked entries for
	// characters of its font.
	WarningUnconvertedChars
	// WarningNoContent means the document produced no events.
	WarningNoContent
	// WarningOCR means picture recognition failed or is unavailable.
	WarningOCR
)

// String returns the string representation of the warning code.
func (c WarningCode) String() string {
	switch c {
	case WarningNotRTF:
		return "not-rtf"
	case WarningUnbalancedGroups:
		return "unbalanced-groups"
	case WarningPlaceholders:
		return "placeholders"
	case WarningUnknownFonts:
		return "unknown-fonts"
	case WarningUnconvertedChars:
		return "unconverted-chars"
	case WarningNoContent:
		return "no-content"
	case WarningOCR:
		return "ocr"
	default:
		return "unknown"
	}
}

// Warning describes a non-fatal issue: extraction succeeded but the result
// may be imperfect.
type Warning struct {
	Code    WarningCode
	Message string
	Count   int // occurrences, 0 when not countable
}

// String formats the warning for display.
func (w Warning) String() string {
	if w.Count > 0 {
		return fmt.Sprintf("%s (%d)", w.Message, w.Count)
	}
	return w.Message
}

// FormatWarnings joins warnings into one line.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

// parseWarnings turns the anomalies the parser absorbed into warnings.
func parseWarnings(doc *rtf.Document) []Warning {
	var warnings []Warning
	if !doc.OK() {
		warnings = append(warnings, Warning{Code: WarningNoContent, Message: "document has no content"})
	}
	s := doc.Stats
	if n := s.UnmatchedClose + s.UnclosedGroups; n > 0 {
		warnings = append(warnings, Warning{Code: WarningUnbalancedGroups, Message: "unbalanced groups", Count: n})
	}
	if s.Placeholders > 0 {
		warnings = append(warnings, Warning{Code: WarningPlaceholders, Message: "undecodable characters", Count: s.Placeholders})
	}
	if s.UnknownFontRuns > 0 {
		warnings = append(warnings, Warning{Code: WarningUnknownFonts, Message: "runs in undeclared fonts", Count: s.UnknownFontRuns})
	}
	return warnings
}

// conversionWarning reports the characters conversion tables had no entry
// for, listing up to ten of them.
func conversionWarning(stats rtfdoc.ConversionStats) []Warning {
	if len(stats.UnknownChars) == 0 {
		return nil
	}
	chars := make([]rune, 0, len(stats.UnknownChars))
	total := 0
	for r, n := range stats.UnknownChars {
		chars = append(chars, r)
		total += n
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	if len(chars) > 10 {
		chars = chars[:10]
	}
	return []Warning{{
		Code:    WarningUnconvertedChars,
		Message: fmt.Sprintf("characters without conversion: %q", string(chars)),
		Count:   total,
	}}
}

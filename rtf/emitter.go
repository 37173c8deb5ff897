package rtf

import "strings"

// runEmitter owns the pending text buffer and the event list of one parse.
type runEmitter struct {
	buf    strings.Builder
	start  int
	fonts  *FontTable
	stats  *Stats
	events []Event
}

func newRunEmitter(fonts *FontTable, stats *Stats) *runEmitter {
	return &runEmitter{
		fonts:  fonts,
		stats:  stats,
		events: make([]Event, 0, 256),
	}
}

// Pending reports whether the buffer holds text.
func (e *runEmitter) Pending() bool {
	return e.buf.Len() > 0
}

// Append adds r to the pending run.
func (e *runEmitter) Append(r rune) {
	e.buf.WriteRune(r)
}

// Mark moves the start of the next run to pos, unless text is pending.
func (e *runEmitter) Mark(pos int) {
	if e.buf.Len() == 0 {
		e.start = pos
	}
}

// Flush emits the pending text as a TextRun attributed to attr, spanning
// [start, end). The buffer is reset and the next run starts at end whether
// or not a run was emitted.
func (e *runEmitter) Flush(end int, attr ScopeFrame) {
	text := stripLineTerminators(e.buf.String())
	e.buf.Reset()
	if text != "" {
		id := attr.FontID()
		name, known := e.fonts.Name(id)
		if !known {
			e.stats.UnknownFontRuns++
		}
		start := e.start
		if start > end {
			start = end
		}
		e.events = append(e.events, Event{
			Kind:     TextRun,
			Text:     text,
			FontID:   id,
			FontName: name,
			SizePt:   attr.SizePt(),
			Start:    start,
			End:      end,
		})
	}
	e.start = end
}

// Emit appends a non-text event.
func (e *runEmitter) Emit(ev Event) {
	e.events = append(e.events, ev)
}

// Events returns everything emitted so far.
func (e *runEmitter) Events() []Event {
	return e.events
}

func stripLineTerminators(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return -1
		}
		return r
	}, s)
}

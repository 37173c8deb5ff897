package model

// Span is a half-open byte range [Start, End) of the source document.
type Span struct {
	Start int
	End   int
}

// NewSpan creates a span, swapping the bounds if they are reversed
func NewSpan(start, end int) Span {
	if end < start {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// Len returns the number of bytes covered
func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// IsEmpty returns true if the span covers no bytes
func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

// Contains checks if an offset lies inside the span
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Intersects checks if two spans share at least one byte
func (s Span) Intersects(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Union returns the smallest span covering both spans. An empty span
// contributes nothing.
func (s Span) Union(other Span) Span {
	if s.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return s
	}
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

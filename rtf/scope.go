package rtf

// defaultFallbackSkip is the number of fallback tokens after \uN when no
// \uc control word has been seen.
const defaultFallbackSkip = 1

// ScopeFrame is the formatting state saved at group entry and restored
// verbatim at group exit.
type ScopeFrame struct {
	Size      int // half-points
	Charset   Charset
	Direction Direction
	Fonts     FontMap

	// FallbackSkip is the \ucN value; RTF scopes it like character formatting.
	FallbackSkip int
}

// FontID resolves the effective font for the frame's current context.
func (f ScopeFrame) FontID() int {
	return f.Fonts.Resolve(f.Direction, f.Charset)
}

// SizePt reports the frame's font size in whole points.
func (f ScopeFrame) SizePt() int {
	return f.Size / 2
}

// scopeStack is an arena of frames indexed by depth. Frames are values, so
// pushing takes a deep copy of the current state.
type scopeStack struct {
	frames []ScopeFrame
}

func newScopeStack() *scopeStack {
	return &scopeStack{frames: make([]ScopeFrame, 0, 32)}
}

// Push saves a snapshot of cur.
func (s *scopeStack) Push(cur ScopeFrame) {
	s.frames = append(s.frames, cur)
}

// Pop returns the innermost saved frame. ok is false when the stack is
// empty; callers keep their current state in that case.
func (s *scopeStack) Pop() (frame ScopeFrame, ok bool) {
	n := len(s.frames)
	if n == 0 {
		return ScopeFrame{}, false
	}
	frame = s.frames[n-1]
	s.frames = s.frames[:n-1]
	return frame, true
}

// Depth returns the number of open groups.
func (s *scopeStack) Depth() int {
	return len(s.frames)
}

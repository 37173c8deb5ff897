package rtf

import "unicode/utf8"

// parser holds the scratch state of one parse. Nothing in it outlives the
// call to Parse.
type parser struct {
	data  []byte
	pos   int
	cur   ScopeFrame
	stack *scopeStack
	emit  *runEmitter
	stats Stats
	bytes ByteDecoder

	codePages bool
	highHalf  rune // pending high surrogate of a \u pair, 0 if none
}

func newParser(data []byte, fonts *FontTable, dec ByteDecoder, o options) *parser {
	p := &parser{
		data:      data,
		stack:     newScopeStack(),
		bytes:     dec,
		codePages: o.codePages,
		cur: ScopeFrame{
			Size:         o.defaultSize,
			Charset:      LowByte,
			Direction:    LeftToRight,
			Fonts:        NewFontMap(0),
			FallbackSkip: defaultFallbackSkip,
		},
	}
	p.emit = newRunEmitter(fonts, &p.stats)
	return p
}

// run scans the whole buffer. Every branch advances pos, so the loop
// terminates on any input.
func (p *parser) run() {
	for p.pos < len(p.data) {
		switch c := p.data[p.pos]; c {
		case '{':
			p.openGroup()
		case '}':
			p.closeGroup()
		case '\\':
			p.control()
		case '\r', '\n':
			p.pos++
		default:
			p.literal()
		}
		p.emit.Mark(p.pos)
	}
	p.resolveHighHalf()
	p.emit.Flush(len(p.data), p.cur)
	p.stats.UnclosedGroups = p.stack.Depth()
}

func (p *parser) openGroup() {
	g := classifyGroup(p.data, p.pos)
	switch g.action {
	case groupSkip:
		tracer().Debugf("skip destination %q at %d", g.keyword, p.pos)
		p.stats.SkippedDestinations++
		p.pos = g.resume
	case groupSpecial:
		p.special(g)
	default:
		p.stack.Push(p.cur)
		p.pos++
	}
}

func (p *parser) closeGroup() {
	p.resolveHighHalf()
	p.emit.Flush(p.pos, p.cur)
	if frame, ok := p.stack.Pop(); ok {
		p.cur = frame
	} else {
		p.stats.UnmatchedClose++
	}
	p.pos++
}

// special emits a SpecialBlock for g with the attribution active at its
// opening brace.
func (p *parser) special(g group) {
	p.resolveHighHalf()
	p.emit.Flush(g.start, p.cur)
	id := p.cur.FontID()
	name, _ := p.emit.fonts.Name(id)
	ev := Event{
		Kind:     SpecialBlock,
		Special:  g.special,
		Text:     string(g.inner),
		FontID:   id,
		FontName: name,
		SizePt:   p.cur.SizePt(),
		Start:    g.start,
		End:      g.end,
	}
	if g.special == Picture {
		ev.Picture = parsePicture(g.inner)
	}
	p.emit.Emit(ev)
	p.pos = g.resume
}

// literal appends one source character, decoded as UTF-8.
func (p *parser) literal() {
	r, size := utf8.DecodeRune(p.data[p.pos:])
	if r == utf8.RuneError && size <= 1 {
		p.stats.Placeholders++
		r = utf8.RuneError
		size = 1
	}
	p.appendRune(r)
	p.pos += size
}

// control handles the sequence starting with the backslash at pos.
func (p *parser) control() {
	at := p.pos
	if at+1 >= len(p.data) {
		p.pos++
		return
	}
	next := p.data[at+1]
	if isLetter(next) {
		p.controlWord(at)
		return
	}
	p.pos = at + 2
	switch next {
	case '\'':
		p.hexEscape(at)
	case '~':
		p.appendRune('\u00a0')
	case '_':
		p.appendRune('\u2011')
	case '-':
	case '{', '}', '\\':
		p.escapedLiteral(at, rune(next))
	case '\r', '\n':
		p.breakEvent(at, ParagraphBreak)
	}
}

// hexEscape decodes \'hh. The backslash is at data[at] and pos is past
// the quote.
func (p *parser) hexEscape(at int) {
	i := at + 2
	if i+1 < len(p.data) {
		hi, ok1 := hexValue(p.data[i])
		lo, ok2 := hexValue(p.data[i+1])
		if ok1 && ok2 {
			p.appendRune(p.bytes.DecodeByte(hi<<4 | lo))
			p.pos = i + 2
			return
		}
	}
	p.stats.Placeholders++
	p.appendRune('?')
	for n := 0; n < 2 && i < len(p.data) && !isStructural(p.data[i]); n++ {
		i++
	}
	p.pos = i
}

// escapedLiteral appends \{, \} or \\. State control words directly after
// the literal apply to it: the pending run is flushed and the literal
// starts a new run under the new state.
func (p *parser) escapedLiteral(at int, lit rune) {
	i := p.pos
	var words []controlWord
	for i+1 < len(p.data) && p.data[i] == '\\' && isLetter(p.data[i+1]) {
		cw := scanControlWord(p.data[i:])
		if !stateWords[cw.Name] {
			break
		}
		words = append(words, cw)
		i += cw.Size
	}
	if len(words) > 0 {
		p.resolveHighHalf()
		p.emit.Flush(at, p.cur)
		for _, cw := range words {
			p.applyState(cw)
		}
		p.pos = i
	}
	p.appendRune(lit)
}

func (p *parser) controlWord(at int) {
	cw := scanControlWord(p.data[at:])
	p.pos = at + cw.Size
	if stateWords[cw.Name] {
		p.resolveHighHalf()
		p.emit.Flush(at, p.cur)
		p.applyState(cw)
		return
	}
	switch cw.Name {
	case "par":
		p.breakEvent(at, ParagraphBreak)
	case "line":
		p.breakEvent(at, LineBreak)
	case "cell", "nestcell":
		p.breakEvent(at, CellBreak)
	case "row", "nestrow":
		p.breakEvent(at, RowBreak)
	case "u":
		if !cw.HasParam {
			p.stats.UnknownControlWords++
			return
		}
		p.unicode(cw.Param)
		p.skipFallback()
	case "uc":
		if cw.Param >= 0 {
			p.cur.FallbackSkip = cw.Param
		}
	case "deff":
		p.cur.Fonts.Fill(cw.Param)
	case "bin":
		p.skipBinary(cw.Param)
	case "ansicpg":
		if p.codePages {
			p.bytes, _ = CodePage(cw.Param)
		}
	default:
		if g, ok := legacySpecial(p.data, cw.Name, p.pos); ok {
			p.special(g)
			return
		}
		p.stats.UnknownControlWords++
	}
}

// applyState performs the state change of one of the stateWords.
func (p *parser) applyState(cw controlWord) {
	switch cw.Name {
	case "f", "af":
		if cw.HasParam {
			p.cur.Fonts.Select(p.cur.Direction, p.cur.Charset, cw.Param)
		}
	case "fs":
		p.cur.Size = cw.param(24)
	case "loch":
		p.cur.Charset = LowByte
	case "hich":
		p.cur.Charset = HighByte
	case "dbch":
		p.cur.Charset = DoubleByte
	case "ltrch":
		p.cur.Direction = LeftToRight
	case "rtlch":
		p.cur.Direction = RightToLeft
	}
}

// breakEvent flushes the pending run and emits a structural break spanning
// the control sequence at [at, pos).
func (p *parser) breakEvent(at int, kind EventKind) {
	p.resolveHighHalf()
	p.emit.Flush(at, p.cur)
	p.emit.Emit(Event{Kind: kind, Start: at, End: p.pos})
}

// unicode appends the character of a \uN word. Surrogate halves written as
// two consecutive \u words are combined.
func (p *parser) unicode(n int) {
	r := unicodeParam(n)
	switch {
	case r >= 0xd800 && r <= 0xdbff:
		p.resolveHighHalf()
		p.highHalf = r
	case r >= 0xdc00 && r <= 0xdfff:
		if p.highHalf == 0 {
			p.stats.Placeholders++
			p.appendRune('?')
			return
		}
		combined := 0x10000 + (p.highHalf-0xd800)<<10 + (r - 0xdc00)
		p.highHalf = 0
		p.emit.Append(combined)
	default:
		if r == '?' && (n < -0x8000 || n > 0xffff) {
			p.stats.Placeholders++
		}
		p.appendRune(r)
	}
}

// skipFallback skips the characters that stand in for the preceding \uN
// in readers without Unicode support. A token is one character or one
// \'hh escape. Groups and control words are never consumed.
func (p *parser) skipFallback() {
	for n := p.cur.FallbackSkip; n > 0 && p.pos < len(p.data); {
		c := p.data[p.pos]
		switch {
		case c == '\r' || c == '\n':
			p.pos++
			continue
		case isStructural(c) && c != '\\':
			return
		case c == '\\':
			if p.pos+3 < len(p.data) && p.data[p.pos+1] == '\'' {
				p.pos += 4
			} else {
				return
			}
		default:
			_, size := utf8.DecodeRune(p.data[p.pos:])
			p.pos += size
		}
		n--
	}
}

// skipBinary skips the n raw bytes that follow \binN.
func (p *parser) skipBinary(n int) {
	if n <= 0 {
		return
	}
	p.pos += n
	if p.pos > len(p.data) {
		p.pos = len(p.data)
	}
}

// appendRune adds r to the pending run, after settling a dangling high
// surrogate.
func (p *parser) appendRune(r rune) {
	p.resolveHighHalf()
	p.emit.Append(r)
}

// resolveHighHalf replaces a high surrogate that found no partner.
func (p *parser) resolveHighHalf() {
	if p.highHalf == 0 {
		return
	}
	p.highHalf = 0
	p.stats.Placeholders++
	p.emit.Append('?')
}

func isStructural(c byte) bool {
	return c == '{' || c == '}' || c == '\\'
}

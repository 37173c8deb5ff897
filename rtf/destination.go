package rtf

// skippedDestinations are consumed without output. The tables among them
// have already been read by the pre-pass.
var skippedDestinations = map[string]bool{
	"fonttbl":            true,
	"colortbl":           true,
	"stylesheet":         true,
	"info":               true,
	"listtable":          true,
	"listoverridetable":  true,
	"revtbl":             true,
	"rsidtbl":            true,
	"generator":          true,
	"filetbl":            true,
	"latentstyles":       true,
	"themedata":          true,
	"colorschememapping": true,
	"datastore":          true,
	"xmlnstbl":           true,
	"pgdsctbl":           true,
	"fldinst":            true,
	"nonshppict":         true,
	"objdata":            true,
}

// specialDestinations are captured as SpecialBlock events.
var specialDestinations = map[string]SpecialKind{
	"footnote": Footnote,
	"header":   Header,
	"headerl":  Header,
	"headerr":  Header,
	"headerf":  Header,
	"footer":   Footer,
	"footerl":  Footer,
	"footerr":  Footer,
	"footerf":  Footer,
	"pict":     Picture,
}

type groupAction int

const (
	groupPush groupAction = iota
	groupSkip
	groupSpecial
)

// group describes how the scanner treats the group opening at some offset.
type group struct {
	action  groupAction
	keyword string
	special SpecialKind

	// start and end delimit the special block, braces included. inner is
	// the raw content after the keyword.
	start, end int
	inner      []byte
	resume     int // where scanning continues
}

// classifyGroup decides what to do with the group opening at data[open]:
// skip it, capture it as a special block, or push a scope for it.
func classifyGroup(data []byte, open int) group {
	i := skipLineBreaks(data, open+1)
	ignorable := false
	if i+1 < len(data) && data[i] == '\\' && data[i+1] == '*' {
		ignorable = true
		i = skipBlanks(data, i+2)
	}
	keyword := ""
	var cw controlWord
	if i+1 < len(data) && data[i] == '\\' && isLetter(data[i+1]) {
		cw = scanControlWord(data[i:])
		keyword = cw.Name
	}
	switch {
	case skippedDestinations[keyword]:
		return group{action: groupSkip, keyword: keyword, resume: matchGroup(data, open)}
	case ignorable && keyword == "shppict":
		return shapePicture(data, open)
	case ignorable:
		return group{action: groupSkip, keyword: keyword, resume: matchGroup(data, open)}
	}
	if kind, ok := specialDestinations[keyword]; ok {
		end := matchGroup(data, open)
		return group{
			action:  groupSpecial,
			keyword: keyword,
			special: kind,
			start:   open,
			end:     end,
			inner:   groupInner(data, i+cw.Size, end),
			resume:  end,
		}
	}
	return group{action: groupPush, keyword: keyword}
}

// shapePicture captures the \pict inside a {\*\shppict ...} wrapper and
// skips the rest of the wrapper.
func shapePicture(data []byte, open int) group {
	end := matchGroup(data, open)
	g := group{action: groupSkip, keyword: "shppict", resume: end}
	start, pend, ok := findDestination(data[open+1:end], "pict")
	if !ok {
		return g
	}
	start += open + 1
	pend += open + 1
	cw := scanControlWord(data[start+1:])
	g.action = groupSpecial
	g.special = Picture
	g.start, g.end = start, pend
	g.inner = groupInner(data, start+1+cw.Size, pend)
	return g
}

// legacySpecial recognizes the "\footnote {...}" form, where the keyword
// precedes the group instead of opening it. at is the offset just past the
// keyword.
func legacySpecial(data []byte, keyword string, at int) (group, bool) {
	kind, ok := specialDestinations[keyword]
	if !ok {
		return group{}, false
	}
	j := skipBlanks(data, at)
	if j >= len(data) || data[j] != '{' {
		return group{}, false
	}
	end := matchGroup(data, j)
	return group{
		action:  groupSpecial,
		keyword: keyword,
		special: kind,
		start:   j,
		end:     end,
		inner:   groupInner(data, j+1, end),
		resume:  end,
	}, true
}

// groupInner returns data[from:end] without the closing brace, if present.
func groupInner(data []byte, from, end int) []byte {
	if end > from && end <= len(data) && data[end-1] == '}' {
		end--
	}
	if from > end {
		return nil
	}
	return data[from:end]
}

func skipLineBreaks(data []byte, i int) int {
	for i < len(data) && (data[i] == '\r' || data[i] == '\n') {
		i++
	}
	return i
}

func skipBlanks(data []byte, i int) int {
	for i < len(data) && (data[i] == ' ' || data[i] == '\t' || data[i] == '\r' || data[i] == '\n') {
		i++
	}
	return i
}

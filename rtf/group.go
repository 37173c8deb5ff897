package rtf

import "bytes"

// matchGroup returns the offset just past the brace that closes the group
// opened at data[open]. Escaped braces and \binN payloads are not counted.
// An unclosed group extends to the end of data.
func matchGroup(data []byte, open int) int {
	depth := 0
	for i := open; i < len(data); i++ {
		switch data[i] {
		case '\\':
			i = skipControl(data, i)
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(data)
}

// skipControl returns the index of the last byte of the control sequence
// starting at data[i]. A \binN word also covers its N payload bytes.
func skipControl(data []byte, i int) int {
	if i+1 >= len(data) || !isLetter(data[i+1]) {
		return i + 1
	}
	cw := scanControlWord(data[i:])
	end := i + cw.Size - 1
	if cw.Name == "bin" && cw.Param > 0 {
		end += cw.Param
	}
	return end
}

// findDestination locates the first group introduced by keyword, written
// either as {\keyword or {\*\keyword. It returns the span of the whole
// group including its braces.
func findDestination(data []byte, keyword string) (start, end int, ok bool) {
	for _, prefix := range [][]byte{[]byte(`{\` + keyword), []byte(`{\*\` + keyword)} {
		from := 0
		for from < len(data) {
			i := bytes.Index(data[from:], prefix)
			if i < 0 {
				break
			}
			i += from
			after := i + len(prefix)
			if after >= len(data) || !isLetter(data[after]) {
				if !ok || i < start {
					start, end, ok = i, matchGroup(data, i), true
				}
				break
			}
			from = after
		}
	}
	return start, end, ok
}

// topLevelGroups returns the spans of the groups directly nested in body,
// where body is the content of a destination without its outer braces.
func topLevelGroups(body []byte) [][2]int {
	var spans [][2]int
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '{':
			end := matchGroup(body, i)
			spans = append(spans, [2]int{i, end})
			i = end - 1
		}
	}
	return spans
}

// stripNestedGroups keeps the outermost braces of entry and removes every
// group nested inside them. A control word left in front of a removed group
// gets a space so it does not run into the text that follows.
func stripNestedGroups(entry []byte) []byte {
	if len(entry) < 2 || entry[0] != '{' {
		return entry
	}
	inner := entry[1:]
	if inner[len(inner)-1] == '}' {
		inner = inner[:len(inner)-1]
	}
	out := make([]byte, 0, len(entry))
	out = append(out, '{')
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '\\':
			out = append(out, inner[i])
			if i+1 < len(inner) {
				i++
				out = append(out, inner[i])
			}
		case '{':
			if endsInControlWord(out) {
				out = append(out, ' ')
			}
			i = matchGroup(inner, i) - 1
		default:
			out = append(out, inner[i])
		}
	}
	return append(out, '}')
}

// endsInControlWord reports whether b ends with a control word that has no
// delimiter yet.
func endsInControlWord(b []byte) bool {
	i := len(b)
	for i > 0 && isDigit(b[i-1]) {
		i--
	}
	if i < len(b) && i > 0 && b[i-1] == '-' {
		i--
	}
	letters := i
	for i > 0 && isLetter(b[i-1]) {
		i--
	}
	return i < letters && i > 0 && b[i-1] == '\\'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

package rtf

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Info holds the document metadata of the \info destination and the
// \*\generator comment.
type Info struct {
	Title    string
	Subject  string
	Author   string
	Operator string
	Manager  string
	Company  string
	Category string
	Keywords string
	Comment  string

	Generator string

	Created time.Time
	Revised time.Time

	Pages int
	Words int
}

// IsEmpty reports whether no metadata was found.
func (i Info) IsEmpty() bool {
	return i == Info{}
}

// ExtractInfo reads the first \info group and the generator comment of
// data. dec decodes \'hh escapes.
func ExtractInfo(data []byte, dec ByteDecoder) Info {
	var info Info
	if dec == nil {
		dec = Latin1
	}
	if start, end, ok := findDestination(data, "generator"); ok {
		body := destinationBody(data[start:end], "generator")
		info.Generator = strings.TrimSuffix(groupText(body, dec), ";")
	}
	start, end, ok := findDestination(data, "info")
	if !ok {
		return info
	}
	body := destinationBody(data[start:end], "info")
	for _, span := range topLevelGroups(body) {
		g := body[span[0]:span[1]]
		inner := groupInner(g, 1, len(g))
		i := 0
		if len(inner) > 1 && inner[0] == '\\' && inner[1] == '*' {
			i = 2
		}
		if i+1 >= len(inner) || inner[i] != '\\' || !isLetter(inner[i+1]) {
			continue
		}
		cw := scanControlWord(inner[i:])
		rest := inner[i+cw.Size:]
		switch cw.Name {
		case "title":
			info.Title = groupText(rest, dec)
		case "subject":
			info.Subject = groupText(rest, dec)
		case "author":
			info.Author = groupText(rest, dec)
		case "operator":
			info.Operator = groupText(rest, dec)
		case "manager":
			info.Manager = groupText(rest, dec)
		case "company":
			info.Company = groupText(rest, dec)
		case "category":
			info.Category = groupText(rest, dec)
		case "keywords":
			info.Keywords = groupText(rest, dec)
		case "doccomm":
			info.Comment = groupText(rest, dec)
		case "creatim":
			info.Created = infoTime(rest)
		case "revtim":
			info.Revised = infoTime(rest)
		case "nofpages":
			info.Pages = cw.Param
		case "nofwords":
			info.Words = cw.Param
		}
	}
	return info
}

// infoTime reads the \yr \mo \dy \hr \min \sec words of a time group.
func infoTime(b []byte) time.Time {
	var yr, mo, dy, hr, mi, sec int
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) || !isLetter(b[i+1]) {
			continue
		}
		cw := scanControlWord(b[i:])
		i += cw.Size - 1
		switch cw.Name {
		case "yr":
			yr = cw.Param
		case "mo":
			mo = cw.Param
		case "dy":
			dy = cw.Param
		case "hr":
			hr = cw.Param
		case "min":
			mi = cw.Param
		case "sec":
			sec = cw.Param
		}
	}
	if yr == 0 {
		return time.Time{}
	}
	if mo == 0 {
		mo = 1
	}
	if dy == 0 {
		dy = 1
	}
	return time.Date(yr, time.Month(mo), dy, hr, mi, sec, 0, time.UTC)
}

// groupText decodes the text of an RTF fragment: escapes are resolved,
// control words and braces dropped.
func groupText(b []byte, dec ByteDecoder) string {
	var sb strings.Builder
	skip := 0
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == '{' || c == '}' || c == '\r' || c == '\n':
		case c == '\\' && i+1 < len(b):
			next := b[i+1]
			switch {
			case next == '\'' && i+3 < len(b):
				hi, ok1 := hexValue(b[i+2])
				lo, ok2 := hexValue(b[i+3])
				i += 3
				if skip > 0 {
					skip--
					continue
				}
				if ok1 && ok2 {
					sb.WriteRune(dec.DecodeByte(hi<<4 | lo))
				}
			case isLetter(next):
				cw := scanControlWord(b[i:])
				i += cw.Size - 1
				if cw.Name == "u" && cw.HasParam {
					sb.WriteRune(unicodeParam(cw.Param))
					skip = 1
				}
			case next == '~':
				sb.WriteRune('\u00a0')
				i++
			case next == '\\' || next == '{' || next == '}':
				sb.WriteByte(next)
				i++
			default:
				i++
			}
		default:
			if skip > 0 {
				skip--
				continue
			}
			r, size := utf8.DecodeRune(b[i:])
			sb.WriteRune(r)
			i += size - 1
		}
	}
	return strings.TrimSpace(sb.String())
}

// unicodeParam maps a \uN parameter to a rune. Negative values address the
// upper half of the 16-bit range; anything outside it is '?'.
func unicodeParam(n int) rune {
	if n < -0x8000 || n > 0xffff {
		return '?'
	}
	if n < 0 {
		n += 0x10000
	}
	return rune(n)
}

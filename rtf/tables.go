package rtf

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FontTableEntry is one font declared in the \fonttbl destination.
type FontTableEntry struct {
	ID   int
	Name string // empty when no name could be extracted

	Family  string // nil, roman, swiss, modern, script, decor, tech or bidi
	Charset int    // \fcharsetN, 0 when absent
}

// FontTable maps font ids to their entries. It is built once by
// ExtractFontTable and never modified afterwards.
type FontTable struct {
	entries []FontTableEntry
	index   map[int]int
}

func newFontTable() *FontTable {
	return &FontTable{index: make(map[int]int)}
}

// add stores e. A repeated id replaces the earlier entry in place.
func (t *FontTable) add(e FontTableEntry) {
	if i, ok := t.index[e.ID]; ok {
		t.entries[i] = e
		return
	}
	t.index[e.ID] = len(t.entries)
	t.entries = append(t.entries, e)
}

// Name returns the name of font id. known is false when the id is not in
// the table, in which case name is empty.
func (t *FontTable) Name(id int) (name string, known bool) {
	e, ok := t.Lookup(id)
	return e.Name, ok
}

// Lookup returns the entry for font id.
func (t *FontTable) Lookup(id int) (FontTableEntry, bool) {
	if t == nil {
		return FontTableEntry{}, false
	}
	i, ok := t.index[id]
	if !ok {
		return FontTableEntry{}, false
	}
	return t.entries[i], true
}

// Entries returns a copy of the entries in declaration order.
func (t *FontTable) Entries() []FontTableEntry {
	if t == nil {
		return nil
	}
	out := make([]FontTableEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of fonts.
func (t *FontTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

var (
	reFontID      = regexp.MustCompile(`\\f(\d+)`)
	reFontCharset = regexp.MustCompile(`\\fcharset(\d+)`)
	reFontFamily  = regexp.MustCompile(`\\f(nil|roman|swiss|modern|script|decor|tech|bidi)\b`)
	rePlainName   = regexp.MustCompile(` ([^\\;]+);`)
)

// ExtractFontTable builds the font table from the first \fonttbl group of
// data, using the name extraction rule selected by v. A document without a
// font table yields an empty table.
func ExtractFontTable(data []byte, v Variant) *FontTable {
	table := newFontTable()
	start, end, ok := findDestination(data, "fonttbl")
	if !ok {
		return table
	}
	body := destinationBody(data[start:end], "fonttbl")
	for _, entry := range fontEntries(body) {
		e, ok := parseFontEntry(entry, v)
		if !ok {
			continue
		}
		table.add(e)
	}
	tracer().Debugf("font table: %d entries (%s)", table.Len(), v)
	return table
}

// fontEntries splits a font table body into entries in declaration order.
// Fonts declared without a group of their own are split on ';', also when
// they sit between grouped entries.
func fontEntries(body []byte) [][]byte {
	var entries [][]byte
	flat := func(text []byte) {
		for _, part := range bytes.Split(text, []byte{';'}) {
			if len(bytes.TrimSpace(part)) == 0 {
				continue
			}
			entries = append(entries, append(part[:len(part):len(part)], ';'))
		}
	}
	from := 0
	for _, s := range topLevelGroups(body) {
		flat(body[from:s[0]])
		entries = append(entries, body[s[0]:s[1]])
		from = s[1]
	}
	flat(body[from:])
	return entries
}

func parseFontEntry(entry []byte, v Variant) (FontTableEntry, bool) {
	bare := stripNestedGroups(entry)
	m := reFontID.FindSubmatch(bare)
	if m == nil {
		return FontTableEntry{}, false
	}
	id, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return FontTableEntry{}, false
	}
	e := FontTableEntry{ID: id}
	if m := reFontCharset.FindSubmatch(bare); m != nil {
		e.Charset, _ = strconv.Atoi(string(m[1]))
	}
	if m := reFontFamily.FindSubmatch(bare); m != nil {
		e.Family = string(m[1])
	}
	if v == VariantExtended {
		e.Name = extendedFontName(bare, e.Charset)
	} else {
		e.Name = plainFontName(entry, e.Charset)
	}
	return e, true
}

// plainFontName takes the text after a space that holds no backslash, up to
// ';'. Nested groups count as a space. Names written with escapes fall back
// to the extended rule.
func plainFontName(entry []byte, charset int) string {
	spaced := replaceNestedGroups(entry, ' ')
	if m := rePlainName.FindSubmatch(spaced); m != nil {
		if name := strings.TrimSpace(string(m[1])); name != "" {
			return name
		}
	}
	return extendedFontName(stripNestedGroups(entry), charset)
}

// extendedFontName strips control words and braces from an entry whose
// nested groups are already removed, decodes \'hh escapes in the font's
// charset and returns the text before ';'.
func extendedFontName(bare []byte, charset int) string {
	raw := make([]byte, 0, len(bare))
	for i := 0; i < len(bare); i++ {
		c := bare[i]
		switch {
		case c == '{' || c == '}':
		case c == '\\' && i+1 < len(bare):
			next := bare[i+1]
			switch {
			case next == '\'':
				if i+3 < len(bare) {
					hi, ok1 := hexValue(bare[i+2])
					lo, ok2 := hexValue(bare[i+3])
					if ok1 && ok2 {
						raw = append(raw, hi<<4|lo)
						i += 3
						continue
					}
				}
				i++
			case isLetter(next):
				i += scanControlWord(bare[i:]).Size - 1
			case next == '\\' || next == '{' || next == '}':
				raw = append(raw, next)
				i++
			default:
				i++
			}
		default:
			raw = append(raw, c)
		}
	}
	if j := bytes.IndexByte(raw, ';'); j >= 0 {
		raw = raw[:j]
	}
	return strings.TrimSpace(decodeCharset(raw, charset))
}

// replaceNestedGroups replaces every group nested inside entry with sep.
func replaceNestedGroups(entry []byte, sep byte) []byte {
	if len(entry) < 2 || entry[0] != '{' {
		return entry
	}
	out := make([]byte, 0, len(entry))
	out = append(out, '{')
	for i := 1; i < len(entry); i++ {
		switch entry[i] {
		case '\\':
			out = append(out, entry[i])
			if i+1 < len(entry) {
				i++
				out = append(out, entry[i])
			}
		case '{':
			out = append(out, sep)
			i = matchGroup(entry, i) - 1
		default:
			out = append(out, entry[i])
		}
	}
	return out
}

// destinationBody returns the content of a destination group without its
// braces and without the introducing \*\keyword.
func destinationBody(group []byte, keyword string) []byte {
	body := group
	if len(body) > 0 && body[0] == '{' {
		body = body[1:]
	}
	if len(body) > 0 && body[len(body)-1] == '}' {
		body = body[:len(body)-1]
	}
	body = bytes.TrimPrefix(body, []byte(`\*`))
	body = bytes.TrimPrefix(body, []byte(`\`+keyword))
	return body
}

// ColorTableEntry is one colour of the \colortbl destination.
type ColorTableEntry struct {
	Red, Green, Blue uint8
}

// Hex returns the colour as #rrggbb.
func (c ColorTableEntry) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red, c.Green, c.Blue)
}

// ColorTable lists colours by index.
type ColorTable []ColorTableEntry

// Color returns the colour at index.
func (t ColorTable) Color(index int) (ColorTableEntry, bool) {
	if index < 0 || index >= len(t) {
		return ColorTableEntry{}, false
	}
	return t[index], true
}

var (
	reRed   = regexp.MustCompile(`\\red(\d+)`)
	reGreen = regexp.MustCompile(`\\green(\d+)`)
	reBlue  = regexp.MustCompile(`\\blue(\d+)`)
)

// ExtractColorTable builds the colour table from the first \colortbl group
// of data. Entries without any of \red, \green and \blue are skipped.
func ExtractColorTable(data []byte) ColorTable {
	start, end, ok := findDestination(data, "colortbl")
	if !ok {
		return nil
	}
	body := destinationBody(data[start:end], "colortbl")
	var table ColorTable
	for _, part := range bytes.Split(body, []byte{';'}) {
		r, okR := colorComponent(reRed, part)
		g, okG := colorComponent(reGreen, part)
		b, okB := colorComponent(reBlue, part)
		if !okR && !okG && !okB {
			continue
		}
		table = append(table, ColorTableEntry{Red: r, Green: g, Blue: b})
	}
	return table
}

func colorComponent(re *regexp.Regexp, part []byte) (uint8, bool) {
	m := re.FindSubmatch(part)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, false
	}
	if n > 255 {
		n = 255
	}
	return uint8(n), true
}

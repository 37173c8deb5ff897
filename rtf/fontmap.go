package rtf

// Direction is the directionality context selected by \ltrch and \rtlch.
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

func (d Direction) String() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

// Charset is the charset context selected by \loch, \hich and \dbch.
type Charset int

const (
	LowByte Charset = iota
	HighByte
	DoubleByte
)

func (c Charset) String() string {
	switch c {
	case HighByte:
		return "hich"
	case DoubleByte:
		return "dbch"
	default:
		return "loch"
	}
}

// FontMap holds the effective font id for every combination of
// directionality and charset context.
//
// It is a value type; copying a FontMap copies all six slots.
type FontMap [2][3]int

// NewFontMap returns a map with every slot set to id.
func NewFontMap(id int) FontMap {
	var m FontMap
	m.Fill(id)
	return m
}

// Fill sets every slot to id.
func (m *FontMap) Fill(id int) {
	for d := range m {
		for c := range m[d] {
			m[d][c] = id
		}
	}
}

// Select writes id into the slot for (dir, cs). The later write for a slot
// wins, regardless of which control word selected the font.
func (m *FontMap) Select(dir Direction, cs Charset, id int) {
	m[dir][cs] = id
}

// Resolve returns the font id in effect for (dir, cs).
func (m FontMap) Resolve(dir Direction, cs Charset) int {
	return m[dir][cs]
}

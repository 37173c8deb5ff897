package rtf

import "strconv"

// maxWordLen caps the letters of a control word; longer sequences are cut
// and the remainder reads as text.
const maxWordLen = 32

// controlWord is one lexed \letters[-digits][ ] sequence.
type controlWord struct {
	Name     string
	Param    int
	HasParam bool
	Size     int // bytes consumed, including the backslash and a delimiting space
}

// scanControlWord lexes the control word at the start of b, which must be a
// backslash followed by a letter.
func scanControlWord(b []byte) controlWord {
	i := 1
	for i < len(b) && i <= maxWordLen && isLetter(b[i]) {
		i++
	}
	cw := controlWord{Name: string(b[1:i])}
	j := i
	if j < len(b) && b[j] == '-' && j+1 < len(b) && isDigit(b[j+1]) {
		j++
	}
	k := j
	for k < len(b) && isDigit(b[k]) {
		k++
	}
	if k > j {
		cw.HasParam = true
		cw.Param = parseParam(b[i:k])
		i = k
	}
	if i < len(b) && b[i] == ' ' {
		i++
	}
	cw.Size = i
	return cw
}

// parseParam converts a signed decimal parameter, saturating at the int32
// range RTF allows.
func parseParam(digits []byte) int {
	n, err := strconv.ParseInt(string(digits), 10, 32)
	if err != nil {
		if len(digits) > 0 && digits[0] == '-' {
			return -1 << 31
		}
		return 1<<31 - 1
	}
	return int(n)
}

// param returns the parameter or def when the word carries none.
func (cw controlWord) param(def int) int {
	if cw.HasParam {
		return cw.Param
	}
	return def
}

// stateWords are the control words that change attribution. Literal
// escapes look ahead across them so that the literal is attributed to the
// state they establish.
var stateWords = map[string]bool{
	"ltrch": true,
	"rtlch": true,
	"loch":  true,
	"hich":  true,
	"dbch":  true,
	"f":     true,
	"af":    true,
	"fs":    true,
}

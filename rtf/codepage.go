package rtf

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// ByteDecoder maps the byte value of a \'HH escape to a rune.
type ByteDecoder interface {
	DecodeByte(b byte) rune
}

// Latin1 is the default decoder for \'HH escapes. It maps every byte to the
// code point of the same value, which keeps the raw glyph index that legacy
// font encodings depend on.
var Latin1 ByteDecoder = charmap.ISO8859_1

// ansiCodePages lists the single-byte code pages selectable with \ansicpgN.
var ansiCodePages = map[int]*charmap.Charmap{
	437:   charmap.CodePage437,
	850:   charmap.CodePage850,
	852:   charmap.CodePage852,
	866:   charmap.CodePage866,
	874:   charmap.Windows874,
	1250:  charmap.Windows1250,
	1251:  charmap.Windows1251,
	1252:  charmap.Windows1252,
	1253:  charmap.Windows1253,
	1254:  charmap.Windows1254,
	1255:  charmap.Windows1255,
	1256:  charmap.Windows1256,
	1257:  charmap.Windows1257,
	1258:  charmap.Windows1258,
	10000: charmap.Macintosh,
}

// CodePage returns the decoder for an \ansicpg value. Unsupported values
// yield Latin1 and false.
func CodePage(cp int) (ByteDecoder, bool) {
	if cm, ok := ansiCodePages[cp]; ok {
		return cm, true
	}
	return Latin1, false
}

// fontCharsets maps \fcharsetN values to the encoding used for the bytes of
// a font name.
var fontCharsets = map[int]encoding.Encoding{
	0:   charmap.Windows1252,
	77:  charmap.Macintosh,
	128: japanese.ShiftJIS,
	129: korean.EUCKR,
	134: simplifiedchinese.GBK,
	136: traditionalchinese.Big5,
	161: charmap.Windows1253,
	162: charmap.Windows1254,
	163: charmap.Windows1258,
	177: charmap.Windows1255,
	178: charmap.Windows1256,
	186: charmap.Windows1257,
	204: charmap.Windows1251,
	222: charmap.Windows874,
	238: charmap.Windows1250,
}

// decodeCharset converts raw bytes written under \fcharsetN to UTF-8.
// Unknown charsets and undecodable input fall back to Latin-1.
func decodeCharset(raw []byte, fcharset int) string {
	if enc, ok := fontCharsets[fcharset]; ok {
		if out, err := enc.NewDecoder().Bytes(raw); err == nil {
			return string(out)
		}
	}
	rs := make([]rune, len(raw))
	for i, b := range raw {
		rs[i] = Latin1.DecodeByte(b)
	}
	return string(rs)
}

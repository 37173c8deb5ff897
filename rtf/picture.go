package rtf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"

	// Registered for DecodeConfig and Image.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// BlipFormat identifies the payload encoding of a \pict destination.
type BlipFormat int

const (
	BlipUnknown BlipFormat = iota
	BlipPNG
	BlipJPEG
	BlipEMF
	BlipWMF
	BlipMacPict
	BlipDIB    // device-independent bitmap, stored without a file header
	BlipBitmap // device-dependent bitmap
)

func (f BlipFormat) String() string {
	switch f {
	case BlipPNG:
		return "png"
	case BlipJPEG:
		return "jpeg"
	case BlipEMF:
		return "emf"
	case BlipWMF:
		return "wmf"
	case BlipMacPict:
		return "pict"
	case BlipDIB, BlipBitmap:
		return "bmp"
	default:
		return "unknown"
	}
}

// ErrUndecodablePicture is returned for metafile and unknown payloads.
var ErrUndecodablePicture = errors.New("rtf: picture format cannot be decoded")

// PictureData is the parsed content of a \pict destination.
type PictureData struct {
	Format BlipFormat

	// Width and Height come from \picw and \pich.
	Width, Height int
	// GoalWidth and GoalHeight are the requested size in twips.
	GoalWidth, GoalHeight int
	// ScaleX and ScaleY are percentages; 100 when not given.
	ScaleX, ScaleY int

	// Data is the decoded payload. DIB payloads are prefixed with a BMP file
	// header so that Data is a complete .bmp file.
	Data []byte
}

// Extension returns a file extension for the payload, without the dot.
func (p *PictureData) Extension() string {
	return p.Format.String()
}

// MimeType returns the media type of the payload.
func (p *PictureData) MimeType() string {
	switch p.Format {
	case BlipPNG:
		return "image/png"
	case BlipJPEG:
		return "image/jpeg"
	case BlipEMF:
		return "image/emf"
	case BlipWMF:
		return "image/wmf"
	case BlipDIB, BlipBitmap:
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// DecodeConfig reports the pixel dimensions and format name of raster
// payloads without decoding the whole image.
func (p *PictureData) DecodeConfig() (image.Config, string, error) {
	if !p.raster() {
		return image.Config{}, "", ErrUndecodablePicture
	}
	return image.DecodeConfig(bytes.NewReader(p.Data))
}

// Image decodes a raster payload.
func (p *PictureData) Image() (image.Image, error) {
	if !p.raster() {
		return nil, ErrUndecodablePicture
	}
	img, _, err := image.Decode(bytes.NewReader(p.Data))
	return img, err
}

func (p *PictureData) raster() bool {
	switch p.Format {
	case BlipPNG, BlipJPEG, BlipDIB, BlipBitmap, BlipUnknown:
		return len(p.Data) > 0
	}
	return false
}

// parsePicture reads the inner content of a \pict group: its control words
// set the format and sizes, hex digits (or a \bin run) form the payload.
func parsePicture(inner []byte) *PictureData {
	p := &PictureData{ScaleX: 100, ScaleY: 100}
	payload := make([]byte, 0, len(inner)/2)
	var nibble byte
	half := false
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case c == '{':
			i = matchGroup(inner, i) - 1
		case c == '\\' && i+1 < len(inner) && isLetter(inner[i+1]):
			cw := scanControlWord(inner[i:])
			i += cw.Size - 1
			if cw.Name == "bin" && cw.Param > 0 {
				n := cw.Param
				if i+1+n > len(inner) {
					n = len(inner) - i - 1
				}
				payload = append(payload, inner[i+1:i+1+n]...)
				i += n
				continue
			}
			p.apply(cw)
		case c == '\\':
			i++
		default:
			v, ok := hexValue(c)
			if !ok {
				continue
			}
			if half {
				payload = append(payload, nibble<<4|v)
			} else {
				nibble = v
			}
			half = !half
		}
	}
	if p.Format == BlipDIB {
		payload = withBMPHeader(payload)
	}
	p.Data = payload
	return p
}

func (p *PictureData) apply(cw controlWord) {
	switch cw.Name {
	case "pngblip":
		p.Format = BlipPNG
	case "jpegblip":
		p.Format = BlipJPEG
	case "emfblip":
		p.Format = BlipEMF
	case "wmetafile":
		p.Format = BlipWMF
	case "macpict":
		p.Format = BlipMacPict
	case "dibitmap":
		p.Format = BlipDIB
	case "wbitmap":
		p.Format = BlipBitmap
	case "picw":
		p.Width = cw.Param
	case "pich":
		p.Height = cw.Param
	case "picwgoal":
		p.GoalWidth = cw.Param
	case "pichgoal":
		p.GoalHeight = cw.Param
	case "picscalex":
		p.ScaleX = cw.param(100)
	case "picscaley":
		p.ScaleY = cw.param(100)
	}
}

const bmpFileHeaderSize = 14

// withBMPHeader prefixes a packed DIB with the BITMAPFILEHEADER a .bmp
// file needs.
func withBMPHeader(dib []byte) []byte {
	if len(dib) < 40 {
		return dib
	}
	infoSize := binary.LittleEndian.Uint32(dib[0:4])
	bitCount := binary.LittleEndian.Uint16(dib[14:16])
	colors := binary.LittleEndian.Uint32(dib[32:36])
	if colors == 0 && bitCount <= 8 {
		colors = 1 << bitCount
	}
	offset := bmpFileHeaderSize + infoSize + colors*4
	out := make([]byte, bmpFileHeaderSize, bmpFileHeaderSize+len(dib))
	out[0], out[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(out[2:6], uint32(bmpFileHeaderSize+len(dib)))
	binary.LittleEndian.PutUint32(out[10:14], offset)
	return append(out, dib...)
}

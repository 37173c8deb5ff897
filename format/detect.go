// Package format provides file format detection for the rtftext library.
package format

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for inputs that are not RTF, such as
// binary Word documents.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format represents a detected document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// RTF indicates a Rich Text Format document.
	RTF
	// DOC indicates a binary Microsoft Word (.doc) document.
	DOC
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case RTF:
		return "RTF"
	case DOC:
		return "DOC"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case RTF:
		return ".rtf"
	case DOC:
		return ".doc"
	default:
		return ""
	}
}

// Supported reports whether documents of this format can be parsed.
func (f Format) Supported() bool {
	return f == RTF
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".rtf":
		return RTF
	case ".doc":
		return DOC
	default:
		return Unknown
	}
}

var (
	rtfMagic = []byte(`{\rtf`)
	oleMagic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}
	utf8BOM  = []byte{0xef, 0xbb, 0xbf}
)

// DetectFromMagic checks file magic bytes to determine format.
// This provides more reliable detection than extension-based detection:
// many .doc files are RTF documents under another name.
func DetectFromMagic(data []byte) Format {
	if bytes.HasPrefix(data, oleMagic) {
		return DOC
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	data = bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(data, rtfMagic) {
		return RTF
	}
	return Unknown
}

// DetectFromReader inspects the first bytes of r to determine format.
func DetectFromReader(r io.ReaderAt) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}

// Resolve combines both detections: the magic bytes decide when they are
// conclusive, the extension otherwise.
func Resolve(filename string, data []byte) Format {
	if f := DetectFromMagic(data); f != Unknown {
		return f
	}
	return Detect(filename)
}

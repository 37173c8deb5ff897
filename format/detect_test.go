package format

import (
	"bytes"
	"errors"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{RTF, "RTF"},
		{DOC, "DOC"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{RTF, ".rtf"},
		{DOC, ".doc"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Supported(t *testing.T) {
	if !RTF.Supported() {
		t.Error("RTF should be supported")
	}
	if DOC.Supported() || Unknown.Supported() {
		t.Error("only RTF should be supported")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"document.rtf", RTF},
		{"document.RTF", RTF},
		{"document.Rtf", RTF},
		{"document.doc", DOC},
		{"document.DOC", DOC},
		{"document.docx", Unknown},
		{"document.txt", Unknown},
		{"document", Unknown},
		{"", Unknown},
		{"/path/to/file.rtf", RTF},
		{"/path/to/file.doc", DOC},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{
			name: "RTF magic bytes",
			data: []byte(`{\rtf1\ansi text}`),
			want: RTF,
		},
		{
			name: "RTF with leading whitespace",
			data: []byte("\r\n  {\\rtf1}"),
			want: RTF,
		},
		{
			name: "RTF with byte order mark",
			data: append([]byte{0xef, 0xbb, 0xbf}, []byte(`{\rtf1}`)...),
			want: RTF,
		},
		{
			name: "OLE compound file",
			data: []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1, 0x00},
			want: DOC,
		},
		{
			name: "truncated OLE header",
			data: []byte{0xd0, 0xcf, 0x11, 0xe0},
			want: Unknown,
		},
		{
			name: "empty data",
			data: []byte{},
			want: Unknown,
		},
		{
			name: "brace without rtf keyword",
			data: []byte(`{\pard}`),
			want: Unknown,
		},
		{
			name: "text file",
			data: []byte("Hello, World!"),
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_RTF(t *testing.T) {
	data := []byte(`{\rtf1 Hello}`)

	format, err := DetectFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != RTF {
		t.Errorf("DetectFromReader() = %v, want RTF", format)
	}
}

func TestDetectFromReader_Unknown(t *testing.T) {
	data := []byte("Hello, World! This is plain text.")

	format, err := DetectFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != Unknown {
		t.Errorf("DetectFromReader() = %v, want Unknown", format)
	}
}

type failingReaderAt struct{}

func (failingReaderAt) ReadAt([]byte, int64) (int, error) {
	return 0, errors.New("read failed")
}

func TestDetectFromReader_Error(t *testing.T) {
	if _, err := DetectFromReader(failingReaderAt{}); err == nil {
		t.Error("DetectFromReader() should return the read error")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     Format
	}{
		{"rtf named doc", "letter.doc", []byte(`{\rtf1}`), RTF},
		{"binary doc", "letter.doc", []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}, DOC},
		{"extension fallback", "notes.rtf", []byte("garbage"), RTF},
		{"unknown", "notes.txt", []byte("garbage"), Unknown},
	}

	for _, tt := range tests {
		if got := Resolve(tt.filename, tt.data); got != tt.want {
			t.Errorf("%s: Resolve() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

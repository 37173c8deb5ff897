package ocr

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/tsawler/rtftext/model"
)

func tracer() tracing.Trace {
	return tracing.Select("rtftext.ocr")
}

// PageSegMode represents page segmentation modes for OCR.
// These control how Tesseract analyzes the picture layout.
type PageSegMode int

// Page segmentation modes, numbered as in Tesseract.
const (
	PSM_OSD_ONLY               PageSegMode = 0  // Orientation and script detection only
	PSM_AUTO_OSD               PageSegMode = 1  // Automatic with OSD
	PSM_AUTO_ONLY              PageSegMode = 2  // Automatic, no OSD or OCR
	PSM_AUTO                   PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_COLUMN          PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5  // Single uniform block of vertically aligned text
	PSM_SINGLE_BLOCK           PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE            PageSegMode = 7  // Single text line
	PSM_SINGLE_WORD            PageSegMode = 8  // Single word
	PSM_CIRCLE_WORD            PageSegMode = 9  // Single word in a circle
	PSM_SINGLE_CHAR            PageSegMode = 10 // Single character
	PSM_SPARSE_TEXT            PageSegMode = 11 // Find as much text as possible
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12 // Sparse text with OSD
	PSM_RAW_LINE               PageSegMode = 13 // Treat image as single text line
)

// Valid reports whether m is one of the modes above.
func (m PageSegMode) Valid() bool {
	return m >= PSM_OSD_ONLY && m <= PSM_RAW_LINE
}

// Recognizer turns image bytes into text. *Client implements it.
type Recognizer interface {
	RecognizeImage(imageData []byte) (string, error)
}

// Engine is a Recognizer that can be configured and closed. *Client
// implements it.
type Engine interface {
	Recognizer
	SetLanguage(lang string) error
	SetPageSegMode(mode PageSegMode) error
	Close() error
}

// Recognizable reports whether Tesseract can read pictures of format f.
// Metafiles are vector drawings and are skipped.
func Recognizable(f model.ImageFormat) bool {
	switch f {
	case model.ImageFormatPNG, model.ImageFormatJPEG, model.ImageFormatBMP:
		return true
	}
	return false
}

// LabelImages sets the alt text of every recognizable picture of doc that
// has none yet. It returns the number of pictures labelled and the errors
// of the pictures that failed; a failure never stops the others.
func LabelImages(rec Recognizer, doc *model.Document) (int, []error) {
	var (
		labelled int
		errs     []error
	)
	for i, img := range doc.Images() {
		if img.AltText != "" || !Recognizable(img.Format) || len(img.Data) == 0 {
			continue
		}
		text, err := rec.RecognizeImage(img.Data)
		if err != nil {
			errs = append(errs, fmt.Errorf("picture %d: %w", i+1, err))
			continue
		}
		if text == "" {
			continue
		}
		img.AltText = text
		labelled++
	}
	tracer().Debugf("labelled %d pictures, %d failed", labelled, len(errs))
	return labelled, errs
}

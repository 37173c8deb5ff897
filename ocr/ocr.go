//go:build ocr

// Package ocr recognizes text in pictures embedded in RTF documents.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-bod
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	tracer().Debugf("tesseract %s", gosseract.Version())
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c != nil && c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeImage performs OCR on image data (PNG, JPEG, BMP, TIFF).
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages are given as a "+" separated string (e.g. "bod+eng").
func (c *Client) SetLanguage(lang string) error {
	if lang == "" {
		return nil
	}
	return c.client.SetLanguage(strings.Split(lang, "+")...)
}

// SetPageSegMode sets the page segmentation mode.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return c.client.SetPageSegMode(gosseract.PageSegMode(mode))
}

// Package extract reads catalog workbooks into sheets of row records.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/katalog/internal/models"
)

// ReadError indicates the bytes are not a readable catalog document.
type ReadError struct {
	Sheet string
	Err   error
}

func (e *ReadError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("read sheet %q: %v", e.Sheet, e.Err)
	}
	return fmt.Sprintf("read workbook: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Extractor turns catalog documents into workbooks.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ReadFile reads the document at path. It returns the raw bytes alongside the
// workbook so callers can fingerprint the loaded version.
func (e *Extractor) ReadFile(path string) (*models.Workbook, []byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xlsm" && ext != "" {
		return nil, nil, &ReadError{Err: fmt.Errorf("unsupported extension %q", ext)}
	}
	wb, err := e.Read(content)
	if err != nil {
		return nil, nil, err
	}
	return wb, content, nil
}

// Read parses document bytes. Each sheet's first non-empty row is its header row;
// every following non-blank row becomes a record keyed by those headers.
func (e *Extractor) Read(content []byte) (*models.Workbook, error) {
	return readExcel(content)
}

// Package ingest turns user input (literal text, a text/markdown file, a
// PDF, or a URL) into plain text ready for script generation.
package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"
)

type SourceType string

const (
	SourceURL    SourceType = "url"
	SourcePDF    SourceType = "pdf"
	SourceFile   SourceType = "file"
	SourceInline SourceType = "text"

	// maxInputSize is the maximum allowed size for input content (25 MB).
	maxInputSize = 25 * 1024 * 1024
)

func (s SourceType) String() string {
	return string(s)
}

// Content is extracted input ready for prompting.
type Content struct {
	Text      string
	Title     string
	Source    string
	Method    SourceType
	WordCount int
}

type Ingester interface {
	Ingest(ctx context.Context, source string) (*Content, error)
}

// DetectSource classifies an input string. Anything that is not a URL,
// a .pdf path, or an existing file is treated as literal topic text.
func DetectSource(input string) SourceType {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return SourceURL
	}
	if strings.HasSuffix(strings.ToLower(input), ".pdf") {
		return SourcePDF
	}
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		return SourceFile
	}
	return SourceInline
}

// Ingest extracts content from input using the detected source type.
func Ingest(ctx context.Context, input string) (*Content, error) {
	var ing Ingester
	switch DetectSource(input) {
	case SourceURL:
		ing = &URLIngester{}
	case SourcePDF:
		ing = &PDFIngester{}
	case SourceFile:
		ing = &FileIngester{}
	default:
		ing = &InlineIngester{}
	}
	return ing.Ingest(ctx, input)
}

// InlineIngester treats the input string itself as the content.
type InlineIngester struct{}

func (t *InlineIngester) Ingest(_ context.Context, source string) (*Content, error) {
	text := strings.TrimSpace(source)
	if text == "" {
		return nil, fmt.Errorf("empty input text")
	}
	return &Content{
		Text:      text,
		Title:     titleFromText(text, 80),
		Source:    "inline",
		Method:    SourceInline,
		WordCount: wordCount(text),
	}, nil
}

func wordCount(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inWord = false
		} else if !inWord {
			inWord = true
			count++
		}
	}
	return count
}

func titleFromText(text string, maxLen int) string {
	line := text
	if idx := strings.IndexByte(text, '\n'); idx > 0 {
		line = text[:idx]
	}
	line = strings.TrimSpace(line)
	if runes := []rune(line); len(runes) > maxLen {
		line = string(runes[:maxLen]) + "..."
	}
	if line == "" {
		return "Untitled"
	}
	return line
}

func validateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	if info.Size() > maxInputSize {
		return fmt.Errorf("%s is too large (%d MB, max %d MB)", path, info.Size()/(1024*1024), maxInputSize/(1024*1024))
	}
	return nil
}

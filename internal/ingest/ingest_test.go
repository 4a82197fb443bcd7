package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSource(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(existing, []byte("hello"), 0644))

	tests := []struct {
		input string
		want  SourceType
	}{
		{"https://example.com/article", SourceURL},
		{"http://example.com", SourceURL},
		{"document.pdf", SourcePDF},
		{"REPORT.PDF", SourcePDF},
		{existing, SourceFile},
		{"ordering coffee at a cafe", SourceInline},
		{filepath.Join(dir, "missing.txt"), SourceInline},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectSource(tt.input), tt.input)
	}
}

func TestInlineIngest(t *testing.T) {
	c, err := Ingest(context.Background(), "My trip to Busan\nIt was a great weekend by the sea.")
	require.NoError(t, err)
	assert.Equal(t, SourceInline, c.Method)
	assert.Equal(t, "My trip to Busan", c.Title)
	assert.Equal(t, 12, c.WordCount)
}

func TestInlineIngestEmpty(t *testing.T) {
	_, err := Ingest(context.Background(), "   \n  ")
	require.Error(t, err)
}

func TestFileIngest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "topic.txt")
	require.NoError(t, os.WriteFile(path, []byte("Cooking pasta\nBoil water first."), 0644))

	c, err := Ingest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, SourceFile, c.Method)
	assert.Equal(t, "Cooking pasta", c.Title)
	assert.Equal(t, "topic.txt", c.Source)
}

func TestFileIngestRejectsDirectory(t *testing.T) {
	ing := &FileIngester{}
	_, err := ing.Ingest(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestURLIngest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Test Article</title></head><body>
<article><h1>Test Article</h1>
<p>This is the first paragraph of the article with enough words to matter.</p>
<p>A second paragraph keeps the extractor happy and adds more text content here.</p>
</article></body></html>`))
	}))
	defer srv.Close()

	c, err := Ingest(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, SourceURL, c.Method)
	assert.Contains(t, c.Text, "first paragraph")
	assert.Greater(t, c.WordCount, 10)
}

func TestURLIngestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Ingest(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, wordCount(""))
	assert.Equal(t, 1, wordCount("hello"))
	assert.Equal(t, 3, wordCount("  one\ttwo\nthree  "))
}

func TestTitleFromText(t *testing.T) {
	assert.Equal(t, "First line", titleFromText("First line\nsecond", 80))
	assert.Equal(t, "Untitled", titleFromText("", 80))
	long := titleFromText("abcdefghij", 5)
	assert.Equal(t, "abcde...", long)
}

func TestTitleFromTextTruncatesOnRuneBoundary(t *testing.T) {
	korean := titleFromText("아침에 일어나서 커피를 마십니다", 5)
	assert.Equal(t, "아침에 일...", korean)
	assert.True(t, utf8.ValidString(korean))
}

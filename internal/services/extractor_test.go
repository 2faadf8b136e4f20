package services

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/idea-evaluator/internal/models"
)

// mockDescriber answers the vision description pass.
type mockDescriber struct {
	response     string
	err          error
	lastMimeType string
}

func (m *mockDescriber) DescribeMedia(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	m.lastMimeType = mimeType
	return m.response, m.err
}

func writeDocx(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(
		`<?xml version="1.0"?><w:document xmlns:w="ns"><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

func TestExtractFilePlainText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "line one\n\nline two\n")

	e := NewContentExtractor(nil, 1, time.Millisecond)
	file := e.ExtractFile(context.Background(), path)

	assert.Equal(t, models.ExtractionOK, file.ExtractionStatus)
	assert.Equal(t, models.ContentDocument, file.ContentType)
	assert.Equal(t, "line one\nline two", file.ExtractedText)
}

func TestExtractFileCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "metrics.csv", "metric,value\nusers,120\n")

	e := NewContentExtractor(nil, 1, time.Millisecond)
	file := e.ExtractFile(context.Background(), path)

	assert.Equal(t, models.ExtractionOK, file.ExtractionStatus)
	assert.Equal(t, models.ContentSpreadsheet, file.ContentType)
	assert.Contains(t, file.ExtractedText, "users\t120")
}

func TestExtractFileDocx(t *testing.T) {
	path := writeDocx(t, t.TempDir(), "pitch.docx",
		`<w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t> world</w:t></w:r></w:p><w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>`)

	e := NewContentExtractor(nil, 1, time.Millisecond)
	file := e.ExtractFile(context.Background(), path)

	require.Equal(t, models.ExtractionOK, file.ExtractionStatus)
	assert.Equal(t, models.ContentDocument, file.ContentType)
	assert.Equal(t, "Hello world\nSecond paragraph", file.ExtractedText)
}

func TestExtractFileVideoDescribed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.mp4", "fake video bytes")

	describer := &mockDescriber{response: `{"content":"Screen recording of the working app","content_type":"prototype"}`}
	e := NewContentExtractor(describer, 1, time.Millisecond)
	file := e.ExtractFile(context.Background(), path)

	require.Equal(t, models.ExtractionOK, file.ExtractionStatus)
	assert.Equal(t, models.ContentPrototype, file.ContentType)
	assert.Equal(t, "Screen recording of the working app", file.ExtractedText)
	assert.Equal(t, "video/mp4", describer.lastMimeType)
}

func TestExtractFileVideoNotPrototypeKeepsTag(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "talk.mov", "fake video bytes")

	describer := &mockDescriber{response: `{"content":"A person presenting slides","content_type":"document"}`}
	e := NewContentExtractor(describer, 1, time.Millisecond)
	file := e.ExtractFile(context.Background(), path)

	require.Equal(t, models.ExtractionOK, file.ExtractionStatus)
	assert.Equal(t, models.ContentVideo, file.ContentType)
}

func TestExtractFileVideoWithoutDescriberFails(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.mp4", "not really a video")

	e := NewContentExtractor(nil, 1, time.Millisecond)
	file := e.ExtractFile(context.Background(), path)

	assert.Equal(t, models.ExtractionFailed, file.ExtractionStatus)
	assert.Equal(t, models.ContentVideo, file.ContentType)
	assert.Empty(t, file.ExtractedText)
}

func TestExtractFileCorruptPDFContained(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.pdf", "this is not a pdf")

	e := NewContentExtractor(nil, 1, time.Millisecond)
	file := e.ExtractFile(context.Background(), path)

	assert.Equal(t, models.ExtractionFailed, file.ExtractionStatus)
	assert.Empty(t, file.ExtractedText)
}

func TestExtractFileImageDescribed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.png", "fake image bytes")

	describer := &mockDescriber{response: `{"content":"A working dashboard UI","content_type":"prototype"}`}
	e := NewContentExtractor(describer, 1, time.Millisecond)
	file := e.ExtractFile(context.Background(), path)

	require.Equal(t, models.ExtractionOK, file.ExtractionStatus)
	assert.Equal(t, models.ContentPrototype, file.ContentType)
	assert.Equal(t, "A working dashboard UI", file.ExtractedText)
}

func TestExtractFileImageWithoutDescriberFails(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.png", "fake image bytes")

	e := NewContentExtractor(nil, 1, time.Millisecond)
	file := e.ExtractFile(context.Background(), path)

	assert.Equal(t, models.ExtractionFailed, file.ExtractionStatus)
	assert.Equal(t, models.ContentUnknown, file.ContentType)
}

func TestExtractIdeaFiles(t *testing.T) {
	filesDir := t.TempDir()
	ideaDir := filepath.Join(filesDir, "IDEA-001")
	require.NoError(t, os.MkdirAll(ideaDir, 0755))

	writeFile(t, ideaDir, "a-notes.txt", "some notes")
	writeFile(t, ideaDir, "b-demo.mp4", "binary junk")

	e := NewContentExtractor(nil, 1, time.Millisecond)
	idea := &models.Idea{IdeaID: "IDEA-001"}
	e.ExtractIdeaFiles(context.Background(), idea, filesDir)

	require.Len(t, idea.AdditionalFiles, 2)
	assert.Equal(t, models.ExtractionOK, idea.AdditionalFiles[0].ExtractionStatus)
	assert.Equal(t, models.ExtractionFailed, idea.AdditionalFiles[1].ExtractionStatus)

	// Only successful extractions reach the consolidated content.
	assert.Contains(t, idea.ExtractedContent, "--- Content from a-notes.txt ---")
	assert.Contains(t, idea.ExtractedContent, "some notes")
	assert.NotContains(t, idea.ExtractedContent, "b-demo.mp4")
}

func TestExtractIdeaFilesMissingDirIsFine(t *testing.T) {
	e := NewContentExtractor(nil, 1, time.Millisecond)
	idea := &models.Idea{IdeaID: "IDEA-404"}
	e.ExtractIdeaFiles(context.Background(), idea, t.TempDir())

	assert.Empty(t, idea.AdditionalFiles)
	assert.Empty(t, idea.ExtractedContent)
}

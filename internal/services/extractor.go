package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"alfredoptarigan/idea-evaluator/internal/llm"
	"alfredoptarigan/idea-evaluator/internal/models"
)

// ContentExtractor converts heterogeneous additional files into normalized
// text plus a content-type tag. Text-bearing formats parse deterministically
// and locally; images and videos fall back to an LLM-assisted description
// pass. A failed file never aborts its siblings or the idea.
type ContentExtractor interface {
	ExtractFile(ctx context.Context, path string) models.AdditionalFile
	ExtractIdeaFiles(ctx context.Context, idea *models.Idea, filesDir string)
}

type contentExtractor struct {
	describer   llm.MediaDescriber
	prompts     *PromptBuilder
	maxAttempts int
	baseDelay   time.Duration
	logger      *zap.SugaredLogger
}

func NewContentExtractor(describer llm.MediaDescriber, maxAttempts int, baseDelay time.Duration) ContentExtractor {
	return &contentExtractor{
		describer:   describer,
		prompts:     NewPromptBuilder(),
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		logger:      zap.S().Named("extractor"),
	}
}

var imageMimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

var videoMimeTypes = map[string]string{
	".mp4": "video/mp4",
	".mov": "video/quicktime",
	".avi": "video/x-msvideo",
}

// ExtractIdeaFiles discovers files under <filesDir>/<idea_id>/, extracts
// each one, and consolidates the successful text onto the idea.
func (e *contentExtractor) ExtractIdeaFiles(ctx context.Context, idea *models.Idea, filesDir string) {
	idea.AdditionalFiles = nil
	idea.ExtractedContent = ""

	if filesDir == "" || idea.IdeaID == "" {
		return
	}

	ideaDir := filepath.Join(filesDir, idea.IdeaID)
	entries, err := os.ReadDir(ideaDir)
	if err != nil {
		if !os.IsNotExist(err) {
			e.logger.Warnf("cannot read files for idea %s: %v", idea.IdeaID, err)
		}
		return
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(ideaDir, entry.Name()))
	}
	sort.Strings(paths)

	var combined strings.Builder
	for _, path := range paths {
		file := e.ExtractFile(ctx, path)
		idea.AdditionalFiles = append(idea.AdditionalFiles, file)

		if file.ExtractionStatus == models.ExtractionOK && file.ExtractedText != "" {
			fmt.Fprintf(&combined, "--- Content from %s ---\n%s\n\n", filepath.Base(path), file.ExtractedText)
		}
	}

	idea.ExtractedContent = strings.TrimSpace(combined.String())
}

// ExtractFile processes one file. Failures are contained: the returned
// AdditionalFile carries extraction_status=failed and empty text.
func (e *contentExtractor) ExtractFile(ctx context.Context, path string) models.AdditionalFile {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))

	file := models.AdditionalFile{
		Reference:        name,
		ContentType:      contentTypeForExt(ext),
		ExtractionStatus: models.ExtractionOK,
	}

	var text string
	var err error

	switch ext {
	case ".pdf":
		text, err = extractPDF(path)
	case ".docx":
		text, err = extractDocx(path)
	case ".pptx":
		text, err = extractPptx(path)
	case ".xlsx":
		text, err = extractXlsx(path)
	case ".csv":
		text, err = extractCSV(path)
	case ".txt", ".md":
		text, err = extractPlainText(path)
	case ".jpg", ".jpeg", ".png", ".webp":
		var tag models.ContentType
		text, tag, err = e.describeFile(ctx, path, imageMimeTypes[ext], models.ContentDocument)
		if err == nil {
			file.ContentType = tag
		}
	case ".mp4", ".mov", ".avi":
		var tag models.ContentType
		text, tag, err = e.describeFile(ctx, path, videoMimeTypes[ext], models.ContentVideo)
		if err == nil {
			file.ContentType = tag
		}
	default:
		text, err = extractPlainText(path)
	}

	if err != nil {
		e.logger.Warnf("extraction failed for %s: %v", name, err)
		file.ExtractionStatus = models.ExtractionFailed
		file.ExtractedText = ""
		return file
	}

	file.ExtractedText = cleanText(text)
	return file
}

func contentTypeForExt(ext string) models.ContentType {
	switch ext {
	case ".pdf", ".docx", ".txt", ".md":
		return models.ContentDocument
	case ".xlsx", ".csv":
		return models.ContentSpreadsheet
	case ".pptx":
		return models.ContentSlideDeck
	case ".mp4", ".mov", ".avi":
		return models.ContentVideo
	default:
		return models.ContentUnknown
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest.
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}

	return text, nil
}

func extractXlsx(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "--- Sheet %s ---\n", sheet)
		for _, row := range rows {
			sb.WriteString(strings.Join(row, "\t"))
			sb.WriteString("\n")
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no content found in spreadsheet")
	}
	return text, nil
}

func extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to parse CSV: %w", err)
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid text")
	}
	return string(data), nil
}

type fileDescription struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

// describeFile runs the LLM-assisted description pass over media the
// pipeline cannot parse locally. Images and videos both go to the model as
// inline bytes; the model decides whether the file shows a prototype, and
// that tag drives the evaluation bonus downstream. Files not tagged
// prototype keep the fallback tag.
func (e *contentExtractor) describeFile(ctx context.Context, path, mimeType string, fallback models.ContentType) (string, models.ContentType, error) {
	if e.describer == nil {
		return "", models.ContentUnknown, fmt.Errorf("no vision-capable provider configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", models.ContentUnknown, fmt.Errorf("failed to read media file: %w", err)
	}

	prompt := e.prompts.BuildFileDescriptionPrompt(filepath.Base(path))

	var desc fileDescription
	err = llm.WithRetry(ctx, e.maxAttempts, e.baseDelay, func() error {
		response, genErr := e.describer.DescribeMedia(ctx, prompt, data, mimeType)
		if genErr != nil {
			return genErr
		}
		if parseErr := json.Unmarshal([]byte(extractJSON(response)), &desc); parseErr != nil {
			return fmt.Errorf("failed to parse description response: %w", parseErr)
		}
		if desc.Content == "" {
			return fmt.Errorf("empty description content")
		}
		return nil
	})
	if err != nil {
		return "", models.ContentUnknown, err
	}

	tag := fallback
	if strings.EqualFold(strings.TrimSpace(desc.ContentType), string(models.ContentPrototype)) {
		tag = models.ContentPrototype
	}

	return desc.Content, tag, nil
}

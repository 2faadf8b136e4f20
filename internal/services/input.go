package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/idea-evaluator/internal/models"
)

// Idea sheets use a fixed header vocabulary. Matching is case-insensitive
// and tolerant of spaces in place of underscores.
const (
	columnIdeaID        = "idea_id"
	columnIdeaTitle     = "idea_title"
	columnBriefSummary  = "brief_summary"
	columnChallenge     = "challenge_opportunity"
	columnNovelty       = "novelty_benefits_risks"
	columnResponsibleAI = "responsible_ai"
)

// LoadIdeas reads the idea list from an .xlsx or .csv file. Rows without an
// idea_id are skipped; every loaded idea starts in the pending state.
func LoadIdeas(path string) ([]models.Idea, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXlsxRows(path)
	case ".csv":
		rows, err = readCSVRows(path)
	default:
		return nil, fmt.Errorf("unsupported ideas file format: %s", path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("ideas file %s has no data rows", path)
	}

	cols := map[string]int{}
	for i, header := range rows[0] {
		cols[normalizeHeader(header)] = i
	}
	if _, ok := cols[columnIdeaID]; !ok {
		return nil, fmt.Errorf("ideas file %s is missing the %s column", path, columnIdeaID)
	}

	cell := func(row []string, column string) string {
		idx, ok := cols[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var ideas []models.Idea
	for _, row := range rows[1:] {
		id := cell(row, columnIdeaID)
		if id == "" {
			continue
		}
		ideas = append(ideas, models.Idea{
			IdeaID:        id,
			Title:         cell(row, columnIdeaTitle),
			Summary:       cell(row, columnBriefSummary),
			Challenge:     cell(row, columnChallenge),
			Novelty:       cell(row, columnNovelty),
			ResponsibleAI: cell(row, columnResponsibleAI),
			Status:        models.IdeaPending,
		})
	}

	return ideas, nil
}

func normalizeHeader(header string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
}

func readXlsxRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ideas spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("ideas spreadsheet %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read ideas spreadsheet: %w", err)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ideas file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ideas file: %w", err)
	}
	return rows, nil
}

// LoadRubric reads rubric items from a JSON file and validates them. An
// invalid rubric is a fatal job error: no idea gets processed against a
// rubric whose weights do not hold up.
func LoadRubric(path string) ([]models.RubricItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rubric file: %w", err)
	}

	var items []models.RubricItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse rubric file %s: %w", path, err)
	}

	if err := models.ValidateRubric(items); err != nil {
		return nil, err
	}
	return items, nil
}

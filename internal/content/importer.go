package content

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/repository"
)

// ImportResult summarises a vocab deck import.
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// Importer loads vocabulary decks from xlsx workbooks into the store.
// Expected columns: word, meaning, example, level. The first row is a
// header and is skipped. Re-running the same workbook updates in place.
type Importer struct {
	vocabRepo *repository.VocabRepository
}

// NewImporter creates a new vocab importer
func NewImporter(vocabRepo *repository.VocabRepository) *Importer {
	return &Importer{vocabRepo: vocabRepo}
}

// ImportFile imports every sheet in the workbook at path.
func (im *Importer) ImportFile(path string) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return im.importWorkbook(f)
}

func (im *Importer) importWorkbook(f *excelize.File) (*ImportResult, error) {
	result := &ImportResult{}

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}

		for i, row := range rows {
			if i == 0 {
				continue // header
			}
			result.TotalProcessed++

			entry, err := parseRow(row)
			if err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("%s row %d: %v", sheet, i+1, err))
				continue
			}

			if err := im.vocabRepo.UpsertEntry(entry); err != nil {
				return nil, fmt.Errorf("failed to store %q: %w", entry.Word, err)
			}
			result.Imported++
		}
	}

	return result, nil
}

func parseRow(row []string) (*models.VocabEntry, error) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	word := get(0)
	meaning := get(1)
	example := get(2)
	level := strings.ToLower(get(3))

	if word == "" {
		return nil, fmt.Errorf("word is empty")
	}
	if meaning == "" {
		return nil, fmt.Errorf("meaning is empty")
	}

	switch models.AcademyLevel(level) {
	case models.LevelFoundation, models.LevelBridge, models.LevelBeginner:
	default:
		return nil, fmt.Errorf("unknown level %q", level)
	}

	return &models.VocabEntry{
		// Deterministic id so repeated imports hit the same row.
		ID:      deckEntryID(word, level),
		Word:    word,
		Meaning: meaning,
		Example: example,
		Level:   models.AcademyLevel(level),
	}, nil
}

// deckEntryID derives a stable UUID from the word and level.
func deckEntryID(word, level string) string {
	name := strings.ToLower(word) + ":" + level
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

package repository

import (
	"fmt"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/database"
	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/models"
)

// VocabRepository handles database operations for the academy vocab decks
type VocabRepository struct {
	db *database.DB
}

// NewVocabRepository creates a new vocab repository
func NewVocabRepository(db *database.DB) *VocabRepository {
	return &VocabRepository{db: db}
}

// UpsertEntry inserts or refreshes a vocab entry. Deck imports re-run the
// same workbook, so the write must be idempotent.
func (r *VocabRepository) UpsertEntry(entry *models.VocabEntry) error {
	err := r.db.Upsert("vocab_entries",
		[]string{"id", "word", "meaning", "example", "level"},
		[]string{"id"},
		[]string{"word", "meaning", "example", "level"},
		entry.ID, entry.Word, entry.Meaning, entry.Example, string(entry.Level),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert vocab entry: %w", err)
	}
	return nil
}

// ListByLevel returns the vocab deck for an academy level
func (r *VocabRepository) ListByLevel(level models.AcademyLevel) ([]models.VocabEntry, error) {
	query := "SELECT id, word, meaning, example, level FROM vocab_entries WHERE level = ? ORDER BY word"
	rows, err := r.db.Query(query, string(level))
	if err != nil {
		return nil, fmt.Errorf("failed to query vocab entries: %w", err)
	}
	defer rows.Close()

	var entries []models.VocabEntry
	for rows.Next() {
		var entry models.VocabEntry
		var lvl string
		if err := rows.Scan(&entry.ID, &entry.Word, &entry.Meaning, &entry.Example, &lvl); err != nil {
			return nil, fmt.Errorf("failed to scan vocab entry: %w", err)
		}
		entry.Level = models.AcademyLevel(lvl)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CountByLevel returns the deck size for a level
func (r *VocabRepository) CountByLevel(level models.AcademyLevel) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM vocab_entries WHERE level = ?"
	if err := r.db.QueryRow(query, string(level)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count vocab entries: %w", err)
	}
	return count, nil
}

package domain

import (
	"strings"
	"time"
)

// Mood is the emotional state recorded with a journal entry.
type Mood string

const (
	MoodHappy   Mood = "Happy"
	MoodCalm    Mood = "Calm"
	MoodSad     Mood = "Sad"
	MoodAnxious Mood = "Anxious"
	MoodExcited Mood = "Excited"
)

// ParseMood normalizes a wire value to a Mood, case-insensitively.
func ParseMood(s string) (Mood, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "happy":
		return MoodHappy, true
	case "calm":
		return MoodCalm, true
	case "sad":
		return MoodSad, true
	case "anxious":
		return MoodAnxious, true
	case "excited":
		return MoodExcited, true
	}
	return "", false
}

// JournalEntry is a user-owned mood journal entry. Entries are append-only:
// there is no update path after creation.
type JournalEntry struct {
	ID        string
	UserID    string
	Date      time.Time
	Mood      Mood
	Content   string
	CreatedAt time.Time
}

// JournalEntryDTO is the wire shape of a JournalEntry.
type JournalEntryDTO struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Mood    Mood   `json:"mood"`
	Content string `json:"content"`
}

// ToJournalEntryDTO converts an entry to its wire shape.
func ToJournalEntryDTO(e JournalEntry) JournalEntryDTO {
	return JournalEntryDTO{
		ID:      e.ID,
		Date:    e.Date.UTC().Format(time.RFC3339),
		Mood:    e.Mood,
		Content: e.Content,
	}
}

// FromJournalEntryDTO converts a wire entry back to the internal shape.
func FromJournalEntryDTO(dto JournalEntryDTO) (JournalEntry, error) {
	date, err := time.Parse(time.RFC3339, dto.Date)
	if err != nil {
		return JournalEntry{}, err
	}
	return JournalEntry{
		ID:      dto.ID,
		Date:    date,
		Mood:    dto.Mood,
		Content: dto.Content,
	}, nil
}

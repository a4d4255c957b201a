package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"serene-api/domain"
)

type createJournalEntryRequest struct {
	Date    string `json:"date"`
	Mood    string `json:"mood" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (r createJournalEntryRequest) toEntry(userID string) (domain.JournalEntry, []FieldIssue) {
	var issues []FieldIssue
	if err := validate.Struct(r); err != nil {
		issues = fieldIssues(asValidationErrors(err))
	}

	mood, ok := domain.ParseMood(r.Mood)
	if r.Mood != "" && !ok {
		issues = append(issues, FieldIssue{Field: "mood", Message: "must be one of Happy, Calm, Sad, Anxious or Excited"})
	}

	now := time.Now().UTC()
	date := now
	if r.Date != "" {
		parsed, err := parseWireDate(r.Date)
		if err != nil {
			issues = append(issues, FieldIssue{Field: "date", Message: "must be an RFC 3339 date"})
		} else {
			date = parsed
		}
	}
	if len(issues) > 0 {
		return domain.JournalEntry{}, issues
	}

	return domain.JournalEntry{
		UserID:    userID,
		Date:      date,
		Mood:      mood,
		Content:   r.Content,
		CreatedAt: now,
	}, nil
}

func getJournal(store Storage, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return wrapHandler(http.MethodGet, "/api/journal", auth, logger, wrapOptions{}, func(c echo.Context, sess *Session) (any, int, error) {
		entries, err := store.ListEntries(c.Request().Context(), sess.UserID)
		if err != nil {
			return nil, 0, err
		}
		dtos := make([]domain.JournalEntryDTO, 0, len(entries))
		for _, e := range entries {
			dtos = append(dtos, domain.ToJournalEntryDTO(e))
		}
		return dtos, http.StatusOK, nil
	})
}

func postJournal(store Storage, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return wrapHandler(http.MethodPost, "/api/journal", auth, logger, wrapOptions{}, func(c echo.Context, sess *Session) (any, int, error) {
		var req createJournalEntryRequest
		if err := decodeBody(c, &req); err != nil {
			return nil, 0, err
		}
		entry, issues := req.toEntry(sess.UserID)
		if issues != nil {
			return nil, 0, errValidation(issues)
		}
		created, err := store.InsertEntry(c.Request().Context(), entry)
		if err != nil {
			return nil, 0, err
		}
		return domain.ToJournalEntryDTO(created), http.StatusCreated, nil
	})
}

package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"serene-api/domain"
)

func TestPostJournalCreated(t *testing.T) {
	store := &mockStore{}
	h := postJournal(store, userAuth(), testLogger())

	body := strings.NewReader(`{"mood":"happy","content":"Good day overall"}`)
	c, rec := newTestContext(t, http.MethodPost, "/api/journal", body)
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d, body %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Data domain.JournalEntryDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if env.Data.ID != "generated-entry-id" {
		t.Fatalf("unexpected entry id: %s", env.Data.ID)
	}
	if env.Data.Mood != domain.MoodHappy {
		t.Fatalf("mood not normalized: %s", env.Data.Mood)
	}
	if store.insertedEntry == nil || store.insertedEntry.UserID != "user-1" {
		t.Fatalf("entry not persisted under caller: %+v", store.insertedEntry)
	}
	if store.insertedEntry.Date.IsZero() {
		t.Fatalf("date not defaulted")
	}
}

func TestPostJournalInvalidMood(t *testing.T) {
	h := postJournal(&mockStore{}, userAuth(), testLogger())

	body := strings.NewReader(`{"mood":"furious","content":"Bad day"}`)
	c, rec := newTestContext(t, http.MethodPost, "/api/journal", body)
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	env := decodeErrorBody(t, rec.Body.Bytes())
	if env.Error.Code != codeValidation {
		t.Fatalf("unexpected code: %s", env.Error.Code)
	}
	if !strings.Contains(rec.Body.String(), `"mood"`) {
		t.Fatalf("details do not cite mood: %s", rec.Body.String())
	}
}

func TestPostJournalRequiresContent(t *testing.T) {
	h := postJournal(&mockStore{}, userAuth(), testLogger())

	c, rec := newTestContext(t, http.MethodPost, "/api/journal", strings.NewReader(`{"mood":"Calm"}`))
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"content"`) {
		t.Fatalf("details do not cite content: %s", rec.Body.String())
	}
}

func TestPostJournalExplicitDate(t *testing.T) {
	store := &mockStore{}
	h := postJournal(store, userAuth(), testLogger())

	body := strings.NewReader(`{"mood":"Calm","content":"Quiet evening","date":"2025-06-01"}`)
	c, rec := newTestContext(t, http.MethodPost, "/api/journal", body)
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d, body %s", rec.Code, rec.Body.String())
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !store.insertedEntry.Date.Equal(want) {
		t.Fatalf("unexpected date: %v", store.insertedEntry.Date)
	}
}

func TestGetJournalListsOwnEntries(t *testing.T) {
	store := &mockStore{entries: []domain.JournalEntry{{ID: "j1", UserID: "user-1", Mood: domain.MoodSad}}}
	h := getJournal(store, userAuth(), testLogger())

	c, rec := newTestContext(t, http.MethodGet, "/api/journal", nil)
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if store.lastUserID != "user-1" {
		t.Fatalf("listed for wrong user: %s", store.lastUserID)
	}

	var env struct {
		Data []domain.JournalEntryDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(env.Data) != 1 || env.Data[0].ID != "j1" {
		t.Fatalf("unexpected payload: %+v", env.Data)
	}
}

func TestGetJournalWithoutSession(t *testing.T) {
	h := getJournal(&mockStore{}, mockAuth{}, testLogger())
	c, rec := newTestContext(t, http.MethodGet, "/api/journal", nil)
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

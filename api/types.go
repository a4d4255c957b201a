package api

import (
	"context"
	"net/http"

	"serene-api/domain"
)

// Storage abstracts persistence for handlers.
type Storage interface {
	ListTasks(ctx context.Context, userID string) ([]domain.Task, error)
	InsertTask(ctx context.Context, task domain.Task) (domain.Task, error)
	UpdateTask(ctx context.Context, userID, id string, fields map[string]any) (bool, error)
	DeleteTask(ctx context.Context, userID, id string) (bool, error)
	ListEntries(ctx context.Context, userID string) ([]domain.JournalEntry, error)
	InsertEntry(ctx context.Context, entry domain.JournalEntry) (domain.JournalEntry, error)
	RewardCounts(ctx context.Context, userID string) (domain.RewardCounts, error)
	Ping(ctx context.Context) error
}

// Authenticator resolves the caller's session from a request. A nil session
// with a non-nil error means the request carries no usable identity.
type Authenticator interface {
	Resolve(r *http.Request) (*Session, error)
}

// Limiter admits or rejects a request for an identity under a quota.
type Limiter interface {
	Limit(ctx context.Context, identifier string, q Quota) (Result, error)
}

// Suggester produces AI-assisted content. Implementations are best-effort;
// route handlers substitute static fallbacks on any error.
type Suggester interface {
	SuggestSubtasks(ctx context.Context, task string) ([]string, error)
	JournalInsights(ctx context.Context, entries string) (string, error)
}

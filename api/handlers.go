package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// Options carries the collaborators Register wires into the routes.
type Options struct {
	Store   Storage
	Auth    Authenticator
	Issuer  *SessionResolver
	Limiter Limiter
	// Suggester may be nil; AI routes then serve their static fallbacks.
	Suggester     Suggester
	SecureCookies bool
	Logger        *log.Logger
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, opts Options) {
	store, auth, logger := opts.Store, opts.Auth, opts.Logger

	tasksLimit := RateLimitMiddleware(opts.Limiter, quotaTasks, auth, logger)
	journalLimit := RateLimitMiddleware(opts.Limiter, quotaJournal, auth, logger)
	rewardsLimit := RateLimitMiddleware(opts.Limiter, quotaRewards, auth, logger)
	defaultLimit := RateLimitMiddleware(opts.Limiter, quotaDefault, auth, logger)

	e.GET("/api/tasks", getTasks(store, auth, logger), tasksLimit)
	e.POST("/api/tasks", postTask(store, auth, logger), tasksLimit)
	e.PUT("/api/tasks/:id", putTask(store, auth, logger), tasksLimit)
	e.DELETE("/api/tasks/:id", deleteTask(store, auth, logger), tasksLimit)

	e.GET("/api/journal", getJournal(store, auth, logger), journalLimit)
	e.POST("/api/journal", postJournal(store, auth, logger), journalLimit)

	e.GET("/api/rewards", getRewards(store, auth, logger), rewardsLimit)

	e.GET("/api/affirmations", getAffirmation(logger), defaultLimit)

	e.POST("/api/auth/guest", postGuestSession(opts.Issuer, opts.SecureCookies, logger), defaultLimit)
	e.GET("/api/auth/guest", guestSessionNotAllowed(), defaultLimit)

	e.POST("/api/ai/subtasks", postSuggestSubtasks(opts.Suggester, auth, logger), defaultLimit)
	e.POST("/api/ai/insights", postJournalInsights(opts.Suggester, auth, logger), defaultLimit)

	e.GET("/healthz", healthz(store))
}

func healthz(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	}
}

package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"serene-api/ai"
)

type suggestSubtasksRequest struct {
	Task string `json:"task" validate:"required"`
}

type suggestSubtasksResponse struct {
	Subtasks []string `json:"subtasks"`
}

// postSuggestSubtasks asks the generative collaborator for subtask
// suggestions. Model failures are swallowed and replaced by the static
// fallback: the feature favors availability over correctness.
func postSuggestSubtasks(suggester Suggester, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return wrapHandler(http.MethodPost, "/api/ai/subtasks", auth, logger, wrapOptions{}, func(c echo.Context, sess *Session) (any, int, error) {
		var req suggestSubtasksRequest
		if err := decodeBody(c, &req); err != nil {
			return nil, 0, err
		}
		if err := validate.Struct(req); err != nil {
			return nil, 0, errValidation(fieldIssues(asValidationErrors(err)))
		}

		if suggester == nil {
			return suggestSubtasksResponse{Subtasks: ai.FallbackSubtasks()}, http.StatusOK, nil
		}
		subtasks, err := suggester.SuggestSubtasks(c.Request().Context(), req.Task)
		if err != nil {
			logger.Warnf("subtask suggestion failed, serving fallback: %v", err)
			subtasks = ai.FallbackSubtasks()
		}
		return suggestSubtasksResponse{Subtasks: subtasks}, http.StatusOK, nil
	})
}

type journalInsightsRequest struct {
	Entries string `json:"entries" validate:"required"`
}

type journalInsightsResponse struct {
	Insights string `json:"insights"`
}

func postJournalInsights(suggester Suggester, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return wrapHandler(http.MethodPost, "/api/ai/insights", auth, logger, wrapOptions{}, func(c echo.Context, sess *Session) (any, int, error) {
		var req journalInsightsRequest
		if err := decodeBody(c, &req); err != nil {
			return nil, 0, err
		}
		if err := validate.Struct(req); err != nil {
			return nil, 0, errValidation(fieldIssues(asValidationErrors(err)))
		}

		if suggester == nil {
			return journalInsightsResponse{Insights: ai.FallbackInsights()}, http.StatusOK, nil
		}
		insights, err := suggester.JournalInsights(c.Request().Context(), req.Entries)
		if err != nil {
			logger.Warnf("journal insights failed, serving fallback: %v", err)
			insights = ai.FallbackInsights()
		}
		return journalInsightsResponse{Insights: insights}, http.StatusOK, nil
	})
}

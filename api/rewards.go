package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"serene-api/domain"
)

type rewardStats struct {
	TasksCompleted int64 `json:"tasksCompleted"`
	JournalEntries int64 `json:"journalEntries"`
	TotalPoints    int64 `json:"totalPoints"`
	StreakDays     int   `json:"streakDays"`
}

type rewardsResponse struct {
	Achievements []domain.Achievement `json:"achievements"`
	Stats        rewardStats          `json:"stats"`
}

// getRewards derives achievement state from live aggregate counts on every
// read; nothing about unlock state is ever persisted.
func getRewards(store Storage, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return wrapHandler(http.MethodGet, "/api/rewards", auth, logger, wrapOptions{}, func(c echo.Context, sess *Session) (any, int, error) {
		counts, err := store.RewardCounts(c.Request().Context(), sess.UserID)
		if err != nil {
			return nil, 0, err
		}
		return rewardsResponse{
			Achievements: domain.UnlockAchievements(counts),
			Stats: rewardStats{
				TasksCompleted: counts.CompletedTasks,
				JournalEntries: counts.JournalEntries,
				TotalPoints:    domain.TotalPoints(counts),
				StreakDays:     counts.CompletedDays,
			},
		}, http.StatusOK, nil
	})
}

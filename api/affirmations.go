package api

import (
	"math/rand/v2"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"serene-api/domain"
)

type affirmationResponse struct {
	Affirmation string `json:"affirmation"`
	Index       int    `json:"index"`
	Total       int    `json:"total"`
}

// getAffirmation serves one pseudorandom affirmation from the fixed catalog.
// No authentication; responses are cacheable for an hour with a day of
// stale-while-revalidate.
func getAffirmation(logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		index := rand.IntN(len(domain.Affirmations))
		c.Response().Header().Set(echo.HeaderCacheControl, "public, s-maxage=3600, stale-while-revalidate=86400")
		return c.JSON(http.StatusOK, affirmationResponse{
			Affirmation: domain.Affirmations[index],
			Index:       index,
			Total:       len(domain.Affirmations),
		})
	}
}

package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

type guestSessionResponse struct {
	Success   bool   `json:"success"`
	GuestID   string `json:"guestId"`
	IsGuest   bool   `json:"isGuest"`
	ExpiresIn int    `json:"expiresIn"`
}

// postGuestSession mints a time-boxed anonymous identity: a signed token
// with a hard thirty-minute expiry, set as the session cookie so the rest of
// the application sees a guest-flagged session. The cookie Max-Age is a hint;
// the resolver's issued-at check is the authoritative bound.
func postGuestSession(issuer *SessionResolver, secureCookies bool, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if sess, err := issuer.Resolve(c.Request()); err == nil && sess != nil && !sess.IsGuest {
			return respondError(c, &apiError{
				Status:  http.StatusBadRequest,
				Code:    codeAlreadyAuthenticated,
				Message: "Already authenticated",
			})
		}

		guestID := "guest-" + uuid.NewString()
		token, err := issuer.IssueSession(guestID, "Guest User", true, guestSessionTTL)
		if err != nil {
			logger.Errorf("guest session: sign token: %v", err)
			return respondError(c, &apiError{
				Status:  http.StatusInternalServerError,
				Code:    codeInternal,
				Message: "Failed to create guest session",
			})
		}

		c.SetCookie(&http.Cookie{
			Name:     SessionCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(guestSessionTTL.Seconds()),
			HttpOnly: true,
			Secure:   secureCookies,
			SameSite: http.SameSiteLaxMode,
		})

		logger.WithField("guest_id", guestID).Info("guest session issued")
		return c.JSON(http.StatusOK, guestSessionResponse{
			Success:   true,
			GuestID:   guestID,
			IsGuest:   true,
			ExpiresIn: int(guestSessionTTL.Seconds()),
		})
	}
}

// guestSessionNotAllowed rejects reads of the issuance endpoint: minting a
// session is a side-effecting action, not something to GET.
func guestSessionNotAllowed() echo.HandlerFunc {
	return func(c echo.Context) error {
		return respondError(c, &apiError{
			Status:  http.StatusMethodNotAllowed,
			Code:    codeMethodNotAllowed,
			Message: "Use POST to create a guest session",
		})
	}
}

package api

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const maxRequestBody = 64 * 1024 // 64 KiB

type wrapOptions struct {
	// SkipAuth lets the route run without a session. The session is still
	// resolved best-effort so the handler can see one when present.
	SkipAuth bool
}

// resourceFunc is a route's core logic: it returns the success payload, the
// success status (0 means 200), or an error the wrapper maps to the taxonomy.
type resourceFunc func(c echo.Context, sess *Session) (any, int, error)

// wrapHandler is the cross-cutting request pipeline: request id, auth
// enforcement, success/error envelopes, and a single structured log line per
// request. Validation failures become 400s, unknown failures 500s with detail
// kept server-side.
func wrapHandler(method, route string, auth Authenticator, logger *log.Logger, opts wrapOptions, fn resourceFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		metrics, spanCtx := newRequestMetrics(c.Request().Context(), logger, method, route)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
		}

		requestID := c.Request().Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		metrics.SetRequestID(requestID)
		c.Response().Header().Set(echo.HeaderXRequestID, requestID)

		var loggedErr error
		defer func() {
			metrics.Log(c.Response().Status, loggedErr)
		}()

		sess, authErr := auth.Resolve(c.Request())
		if authErr != nil {
			sess = nil
		}
		if sess != nil {
			metrics.SetUserID(sess.UserID)
		}
		if !opts.SkipAuth && sess == nil {
			metrics.SetErrorStage("auth")
			return respondError(c, errUnauthorized())
		}

		payload, status, err := fn(c, sess)
		if err != nil {
			apiErr := mapError(err)
			switch apiErr.Code {
			case codeValidation:
				metrics.SetErrorStage("validation")
			case codeNotFound:
				metrics.SetErrorStage("not_found")
			case codeInternal:
				metrics.SetErrorStage("internal")
				loggedErr = err
				logger.WithFields(log.Fields{"request_id": requestID, "route": route}).Error(err)
			default:
				metrics.SetErrorStage(strings.ToLower(apiErr.Code))
			}
			return respondError(c, apiErr)
		}

		if status == 0 {
			status = http.StatusOK
		}
		return c.JSON(status, successEnvelope{Data: payload})
	}
}

func respondError(c echo.Context, e *apiError) error {
	return c.JSON(e.Status, envelope(e))
}

func mapError(err error) *apiError {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return errValidation(fieldIssues(verrs))
	}
	return &apiError{Status: http.StatusInternalServerError, Code: codeInternal, Message: "An unexpected error occurred"}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report issues against JSON field names, not Go struct fields.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func asValidationErrors(err error) validator.ValidationErrors {
	var verrs validator.ValidationErrors
	errors.As(err, &verrs)
	return verrs
}

func fieldIssues(verrs validator.ValidationErrors) []FieldIssue {
	issues := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, FieldIssue{Field: fe.Field(), Message: ruleMessage(fe)})
	}
	return issues
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "is too short"
	case "max":
		return "is too long"
	default:
		return "is invalid"
	}
}

// decodeBody reads a size-limited JSON request body. Unknown fields are
// tolerated; malformed JSON is a validation error.
func decodeBody(c echo.Context, dst any) error {
	lr := io.LimitReader(c.Request().Body, maxRequestBody)
	dec := sonic.ConfigStd.NewDecoder(lr)
	if err := dec.Decode(dst); err != nil {
		return errValidation([]FieldIssue{{Field: "body", Message: "invalid JSON body"}})
	}
	return nil
}

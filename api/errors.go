package api

import "net/http"

// Error taxonomy. Every client-visible failure carries one of these stable
// codes; anything unexpected collapses to INTERNAL_SERVER_ERROR with detail
// kept server-side.
const (
	codeUnauthorized         = "UNAUTHORIZED"
	codeValidation           = "VALIDATION_ERROR"
	codeNotFound             = "NOT_FOUND"
	codeRateLimited          = "RATE_LIMITED"
	codeInternal             = "INTERNAL_SERVER_ERROR"
	codeAlreadyAuthenticated = "ALREADY_AUTHENTICATED"
	codeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
)

// FieldIssue describes a single invalid input field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// apiError is a failure the client is allowed to see.
type apiError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *apiError) Error() string { return e.Message }

func errUnauthorized() *apiError {
	return &apiError{Status: http.StatusUnauthorized, Code: codeUnauthorized, Message: "Authentication required"}
}

func errValidation(issues []FieldIssue) *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: codeValidation, Message: "Invalid request data", Details: issues}
}

func errNotFound(message string) *apiError {
	return &apiError{Status: http.StatusNotFound, Code: codeNotFound, Message: message}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type successEnvelope struct {
	Data any `json:"data"`
}

func envelope(e *apiError) errorEnvelope {
	return errorEnvelope{Error: errorBody{Code: e.Code, Message: e.Message, Details: e.Details}}
}

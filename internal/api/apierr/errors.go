package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/dicestake/internal/model"
	"github.com/mcoot/dicestake/internal/services/auth"
	"github.com/mcoot/dicestake/internal/storage"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidGameID        = "INVALID_GAME_ID"
	CodeInvalidStake         = "INVALID_STAKE"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	CodeAccountNotFound      = "ACCOUNT_NOT_FOUND"
	CodeGameNotFound         = "GAME_NOT_FOUND"
	CodeGameCompleted        = "GAME_COMPLETED"
	CodeAlreadyJoined        = "ALREADY_JOINED"
	CodeSelfJoin             = "SELF_JOIN"
	CodeNoOpponent           = "NO_OPPONENT"
	CodeConflict             = "CONFLICT"
	CodeUsernameExists       = "USERNAME_EXISTS"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// Describe returns the code and message an error maps to
func Describe(err error) APIError {
	return toHTTPError(err).apiError
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Registry errors
	case errors.Is(err, model.ErrAuthenticationFailed):
		return &httpError{http.StatusUnauthorized, APIError{CodeAuthenticationFailed, "Caller is not authorized for this address"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrGameCompleted):
		return &httpError{http.StatusConflict, APIError{CodeGameCompleted, "Game already completed"}}
	case errors.Is(err, model.ErrInvalidGameID):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGameID, "Game ID must be a non-negative integer"}}
	case errors.Is(err, model.ErrInvalidStake), errors.Is(err, model.ErrStakeOutOfRange):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidStake, err.Error()}}
	case errors.Is(err, model.ErrAlreadyJoined):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyJoined, "Game already has a second player"}}
	case errors.Is(err, model.ErrSelfJoin):
		return &httpError{http.StatusConflict, APIError{CodeSelfJoin, "Creator cannot join their own game"}}
	case errors.Is(err, model.ErrNoOpponent):
		return &httpError{http.StatusConflict, APIError{CodeNoOpponent, "Game has no second player"}}
	case errors.Is(err, storage.ErrConflict):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Registry was modified concurrently, nothing was written"}}
	case errors.Is(err, model.ErrAccountNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAccountNotFound, "Account not found"}}

	// Auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

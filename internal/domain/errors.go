package domain

import (
	"errors"
	"net/http"
)

// Error codes surfaced to clients.
const (
	CodeMissingRepoURL      = "MISSING_REPO_URL"
	CodeInvalidRepoURL      = "INVALID_REPO_URL"
	CodeMissingGitHubToken  = "MISSING_GITHUB_TOKEN"
	CodeGitHubAPIError      = "GITHUB_API_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeMissingGeminiAPIKey = "MISSING_GEMINI_API_KEY"
	CodeGeminiAPIError      = "GEMINI_API_ERROR"
	CodeInvalidRequest      = "INVALID_REQUEST"
)

// Kind classifies a fatal error by whose fault it is.
type Kind string

const (
	KindInput         Kind = "input"
	KindConfiguration Kind = "configuration"
	KindUpstream      Kind = "upstream"
	KindInternal      Kind = "internal"
)

// Sentinels for errors.Is checks against *Error values.
var (
	ErrMissingReference  = errors.New("missing repository reference")
	ErrInvalidReference  = errors.New("invalid repository reference")
	ErrMissingCredential = errors.New("missing hosting provider credential")
	ErrUpstream          = errors.New("hosting provider request failed")
	ErrInternal          = errors.New("internal error")
)

// Error is a fatal, classified failure of a generate request.
// Message is safe to show to the user; Err carries the underlying cause.
type Error struct {
	Code    string
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel corresponding to the error code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMissingReference:
		return e.Code == CodeMissingRepoURL
	case ErrInvalidReference:
		return e.Code == CodeInvalidRepoURL
	case ErrMissingCredential:
		return e.Code == CodeMissingGitHubToken
	case ErrUpstream:
		return e.Code == CodeGitHubAPIError
	case ErrInternal:
		return e.Code == CodeInternalError
	}
	return false
}

// HTTPStatus maps the error kind to its status class.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInput:
		return http.StatusBadRequest
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Response returns the client-facing error body.
func (e *Error) Response() ErrorResponse {
	return ErrorResponse{Error: e.Message, Code: e.Code}
}

// NewInternalError wraps err as a generic internal failure. The cause is kept
// for logging but never shown to the client.
func NewInternalError(err error) *Error {
	return &Error{
		Code:    CodeInternalError,
		Kind:    KindInternal,
		Message: "Failed to generate README",
		Err:     err,
	}
}

// AsError classifies any error as *Error, treating unknown errors as internal.
func AsError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return NewInternalError(err)
}

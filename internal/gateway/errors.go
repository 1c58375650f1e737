package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"
)

// UpstreamError reports a failed call to the GitHub API.
// Status is 0 when no HTTP response was received.
type UpstreamError struct {
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("github request failed: %s", e.Body)
	}
	return fmt.Sprintf("github returned status %d: %s", e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// upstreamError converts errors from go-github into *UpstreamError.
func upstreamError(err error) error {
	var (
		errResp  *github.ErrorResponse
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		status   int
		message  string
	)
	switch {
	case errors.As(err, &errResp):
		status, message = statusOf(errResp.Response), errResp.Message
		if errResp.DocumentationURL != "" {
			message += " (" + errResp.DocumentationURL + ")"
		}
	case errors.As(err, &rateErr):
		status, message = statusOf(rateErr.Response), rateErr.Message
	case errors.As(err, &abuseErr):
		status, message = statusOf(abuseErr.Response), abuseErr.Message
	default:
		return &UpstreamError{Body: err.Error(), Err: err}
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &UpstreamError{Status: status, Body: message, Err: err}
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

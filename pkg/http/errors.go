package http

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when a provider answers with a non-2xx status.
type StatusError struct {
	Status int
	Body   string
	URL    string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("unexpected status %d from %s: %s", e.Status, e.URL, e.Body)
	}
	return fmt.Sprintf("unexpected status %d from %s", e.Status, e.URL)
}

// IsNotFound reports whether err carries a 404 status.
func IsNotFound(err error) bool {
	return HasStatus(err, http.StatusNotFound)
}

// HasStatus reports whether err is a *StatusError with the given status.
func HasStatus(err error, status int) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status == status
	}
	return false
}

// redactURL drops the query string, which may carry API keys.
func redactURL(req *http.Request) string {
	if req == nil || req.URL == nil {
		return ""
	}
	u := *req.URL
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

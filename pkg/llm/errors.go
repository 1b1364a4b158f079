package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is returned by HTTP based providers for non-200 responses.
type HTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s error: status %d, body: %s", e.Provider, e.StatusCode, e.Body)
}

type Notice string

const (
	NoticeNone          Notice = ""
	NoticeQuotaExceeded Notice = "quota_exceeded"
	NoticeFailed        Notice = "model_error"
)

// Classify maps a provider error to the notice shown to the user.
func Classify(err error) Notice {
	if err == nil {
		return NoticeNone
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
		return NoticeQuotaExceeded
	}
	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "ResourceExhausted") {
		return NoticeQuotaExceeded
	}
	return NoticeFailed
}

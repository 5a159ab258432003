package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes caps how much of an error response body is kept.
const maxBodyBytes = 64 * 1024

// Error is returned when a remote API answers with an unexpected status.
type Error struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d - %s", e.Op, e.StatusCode, body)
}

// CheckResponse returns an *Error when resp.StatusCode is not one of accepted.
// With no accepted codes any 2xx status passes. The body is consumed on failure.
func CheckResponse(op string, resp *http.Response, accepted ...int) error {
	if statusAccepted(resp.StatusCode, accepted) {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	return &Error{Op: op, StatusCode: resp.StatusCode, Body: string(data)}
}

func statusAccepted(code int, accepted []int) bool {
	if len(accepted) == 0 {
		return code >= 200 && code < 300
	}
	for _, c := range accepted {
		if c == code {
			return true
		}
	}
	return false
}

// StatusCode returns the status carried by a wrapped *Error, or 0.
func StatusCode(err error) int {
	var te *Error
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}

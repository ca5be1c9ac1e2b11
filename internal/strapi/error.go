package strapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is returned for any non-2xx CMS response.
type Error struct {
	StatusCode int
	Status     string
	// Message is the CMS-provided reason, when the body carried one.
	Message string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("strapi api error: %d %s", e.StatusCode, e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// ErrorEnvelope is the body Strapi sends with a failed request.
type ErrorEnvelope struct {
	Data  any        `json:"data"`
	Error *ErrorBody `json:"error"`
}

type ErrorBody struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func newError(res *http.Response) *Error {
	status := strings.TrimSpace(strings.TrimPrefix(res.Status, fmt.Sprint(res.StatusCode)))
	if status == "" {
		status = http.StatusText(res.StatusCode)
	}
	e := &Error{StatusCode: res.StatusCode, Status: status}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return e
	}
	var env ErrorEnvelope
	if json.Unmarshal(raw, &env) == nil && env.Error != nil {
		e.Message = env.Error.Message
	}
	return e
}

// StatusCode extracts the HTTP status of a CMS error, or 0 when err did not
// come from a CMS response.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the CMS.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

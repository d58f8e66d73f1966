package httputil

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 4 << 10

// CheckStatus classifies a response by status code. A 2xx response returns
// nil and leaves the body untouched; otherwise the body is read for an
// {"error": "..."} message and closed.
//
// 5xx and 429 responses come back wrapped in [RetryableError] so that
// [Retry] tries again. A 429 carries a [kgerrors.RateLimitedError] with the
// Retry-After delay when the server sent one.
func CheckStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}
	msg := errorMessage(resp.Body)
	resp.Body.Close()
	if msg == "" {
		msg = http.StatusText(code)
	}

	switch {
	case code == http.StatusTooManyRequests:
		retry, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &RetryableError{Err: &kgerrors.RateLimitedError{RetryAfter: retry, Message: msg}}
	case code >= 500:
		return &RetryableError{Err: kgerrors.New(kgerrors.ErrCodeNetwork, "status %d: %s", code, msg)}
	case code == http.StatusNotFound:
		return kgerrors.New(kgerrors.ErrCodeNotFound, "%s", msg)
	case code == http.StatusBadRequest:
		return kgerrors.New(kgerrors.ErrCodeInvalidQuery, "%s", msg)
	default:
		return kgerrors.New(kgerrors.ErrCodeNetwork, "status %d: %s", code, msg)
	}
}

func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}

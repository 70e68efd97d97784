package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"unicode/utf8"

	"gemini-relay/backend"
)

const (
	msgMethodNotAllowed = "Method Not Allowed"
	msgMissingAPIKey    = "API key is not configured on the server."
	msgInternal         = "An internal server error occurred."

	// maxUpstreamErrorLen caps raw upstream bodies echoed back to the caller.
	maxUpstreamErrorLen = 500
)

// ErrorResponse builds the {"error": msg} response.
func ErrorResponse(status int, msg string) *Response {
	body, _ := json.Marshal(ErrorBody{Error: msg})
	return &Response{
		StatusCode: status,
		Headers:    jsonHeaders(),
		Body:       body,
	}
}

func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

// transportMessage strips the *url.Error wrapper so the request URL, which
// carries the API key, never leaves the process.
func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgInternal
}

// upstreamErrorMessage extracts error.message from an upstream error body,
// falling back to the raw body truncated to maxUpstreamErrorLen characters.
func upstreamErrorMessage(status int, body []byte) string {
	var parsed backend.ErrorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}

	if len(body) == 0 {
		return fmt.Sprintf("Google API Error: %d %s", status, http.StatusText(status))
	}
	return truncate(string(body), maxUpstreamErrorLen)
}

// upstreamStatus keeps upstream error codes but maps anything that is not
// a 4xx/5xx to 502 so the caller never sees a success-looking error.
func upstreamStatus(status int) int {
	if status < 400 || status > 599 {
		return http.StatusBadGateway
	}
	return status
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// GenericLoginFailure is shown when the auth service rejects a login without saying why.
const GenericLoginFailure = "Invalid username or password"

// TransportError is a connection-level failure; no response was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-success response. Message is what the user should see.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// messageFromBody picks the server message out of an error body: a JSON
// "message" field, then the raw text, then fallback, then the status text.
// For JSON bodies without a message, a non-empty fallback wins over the raw text.
func messageFromBody(status int, body []byte, fallback string) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		if fallback != "" {
			return fallback
		}
		return http.StatusText(status)
	}
	var obj map[string]any
	if json.Unmarshal(body, &obj) == nil {
		for _, key := range []string{"message", "Message", "detail", "title"} {
			if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		if fallback != "" {
			return fallback
		}
		return text
	}
	var str string
	if bytes.HasPrefix(bytes.TrimSpace(body), []byte(`"`)) && json.Unmarshal(body, &str) == nil && str != "" {
		return str
	}
	return text
}

package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// FieldArticleURL is the form/JSON field carrying the submitted URL
const FieldArticleURL = "articleUrl"

// ValidationError represents a single field-level validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AsValidationError unwraps err into a *ValidationError if it is one
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// ValidateArticleURL checks that raw is an absolute http(s) URL with a host.
// It returns the trimmed URL on success.
func ValidateArticleURL(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", &ValidationError{Field: FieldArticleURL, Message: "URL is required"}
	}
	if strings.ContainsAny(value, " \t\r\n") {
		return "", &ValidationError{Field: FieldArticleURL, Message: "URL must not contain whitespace", Value: value}
	}

	u, err := url.Parse(value)
	if err != nil {
		return "", &ValidationError{Field: FieldArticleURL, Message: "invalid URL format", Value: value}
	}
	if u.Scheme == "" || u.Host == "" {
		return "", &ValidationError{Field: FieldArticleURL, Message: "please enter a valid URL including scheme and host", Value: value}
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return "", &ValidationError{Field: FieldArticleURL, Message: "URL scheme must be http or https", Value: value}
	}
	if u.Hostname() == "" {
		return "", &ValidationError{Field: FieldArticleURL, Message: "URL host is missing", Value: value}
	}

	return value, nil
}

// ValidateAPIKey checks a user-supplied summarizer key
func ValidateAPIKey(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", &ValidationError{Field: "apiKey", Message: "API key is required"}
	}
	if strings.ContainsAny(value, " \t\r\n") {
		return "", &ValidationError{Field: "apiKey", Message: "API key must not contain whitespace"}
	}
	return value, nil
}

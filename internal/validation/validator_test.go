package validation

import (
	"fmt"
	"testing"
)

func TestValidateArticleURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "https URL", input: "https://example.com/a", want: "https://example.com/a"},
		{name: "http URL with query", input: "http://example.com/post?id=1", want: "http://example.com/post?id=1"},
		{name: "surrounding whitespace trimmed", input: "  https://example.com/a \n", want: "https://example.com/a"},
		{name: "uppercase scheme", input: "HTTPS://example.com", want: "HTTPS://example.com"},
		{name: "host with port", input: "https://localhost:8080/x", want: "https://localhost:8080/x"},
		{name: "empty", input: "", wantErr: true},
		{name: "only whitespace", input: "   ", wantErr: true},
		{name: "no scheme", input: "not-a-url", wantErr: true},
		{name: "bare domain", input: "example.com/article", wantErr: true},
		{name: "scheme without host", input: "https://", wantErr: true},
		{name: "path only", input: "/relative/path", wantErr: true},
		{name: "unsupported scheme", input: "ftp://example.com/file", wantErr: true},
		{name: "mailto", input: "mailto:someone@example.com", wantErr: true},
		{name: "inner whitespace", input: "https://example.com/a b", wantErr: true},
		{name: "port only host", input: "http://:8080", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateArticleURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateArticleURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				vErr, ok := AsValidationError(err)
				if !ok {
					t.Fatalf("Expected *ValidationError, got %T", err)
				}
				if vErr.Field != FieldArticleURL {
					t.Errorf("Expected field %q, got %q", FieldArticleURL, vErr.Field)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ValidateArticleURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAsValidationError_Wrapped(t *testing.T) {
	_, err := ValidateArticleURL("not-a-url")
	wrapped := fmt.Errorf("submit: %w", err)

	vErr, ok := AsValidationError(wrapped)
	if !ok {
		t.Fatal("Expected wrapped validation error to be detected")
	}
	if vErr.Message == "" {
		t.Error("Expected a message for the inline field feedback")
	}
}

func TestValidateAPIKey(t *testing.T) {
	if _, err := ValidateAPIKey(""); err == nil {
		t.Error("Expected error for empty key")
	}
	if _, err := ValidateAPIKey("sk abc"); err == nil {
		t.Error("Expected error for key with whitespace")
	}
	got, err := ValidateAPIKey("  sk-123  ")
	if err != nil {
		t.Fatalf("ValidateAPIKey() error = %v", err)
	}
	if got != "sk-123" {
		t.Errorf("Expected trimmed key, got %q", got)
	}
}

package github

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// FileContent represents a file returned by the contents API.
type FileContent struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Size     int    `json:"size"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Content  string `json:"content"`
	SHA      string `json:"sha"`
	HTMLURL  string `json:"html_url,omitempty"`
}

// Decode returns the raw file bytes. GitHub wraps base64 content at 60 columns,
// so embedded newlines are stripped before decoding.
func (f *FileContent) Decode() ([]byte, error) {
	if f.Content == "" {
		return nil, nil
	}
	if f.Encoding != "" && f.Encoding != "base64" {
		return nil, fmt.Errorf("unsupported content encoding %q", f.Encoding)
	}
	clean := strings.NewReplacer("\n", "", "\r", "").Replace(f.Content)
	data, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to decode file content: %w", err)
	}
	return data, nil
}

// PutFileResponse is returned after a successful create/update.
type PutFileResponse struct {
	Content FileContent `json:"content"`
	Commit  Commit      `json:"commit"`
}

// Commit describes the commit created by a contents write.
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	HTMLURL string `json:"html_url,omitempty"`
}

// RateLimitResponse is the payload of GET /rate_limit.
type RateLimitResponse struct {
	Resources struct {
		Core RateLimit `json:"core"`
	} `json:"resources"`
	Rate RateLimit `json:"rate"`
}

// RateLimit is a single rate limit bucket.
type RateLimit struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
	Used      int   `json:"used"`
}

// errorBody is the JSON shape GitHub returns for failed requests.
type errorBody struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url,omitempty"`
	Errors           []any  `json:"errors,omitempty"`
}

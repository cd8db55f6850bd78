package github

// PutFileRequest is the body of PUT /repos/{owner}/{repo}/contents/{path}.
type PutFileRequest struct {
	Message string `json:"message"`
	Content string `json:"content"` // base64 encoded
	Branch  string `json:"branch,omitempty"`
	SHA     string `json:"sha,omitempty"` // required when updating an existing file
}

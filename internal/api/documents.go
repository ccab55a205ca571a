package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

type Document struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Author           string       `json:"author,omitempty"`
	Description      string       `json:"description,omitempty"`
	FileURL          string       `json:"fileUrl"`
	Series           string       `json:"series"`
	EducationLevel   string       `json:"educationLevel"`
	ProcessingStatus string       `json:"processingStatus"`
	Subjects         []SubjectRef `json:"subjects,omitempty"`
	CreatedAt        string       `json:"createdAt,omitempty"`
	UpdatedAt        string       `json:"updatedAt,omitempty"`
}

type SubjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DocumentParams struct {
	Title            string
	Series           string
	EducationLevel   string
	ProcessingStatus string
	SubjectID        string
}

// GetDocuments lists documents with optional filters. Unlike the other list
// endpoints this one returns a bare array, not a {data, meta} envelope.
func (c *Client) GetDocuments(ctx context.Context, params DocumentParams) ([]Document, error) {
	q := url.Values{}
	if params.Title != "" {
		q.Set("title", params.Title)
	}
	if params.Series != "" {
		q.Set("series", params.Series)
	}
	if params.EducationLevel != "" {
		q.Set("educationLevel", params.EducationLevel)
	}
	if params.ProcessingStatus != "" {
		q.Set("processingStatus", params.ProcessingStatus)
	}
	if params.SubjectID != "" {
		q.Set("subjectId", params.SubjectID)
	}
	var out []Document
	err := c.get(ctx, "/documents", q, &out)
	return out, err
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.delete(ctx, "/documents/"+id, nil)
}

// DocumentUpload is the form-data payload for a new document. Title, Series,
// and EducationLevel are required by the backend; the rest is optional.
type DocumentUpload struct {
	Title          string
	Author         string
	Description    string
	Series         string
	EducationLevel string
	SubjectID      string
	FileName       string
	File           io.Reader
}

// UploadDocument sends a document as multipart form-data to
// POST /documents/upload. It bypasses the JSON helpers because of the
// content type, but keeps the same bearer auth and {message} error handling.
func (c *Client) UploadDocument(ctx context.Context, up DocumentUpload) (Document, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", up.FileName)
	if err != nil {
		return Document{}, err
	}
	if _, err := io.Copy(part, up.File); err != nil {
		return Document{}, err
	}

	fields := []struct{ key, value string }{
		{"title", up.Title},
		{"series", up.Series},
		{"educationLevel", up.EducationLevel},
		{"author", up.Author},
		{"description", up.Description},
		{"subjectId", up.SubjectID},
	}
	for _, f := range fields[:3] {
		if err := w.WriteField(f.key, f.value); err != nil {
			return Document{}, err
		}
	}
	for _, f := range fields[3:] {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.key, f.value); err != nil {
			return Document{}, err
		}
	}
	if err := w.Close(); err != nil {
		return Document{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/documents/upload", &buf)
	if err != nil {
		return Document{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &errResp)
		if errResp.Message != "" {
			return Document{}, fmt.Errorf("POST /documents/upload: %s", errResp.Message)
		}
		return Document{}, fmt.Errorf("POST /documents/upload: status %d", resp.StatusCode)
	}

	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return Document{}, fmt.Errorf("invalid response body: %v", err)
	}
	return out, nil
}

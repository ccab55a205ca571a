package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoginPostsCredentialsWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("login must not send a token, got %q", got)
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if req.Email != "ana@school.test" || req.Password != "secret" {
			t.Errorf("unexpected credentials %+v", req)
		}
		_ = json.NewEncoder(w).Encode(LoginResponse{
			AccessToken: "tok-123",
			Name:        "Ana",
			Email:       req.Email,
			Role:        RoleDirector,
		})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, "").Login(context.Background(), "ana@school.test", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken != "tok-123" || resp.Role != RoleDirector {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestGetSchoolsSendsFiltersAndDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/school" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("missing bearer token, got %q", got)
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "10" {
			t.Errorf("unexpected pagination %v", q)
		}
		if q.Get("name") != "Dawn" || q.Get("city") != "Recife" {
			t.Errorf("unexpected filters %v", q)
		}
		if q.Has("state") {
			t.Errorf("empty filter must be omitted")
		}
		_ = json.NewEncoder(w).Encode(Page[School]{
			Data: []School{{ID: "s1", Name: "Dawn High", City: "Recife", AverageGrade: 8.4}},
			Meta: Meta{Total: 21, Page: 2, Limit: 10},
		})
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL, "tok").GetSchools(context.Background(), SchoolParams{
		ListParams: ListParams{Page: 2, Limit: 10},
		Name:       "Dawn",
		City:       "Recife",
	})
	if err != nil {
		t.Fatalf("get schools: %v", err)
	}
	if page.Meta.Total != 21 {
		t.Fatalf("unexpected meta %+v", page.Meta)
	}
	if len(page.Data) != 1 || page.Data[0].Name != "Dawn High" {
		t.Fatalf("unexpected data %+v", page.Data)
	}
}

func TestErrorResponseUsesMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"school already exists"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "tok").CreateSchool(context.Background(), SchoolRequest{Name: "Dup"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "school already exists") {
		t.Fatalf("error must carry the backend message, got %q", err)
	}
}

func TestErrorResponseFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "tok").GetSubjects(context.Background(), ListParams{Page: 1, Limit: 10})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "status 504") {
		t.Fatalf("expected status in error, got %q", err)
	}
}

func TestUsersByRoleBuildsLowercasePath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(Page[User]{Data: []User{{ID: "u1", Name: "Carlos"}}})
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL, "tok").GetUsersByRole(context.Background(), RoleTeacher, UserParams{
		ListParams: ListParams{Page: 1, Limit: 10},
	})
	if err != nil {
		t.Fatalf("get users: %v", err)
	}
	if gotPath != "/user/teacher" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if len(page.Data) != 1 || page.Data[0].Name != "Carlos" {
		t.Fatalf("unexpected data %+v", page.Data)
	}
}

func TestWriteEndpointsUseExpectedMethodAndPath(t *testing.T) {
	type recorded struct {
		method string
		path   string
		body   map[string]any
	}
	var got recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = recorded{method: r.Method, path: r.URL.Path}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&got.body)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "tok")
	ctx := context.Background()

	grade := 9.1
	tests := []struct {
		name       string
		call       func() error
		wantMethod string
		wantPath   string
		wantBody   map[string]any
	}{
		{
			name: "update school",
			call: func() error {
				_, err := c.UpdateSchool(ctx, "s1", SchoolRequest{Name: "Renamed", AverageGrade: &grade})
				return err
			},
			wantMethod: http.MethodPatch,
			wantPath:   "/school/s1",
			wantBody:   map[string]any{"name": "Renamed", "averageGrade": grade},
		},
		{
			name: "assign director",
			call: func() error {
				_, err := c.AssignDirector(ctx, "s1", "d1")
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/school/s1/director",
			wantBody:   map[string]any{"directorId": "d1"},
		},
		{
			name:       "unassign teacher",
			call:       func() error { return c.UnassignTeacher(ctx, "s1", "t1") },
			wantMethod: http.MethodDelete,
			wantPath:   "/school/s1/teacher/t1",
		},
		{
			name: "update subject",
			call: func() error {
				_, err := c.UpdateSubject(ctx, "sub1", SubjectRequest{Name: "Physics"})
				return err
			},
			wantMethod: http.MethodPatch,
			wantPath:   "/subject/sub1",
			wantBody:   map[string]any{"name": "Physics"},
		},
		{
			name:       "delete subject",
			call:       func() error { return c.DeleteSubject(ctx, "sub1") },
			wantMethod: http.MethodDelete,
			wantPath:   "/subject/sub1",
		},
		{
			name: "create user",
			call: func() error {
				_, err := c.CreateUser(ctx, RoleStudent, UserRequest{Name: "Bia", Email: "bia@school.test"})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/user/student",
			wantBody:   map[string]any{"name": "Bia", "email": "bia@school.test"},
		},
		{
			name: "update user",
			call: func() error {
				_, err := c.UpdateUser(ctx, RoleTeacher, "u1", UserRequest{Phone: "555"})
				return err
			},
			wantMethod: http.MethodPatch,
			wantPath:   "/user/teacher/u1",
			wantBody:   map[string]any{"phone": "555"},
		},
		{
			name:       "delete user",
			call:       func() error { return c.DeleteUser(ctx, RoleAdmin, "u1") },
			wantMethod: http.MethodDelete,
			wantPath:   "/user/admin/u1",
		},
		{
			name:       "delete document",
			call:       func() error { return c.DeleteDocument(ctx, "d1") },
			wantMethod: http.MethodDelete,
			wantPath:   "/documents/d1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got = recorded{}
			if err := tc.call(); err != nil {
				t.Fatalf("call failed: %v", err)
			}
			if got.method != tc.wantMethod || got.path != tc.wantPath {
				t.Fatalf("got %s %s, want %s %s", got.method, got.path, tc.wantMethod, tc.wantPath)
			}
			for k, v := range tc.wantBody {
				if got.body[k] != v {
					t.Fatalf("body[%q] = %v, want %v", k, got.body[k], v)
				}
			}
		})
	}
}

func TestUploadDocumentSendsMultipartForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/documents/upload" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("missing bearer token, got %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "Algebra basics" {
			t.Errorf("title = %q", got)
		}
		if got := r.FormValue("series"); got != "7" {
			t.Errorf("series = %q", got)
		}
		if got := r.FormValue("educationLevel"); got != "FUNDAMENTAL" {
			t.Errorf("educationLevel = %q", got)
		}
		if _, ok := r.MultipartForm.Value["author"]; ok {
			t.Errorf("empty optional field must be omitted")
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "algebra.pdf" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		content, _ := io.ReadAll(f)
		if string(content) != "pdf bytes" {
			t.Errorf("file content = %q", content)
		}
		_ = json.NewEncoder(w).Encode(Document{ID: "d7", Title: "Algebra basics", ProcessingStatus: "PENDING"})
	}))
	defer srv.Close()

	doc, err := NewClient(srv.URL, "tok").UploadDocument(context.Background(), DocumentUpload{
		Title:          "Algebra basics",
		Series:         "7",
		EducationLevel: "FUNDAMENTAL",
		FileName:       "algebra.pdf",
		File:           strings.NewReader("pdf bytes"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.ID != "d7" || doc.ProcessingStatus != "PENDING" {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestUploadDocumentErrorUsesMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"unsupported file type"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "tok").UploadDocument(context.Background(), DocumentUpload{
		Title:          "Bad",
		Series:         "7",
		EducationLevel: "FUNDAMENTAL",
		FileName:       "bad.exe",
		File:           strings.NewReader("mz"),
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "unsupported file type") {
		t.Fatalf("error must carry the backend message, got %q", err)
	}
}

func TestGetDocumentsDecodesBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]Document{{ID: "d1", Title: "Syllabus"}})
	}))
	defer srv.Close()

	docs, err := NewClient(srv.URL, "tok").GetDocuments(context.Background(), DocumentParams{})
	if err != nil {
		t.Fatalf("get documents: %v", err)
	}
	if len(docs) != 1 || docs[0].Title != "Syllabus" {
		t.Fatalf("unexpected documents %+v", docs)
	}
}

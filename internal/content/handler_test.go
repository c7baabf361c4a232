package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"magazine-backend/internal/shared/storage/files"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := &Service{
		Repo:    NewMemoryRepo(),
		Files:   files.New(t.TempDir()),
		BaseURL: "http://localhost:8080",
	}
	handler := NewHandler(svc)

	router := gin.New()
	api := router.Group("/api/content")
	handler.RegisterPublicRoutes(api)
	handler.RegisterAdminRoutes(api)
	return router, svc
}

type uploadForm struct {
	title       string
	description string
	editorName  string
	category    string
	fileName    string
	fileData    []byte
	thumbName   string
	thumbData   []byte
}

func multipartBody(t *testing.T, form uploadForm) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       form.title,
		"description": form.description,
		"editorName":  form.editorName,
		"category":    form.category,
	}
	for key, val := range fields {
		if err := mw.WriteField(key, val); err != nil {
			t.Fatalf("WriteField %s: %v", key, err)
		}
	}

	fw, err := mw.CreateFormFile("contentFile", form.fileName)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(form.fileData); err != nil {
		t.Fatalf("write content file: %v", err)
	}

	if form.thumbName != "" {
		tw, err := mw.CreateFormFile("thumbnail", form.thumbName)
		if err != nil {
			t.Fatalf("CreateFormFile thumbnail: %v", err)
		}
		if _, err := tw.Write(form.thumbData); err != nil {
			t.Fatalf("write thumbnail: %v", err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func doUpload(t *testing.T, router *gin.Engine, form uploadForm) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, form)
	req := httptest.NewRequest(http.MethodPost, "/api/content/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func validForm(t *testing.T) uploadForm {
	return uploadForm{
		title:       "On Deadlines",
		description: "An essay about deadlines.",
		editorName:  "R. Iyer",
		category:    "article",
		fileName:    "essay.docx",
		fileData:    buildDocxFixture(t, "First paragraph."),
		thumbName:   "cover.png",
		thumbData:   pngFixture(),
	}
}

func decodeJSON(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeJSON(t, resp, &body)
	return body.Error.Code
}

func TestUploadCreatesDraft(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := doUpload(t, router, validForm(t))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created CreatedResponse
	decodeJSON(t, resp, &created)
	if created.ID == "" {
		t.Fatalf("expected non-empty id")
	}
	if created.Status != StatusDraft {
		t.Fatalf("status = %q, want draft", created.Status)
	}
	if created.ThumbnailURL == nil {
		t.Fatalf("expected thumbnail url")
	}
}

func TestUploadValidationErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		name     string
		mutate   func(*uploadForm)
		wantCode string
	}{
		{
			name:     "missing title",
			mutate:   func(f *uploadForm) { f.title = "" },
			wantCode: "validation_error",
		},
		{
			name:     "bad category",
			mutate:   func(f *uploadForm) { f.category = "opinion" },
			wantCode: "validation_error",
		},
		{
			name: "unsupported extension",
			mutate: func(f *uploadForm) {
				f.fileName = "notes.txt"
				f.fileData = []byte("plain text")
			},
			wantCode: "unsupported_file_type",
		},
		{
			name: "corrupt docx",
			mutate: func(f *uploadForm) {
				f.fileData = []byte("not a zip archive")
			},
			wantCode: "extraction_failed",
		},
		{
			name: "empty document",
			mutate: func(f *uploadForm) {
				f.fileData = buildDocxFixture(t, "   ")
			},
			wantCode: "no_content",
		},
		{
			name: "non-image thumbnail",
			mutate: func(f *uploadForm) {
				f.thumbData = []byte("<html>not an image</html>")
			},
			wantCode: "validation_error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm(t)
			tc.mutate(&form)
			resp := doUpload(t, router, form)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
			}
			if code := errorCode(t, resp); code != tc.wantCode {
				t.Fatalf("error code = %q, want %q", code, tc.wantCode)
			}
		})
	}
}

func TestUploadWithoutContentFile(t *testing.T) {
	router, _ := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("title", "No file")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/content/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestPublishLifecycleOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := doUpload(t, router, validForm(t))
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: %d: %s", resp.Code, resp.Body.String())
	}
	var created CreatedResponse
	decodeJSON(t, resp, &created)

	// Draft is invisible publicly.
	req := httptest.NewRequest(http.MethodGet, "/api/content/public/"+created.ID, nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("public get of draft: expected 404, got %d", resp.Code)
	}

	// Publish.
	req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/content/admin/%s/publish", created.ID), nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("publish: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var status StatusResponse
	decodeJSON(t, resp, &status)
	if status.Status != StatusPublished || status.PublishedAt == nil {
		t.Fatalf("publish response = %+v", status)
	}
	firstPublishedAt := *status.PublishedAt

	// Now visible publicly, with extracted HTML.
	req = httptest.NewRequest(http.MethodGet, "/api/content/public/"+created.ID, nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("public get: expected 200, got %d", resp.Code)
	}
	var item ItemResponse
	decodeJSON(t, resp, &item)
	if item.ProcessedContent != "<p>First paragraph.</p>" {
		t.Fatalf("processedContent = %q", item.ProcessedContent)
	}

	// Listed under published articles.
	req = httptest.NewRequest(http.MethodGet, "/api/content/public/articles", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	var page PageResponse
	decodeJSON(t, resp, &page)
	if page.Total != 1 || len(page.Content) != 1 {
		t.Fatalf("public list = %+v", page)
	}

	// Unpublish keeps publishedAt.
	req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/content/admin/%s/unpublish", created.ID), nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unpublish: expected 200, got %d", resp.Code)
	}
	decodeJSON(t, resp, &status)
	if status.Status != StatusDraft {
		t.Fatalf("status after unpublish = %q", status.Status)
	}
	if status.PublishedAt == nil || !status.PublishedAt.Equal(firstPublishedAt) {
		t.Fatalf("publishedAt changed: %v -> %v", firstPublishedAt, status.PublishedAt)
	}

	// Back off the public list.
	req = httptest.NewRequest(http.MethodGet, "/api/content/public/articles", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	decodeJSON(t, resp, &page)
	if page.Total != 0 {
		t.Fatalf("public list after unpublish = %+v", page)
	}
}

func TestDeleteOverHTTP(t *testing.T) {
	router, svc := newTestRouter(t)

	resp := doUpload(t, router, validForm(t))
	var created CreatedResponse
	decodeJSON(t, resp, &created)

	req := httptest.NewRequest(http.MethodDelete, "/api/content/admin/"+created.ID, nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if _, err := svc.Get(req.Context(), created.ID); err == nil {
		t.Fatalf("expected record to be gone")
	}

	// Deleting again is a 404.
	req = httptest.NewRequest(http.MethodDelete, "/api/content/admin/"+created.ID, nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", resp.Code)
	}
}

func TestAdminListFiltersAndPaginates(t *testing.T) {
	router, _ := newTestRouter(t)

	for i := 0; i < 3; i++ {
		form := validForm(t)
		form.title = fmt.Sprintf("Article %d", i)
		form.thumbName = ""
		if resp := doUpload(t, router, form); resp.Code != http.StatusCreated {
			t.Fatalf("upload %d: %d", i, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/content/admin?status=draft&category=article&page=1&limit=2", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("admin list: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var page PageResponse
	decodeJSON(t, resp, &page)
	if page.Total != 3 || len(page.Content) != 2 || page.TotalPages != 2 || page.CurrentPage != 1 {
		t.Fatalf("admin list page = %+v", page)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/content/admin?status=bogus", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("bad status filter: expected 400, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/content/admin?category=bogus", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("bad category filter: expected 400, got %d", resp.Code)
	}
}

func TestPublicFileStreamsDocument(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := doUpload(t, router, validForm(t))
	var created CreatedResponse
	decodeJSON(t, resp, &created)

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/content/admin/%s/publish", created.ID), nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/content/public/%s/file", created.ID), nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("file: expected 200, got %d", resp.Code)
	}
	wantType := "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	if got := resp.Header().Get("Content-Type"); got != wantType {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := resp.Header().Get("Content-Disposition"); got != `inline; filename="essay.docx"` {
		t.Fatalf("Content-Disposition = %q", got)
	}
	if resp.Body.Len() == 0 {
		t.Fatalf("expected file bytes")
	}
}

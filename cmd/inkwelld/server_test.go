// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-sh/inkwell/lib/clock"
	"github.com/inkwell-sh/inkwell/lib/document"
	"github.com/inkwell-sh/inkwell/lib/paste"
	"github.com/inkwell-sh/inkwell/lib/render"
	"github.com/inkwell-sh/inkwell/lib/slugdir"
	"github.com/inkwell-sh/inkwell/lib/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))

	store, err := storage.Open(storage.Config{
		Path:       filepath.Join(t.TempDir(), "inkwell.db"),
		Namespaces: []string{document.Namespace, slugdir.Namespace},
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("opening storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	renderer, err := render.New(render.Config{})
	if err != nil {
		t.Fatalf("building renderer: %v", err)
	}

	service := paste.NewService(paste.Config{
		Documents: document.NewStore(store, clock.Real()),
		Slugs:     slugdir.NewDirectory(store),
		Logger:    logger,
	})

	return newRouter(&server{
		pastes:   service,
		renderer: renderer,
		logger:   logger,
	})
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var response map[string]any
	if recorder.Body.Len() > 0 && strings.HasPrefix(recorder.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
			t.Fatalf("decoding response body %q: %v", recorder.Body.String(), err)
		}
	}
	return recorder.Code, response
}

func TestPasteLifecycle(t *testing.T) {
	router := newTestRouter(t)

	code, created := doJSON(t, router, http.MethodPost, "/api/pastes", map[string]any{
		"content": "# Hello\n\nfirst revision",
	})
	if code != http.StatusCreated {
		t.Fatalf("create: got status %d, want %d (%v)", code, http.StatusCreated, created)
	}
	slug, _ := created["slug"].(string)
	editCode, _ := created["edit_code"].(string)
	if len(slug) != slugdir.GeneratedSlugLength {
		t.Errorf("generated slug %q: got length %d, want %d", slug, len(slug), slugdir.GeneratedSlugLength)
	}
	if len(editCode) != slugdir.GeneratedEditCodeLength {
		t.Errorf("generated edit code: got length %d, want %d", len(editCode), slugdir.GeneratedEditCodeLength)
	}

	code, got := doJSON(t, router, http.MethodGet, "/api/pastes/"+slug, nil)
	if code != http.StatusOK {
		t.Fatalf("read: got status %d, want %d", code, http.StatusOK)
	}
	if got["content"] != "# Hello\n\nfirst revision" {
		t.Errorf("read content: got %q", got["content"])
	}
	if got["created"] == "" {
		t.Error("read: missing created timestamp")
	}

	code, _ = doJSON(t, router, http.MethodPut, "/api/pastes/"+slug, map[string]any{
		"edit_code": editCode,
		"content":   "second revision",
	})
	if code != http.StatusOK {
		t.Fatalf("edit: got status %d, want %d", code, http.StatusOK)
	}
	_, got = doJSON(t, router, http.MethodGet, "/api/pastes/"+slug, nil)
	if got["content"] != "second revision" {
		t.Errorf("after edit: got content %q, want %q", got["content"], "second revision")
	}

	code, _ = doJSON(t, router, http.MethodDelete, "/api/pastes/"+slug, map[string]any{
		"edit_code": editCode,
	})
	if code != http.StatusNoContent {
		t.Fatalf("delete: got status %d, want %d", code, http.StatusNoContent)
	}
	code, _ = doJSON(t, router, http.MethodGet, "/api/pastes/"+slug, nil)
	if code != http.StatusNotFound {
		t.Errorf("read after delete: got status %d, want %d", code, http.StatusNotFound)
	}
}

func TestCustomSlugAndConflict(t *testing.T) {
	router := newTestRouter(t)

	code, _ := doJSON(t, router, http.MethodPost, "/api/pastes", map[string]any{
		"custom_slug": "notes",
		"edit_code":   "hunter22",
		"content":     "mine",
	})
	if code != http.StatusCreated {
		t.Fatalf("create: got status %d, want %d", code, http.StatusCreated)
	}

	code, body := doJSON(t, router, http.MethodPost, "/api/pastes", map[string]any{
		"custom_slug": "notes",
		"content":     "stolen",
	})
	if code != http.StatusConflict {
		t.Fatalf("conflicting create: got status %d, want %d (%v)", code, http.StatusConflict, body)
	}

	// The original binding is untouched.
	_, got := doJSON(t, router, http.MethodGet, "/api/pastes/notes", nil)
	if got["content"] != "mine" {
		t.Errorf("after conflict: got content %q, want %q", got["content"], "mine")
	}
}

func TestErrorMapping(t *testing.T) {
	router := newTestRouter(t)

	code, _ := doJSON(t, router, http.MethodPost, "/api/pastes", map[string]any{
		"custom_slug": "kept",
		"edit_code":   "sesame42",
		"content":     "body",
	})
	if code != http.StatusCreated {
		t.Fatalf("setup create: got status %d", code)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"bad slug on create", http.MethodPost, "/api/pastes",
			map[string]any{"custom_slug": "a b", "content": "x"}, http.StatusBadRequest},
		{"oversized content", http.MethodPost, "/api/pastes",
			map[string]any{"content": strings.Repeat("x", paste.DefaultMaxContentSize+1)}, http.StatusBadRequest},
		{"unknown slug", http.MethodGet, "/api/pastes/missing9", nil, http.StatusNotFound},
		{"wrong edit code on edit", http.MethodPut, "/api/pastes/kept",
			map[string]any{"edit_code": "wrongwrong", "content": "x"}, http.StatusForbidden},
		{"wrong edit code on delete", http.MethodDelete, "/api/pastes/kept",
			map[string]any{"edit_code": "wrongwrong"}, http.StatusForbidden},
		{"malformed body", http.MethodPost, "/api/markdown/render", nil, http.StatusBadRequest},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, body := doJSON(t, router, test.method, test.path, test.body)
			if code != test.want {
				t.Errorf("got status %d, want %d (%v)", code, test.want, body)
			}
		})
	}
}

func TestRenderEndpoints(t *testing.T) {
	router := newTestRouter(t)

	code, created := doJSON(t, router, http.MethodPost, "/api/pastes", map[string]any{
		"content": "# Title\n\n<script>alert(1)</script>\n\n```go\npackage main\n```\n",
	})
	if code != http.StatusCreated {
		t.Fatalf("create: got status %d", code)
	}
	slug := created["slug"].(string)

	code, got := doJSON(t, router, http.MethodGet, "/api/pastes/"+slug+"/html", nil)
	if code != http.StatusOK {
		t.Fatalf("render paste: got status %d", code)
	}
	html, _ := got["html"].(string)
	if !strings.Contains(html, "<h1") {
		t.Errorf("rendered html missing heading: %q", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("rendered html contains script tag: %q", html)
	}

	code, got = doJSON(t, router, http.MethodPost, "/api/markdown/render", map[string]any{
		"content": "**bold**",
	})
	if code != http.StatusOK {
		t.Fatalf("render markdown: got status %d", code)
	}
	if html, _ := got["html"].(string); !strings.Contains(html, "<strong>") {
		t.Errorf("adhoc render missing strong tag: %q", html)
	}

	request := httptest.NewRequest(http.MethodGet, "/static/highlight.css", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("highlight css: got status %d", recorder.Code)
	}
	if contentType := recorder.Header().Get("Content-Type"); !strings.HasPrefix(contentType, "text/css") {
		t.Errorf("highlight css: got content type %q", contentType)
	}
	if !strings.Contains(recorder.Body.String(), ".chroma") {
		t.Error("highlight css: missing chroma selectors")
	}
}

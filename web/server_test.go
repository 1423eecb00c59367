// ABOUTME: Tests for the deck preview server and chi router.
// ABOUTME: Covers health, handout, exports, the .pptx download, slide PNGs, and request logging.
package web

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2389-research/deckforge/assembler"
	"github.com/2389-research/deckforge/pptx"
	"github.com/2389-research/deckforge/theme"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestServer(t *testing.T, logger *zap.Logger) *Server {
	t.Helper()
	a, err := assembler.New(theme.Default(), assembler.WithTitle("Preview Deck"))
	if err != nil {
		t.Fatal(err)
	}
	a.AddTitle("Preview Deck", "Subtitle", "")
	a.AddContent("Agenda", []string{"One", "Two"}, "speak slowly")
	a.AddCode("Sample", "x := 1", "")
	srv, err := NewServer(a, ServerConfig{Filename: "preview.pptx", Logger: logger})
	if err != nil {
		t.Fatalf("NewServer() = %v", err)
	}
	return srv
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewServerRejectsNilAssembler(t *testing.T) {
	if _, err := NewServer(nil, ServerConfig{}); err == nil {
		t.Error("expected an error for a nil assembler")
	}
}

func TestServerDefaults(t *testing.T) {
	a, err := assembler.New(theme.Default())
	if err != nil {
		t.Fatal(err)
	}
	srv, err := NewServer(a, ServerConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if srv.Addr() != "127.0.0.1:2389" {
		t.Errorf("Addr() = %q", srv.Addr())
	}
	if srv.filename != "deck.pptx" {
		t.Errorf("filename = %q", srv.filename)
	}
}

func TestServerHealth(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestServerDocuments(t *testing.T) {
	srv := newTestServer(t, nil)
	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html; charset=utf-8", "<h2>2. Agenda</h2>"},
		{"/outline.md", "text/markdown; charset=utf-8", "## 3. Sample"},
		{"/deck.yaml", "application/yaml", "kind: code"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, srv, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestServerDeckDownload(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/deck.pptx")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != PPTXContentType {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="preview.pptx"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	sum, err := pptx.Inspect(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("Inspect() = %v", err)
	}
	if len(sum.Slides) != 3 {
		t.Errorf("slides = %d, want 3", len(sum.Slides))
	}
	if sum.Slides[1].Notes != "speak slowly" {
		t.Errorf("notes = %q", sum.Slides[1].Notes)
	}
}

func TestServerSlideList(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/slides")
	var got []slideEntry
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}
	second := got[1]
	if second.Number != 2 || second.Kind != "content" || second.Title != "Agenda" || !second.Notes || second.Image != "/slides/2" {
		t.Errorf("second entry = %+v", second)
	}
}

func TestServerSlidePNG(t *testing.T) {
	srv := newTestServer(t, nil)
	tests := []struct {
		target string
		status int
		width  int
	}{
		{"/slides/1", http.StatusOK, 960},
		{"/slides/3?width=400", http.StatusOK, 400},
		{"/slides/0", http.StatusNotFound, 0},
		{"/slides/4", http.StatusNotFound, 0},
		{"/slides/two", http.StatusNotFound, 0},
		{"/slides/1?width=0", http.StatusBadRequest, 0},
		{"/slides/1?width=wide", http.StatusBadRequest, 0},
		{"/slides/1?width=100000", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, srv, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
			if err != nil {
				t.Fatalf("decode png: %v", err)
			}
			if w := img.Bounds().Dx(); w != tt.width {
				t.Errorf("width = %d, want %d", w, tt.width)
			}
		})
	}
}

func TestServerLogsRequests(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv := newTestServer(t, zap.New(core))

	get(t, srv, "/health")
	get(t, srv, "/slides/9")

	entries := logs.FilterMessage("request").All()
	if len(entries) != 2 {
		t.Fatalf("logged %d requests, want 2", len(entries))
	}
	fields := entries[1].ContextMap()
	if fields["path"] != "/slides/9" || fields["status"] != int64(http.StatusNotFound) {
		t.Errorf("fields = %v", fields)
	}
}

func TestServerRejectsOtherMethods(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/deck.pptx", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

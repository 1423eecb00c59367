// ABOUTME: Read-only HTTP preview server for an assembled deck behind a chi router.
// ABOUTME: Serves the handout, outline, YAML dump, the .pptx artifact, and per-slide PNG renders.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/2389-research/deckforge/assembler"
	"github.com/2389-research/deckforge/export"
	"github.com/2389-research/deckforge/preview"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// PPTXContentType is the media type of an Office Open XML presentation.
const PPTXContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// Server serves one deck. Every document except slide PNGs is rendered once in NewServer,
// so handlers only read shared state.
type Server struct {
	router   chi.Router
	addr     string
	logger   *zap.Logger
	asm      *assembler.Assembler
	filename string

	pptx    []byte
	handout []byte
	outline []byte
	yaml    []byte
}

// ServerConfig holds the configuration for the preview server.
type ServerConfig struct {
	Addr     string // listen address (default: "127.0.0.1:2389")
	Filename string // download name of the .pptx (default: "deck.pptx")
	Logger   *zap.Logger
}

// NewServer renders the deck's documents and sets up routing. The assembler must not be
// appended to afterwards.
func NewServer(a *assembler.Assembler, cfg ServerConfig) (*Server, error) {
	if a == nil {
		return nil, fmt.Errorf("assembler must not be nil")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:2389"
	}
	if cfg.Filename == "" {
		cfg.Filename = "deck.pptx"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	data, err := a.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding deck: %w", err)
	}
	th := a.Theme()
	page, err := export.HTML(a.Presentation(), export.HandoutStyle{
		Font:           th.Fonts.Body,
		Primary:        th.Palette.Primary,
		Dark:           th.Palette.Dark,
		CodeBackground: th.Palette.CodeBackground,
		CodeForeground: th.Palette.CodeForeground,
	})
	if err != nil {
		return nil, err
	}
	doc, err := export.YAML(a.Presentation())
	if err != nil {
		return nil, err
	}

	s := &Server{
		addr:     cfg.Addr,
		logger:   cfg.Logger,
		asm:      a,
		filename: cfg.Filename,
		pptx:     data,
		handout:  []byte(page),
		outline:  []byte(export.Markdown(a.Presentation())),
		yaml:     []byte(doc),
	}
	s.router = s.buildRouter()
	return s, nil
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.addr }

// ListenAndServe starts the HTTP server on the configured address with
// timeouts that bound slow clients.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
	return srv.ListenAndServe()
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHandout)
	r.Get("/health", s.handleHealth)
	r.Get("/deck.pptx", s.handleDeck)
	r.Get("/outline.md", s.static("text/markdown; charset=utf-8", s.outline))
	r.Get("/deck.yaml", s.static("application/yaml", s.yaml))
	r.Get("/slides", s.handleSlideList)
	r.Get("/slides/{n}", s.handleSlidePNG)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleHandout(w http.ResponseWriter, r *http.Request) {
	s.static("text/html; charset=utf-8", s.handout)(w, r)
}

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.filename))
	s.static(PPTXContentType, s.pptx)(w, r)
}

func (s *Server) static(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	}
}

// slideEntry is one row of the /slides listing.
type slideEntry struct {
	Number int    `json:"number"`
	Kind   string `json:"kind"`
	Title  string `json:"title"`
	Notes  bool   `json:"notes"`
	Image  string `json:"image"`
}

func (s *Server) handleSlideList(w http.ResponseWriter, r *http.Request) {
	slides := s.asm.Presentation().Slides()
	out := make([]slideEntry, 0, len(slides))
	for i, sl := range slides {
		out = append(out, slideEntry{
			Number: i + 1,
			Kind:   sl.Kind().String(),
			Title:  sl.TitleText(),
			Notes:  sl.HasNotes(),
			Image:  fmt.Sprintf("/slides/%d", i+1),
		})
	}
	writeJSON(w, out)
}

// handleSlidePNG renders slide n (1-based). The optional width query parameter
// sets the image width in pixels, up to 4 times the default render width.
func (s *Server) handleSlidePNG(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 || n > s.asm.Len() {
		http.Error(w, "slide not found", http.StatusNotFound)
		return
	}
	width := preview.RenderWidth
	if q := r.URL.Query().Get("width"); q != "" {
		width, err = strconv.Atoi(q)
		if err != nil || width < 1 || width > 4*preview.RenderWidth {
			http.Error(w, "invalid width", http.StatusBadRequest)
			return
		}
	}

	img, err := preview.Render(s.asm.Presentation(), n-1, width)
	if err != nil {
		s.logger.Error("render slide", zap.Int("slide", n), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.logger.Error("encode slide", zap.Int("slide", n), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	s.static("image/png", buf.Bytes())(w, r)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

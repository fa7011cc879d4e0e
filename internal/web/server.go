// Package web serves a local browser view of the clip history.
package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/clipstash/internal/assets"
	"github.com/stormlightlabs/clipstash/internal/clip"
)

// Backend is the part of the app the web view reads from.
type Backend interface {
	SearchClips(ctx context.Context, cs []clip.Constraint) ([]clip.Clip, error)
	Clip(ctx context.Context, id int64) (clip.Clip, error)
	Labels(ctx context.Context) ([]string, error)
	CopyClipToClipboard(ctx context.Context, id int64) error
}

// Server represents the web clip browser.
type Server struct {
	b      Backend
	md     *htmlRenderer
	router *http.ServeMux
	addr   string
}

// NewServer creates a new instance of the web server.
func NewServer(b Backend, addr string) *Server {
	s := &Server{
		b:      b,
		md:     newHTMLRenderer(),
		router: http.NewServeMux(),
		addr:   addr,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("GET /{$}", s.handleSearch)
	s.router.HandleFunc("GET /search", s.handleSearch)
	s.router.HandleFunc("GET /api/search", s.handleAPISearch)
	s.router.HandleFunc("GET /clip/{id}", s.handleClip)
	s.router.HandleFunc("GET /clip/{id}/raw", s.handleRaw)
	s.router.HandleFunc("POST /clip/{id}/copy", s.handleCopy)
	s.router.Handle("GET /static/", http.FileServer(http.FS(assets.StaticFS)))
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Info("web interface listening", "url", "http://"+s.addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package web

import (
	"fmt"
	"html"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/errs"
	"github.com/stormlightlabs/clipstash/internal/searchtext"
)

// ClipPageData holds data for the clip template.
type ClipPageData struct {
	Title     string
	ID        int64
	Type      string
	Timestamp int64
	Labels    []string
	Body      template.HTML
	Copied    bool
}

func clipID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// loadClip fetches the clip named in the path, writing the error response
// itself when that fails.
func (s *Server) loadClip(w http.ResponseWriter, r *http.Request) (clip.Clip, bool) {
	id, ok := clipID(r)
	if !ok {
		http.Error(w, "invalid clip id", http.StatusBadRequest)
		return clip.Clip{}, false
	}
	c, err := s.b.Clip(r.Context(), id)
	switch {
	case errs.Is(err, errs.ClipNotFound):
		http.NotFound(w, r)
		return clip.Clip{}, false
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return clip.Clip{}, false
	}
	return c, true
}

// handleClip renders a single clip.
func (s *Server) handleClip(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadClip(w, r)
	if !ok {
		return
	}
	body, err := s.renderClip(c)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := ClipPageData{
		Title:     fmt.Sprintf("clip %d", c.ID),
		ID:        c.ID,
		Type:      c.Type.String(),
		Timestamp: c.Timestamp,
		Labels:    c.Labels,
		Body:      body,
		Copied:    r.URL.Query().Get("copied") == "1",
	}
	if err := s.renderTemplate(w, "clip.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleRaw serves the stored payload. Images are served from the blob
// file; everything else goes out as plain text so stored markup is never
// interpreted by the browser.
func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadClip(w, r)
	if !ok {
		return
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	switch c.Type {
	case clip.Image:
		http.ServeFile(w, r, c.Text())
	case clip.File:
		uris, err := c.Files()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(strings.Join(uris, "\n") + "\n"))
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write(c.Data)
	}
}

// handleCopy puts a clip back on the clipboard and returns to its page.
func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	id, ok := clipID(r)
	if !ok {
		http.Error(w, "invalid clip id", http.StatusBadRequest)
		return
	}
	err := s.b.CopyClipToClipboard(r.Context(), id)
	switch {
	case errs.Is(err, errs.ClipNotFound):
		http.NotFound(w, r)
		return
	case errs.Is(err, errs.ClipboardWrite):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Info("copied clip from web view", "id", id)
	http.Redirect(w, r, fmt.Sprintf("/clip/%d?copied=1", id), http.StatusSeeOther)
}

// renderClip turns a clip payload into an HTML fragment.
func (s *Server) renderClip(c clip.Clip) (template.HTML, error) {
	switch c.Type {
	case clip.HTML:
		md, err := htmltomarkdown.ConvertString(c.Text())
		if err != nil {
			return "", fmt.Errorf("convert html: %w", err)
		}
		out, err := s.md.Render([]byte(md))
		return template.HTML(out), err
	case clip.RTF:
		return template.HTML(preformatted(searchtext.RTFToText(c.Text()))), nil
	case clip.File:
		uris, err := c.Files()
		if err != nil {
			return "", err
		}
		var b strings.Builder
		b.WriteString(`<ul class="files">`)
		for _, uri := range uris {
			b.WriteString("<li>" + html.EscapeString(uri) + "</li>")
		}
		b.WriteString("</ul>\n")
		return template.HTML(b.String()), nil
	case clip.Image:
		out := fmt.Sprintf(`<img class="clip-image" src="/clip/%d/raw" alt="clip %d">`, c.ID, c.ID)
		if c.SearchText != "" {
			out += "\n" + preformatted(c.SearchText)
		}
		return template.HTML(out), nil
	default:
		text := c.Text()
		if lexers.Analyse(text) != nil {
			if out, err := highlightCode(text, ""); err == nil {
				return template.HTML(out), nil
			}
		}
		return template.HTML(preformatted(text)), nil
	}
}

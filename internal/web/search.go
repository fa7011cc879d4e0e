package web

import (
	"context"
	"encoding/json"
	"html"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/errs"
	"github.com/stormlightlabs/clipstash/internal/shared"
	"github.com/stormlightlabs/clipstash/internal/tray"
)

const (
	defaultLimit = 50
	maxLimit     = 500
	snippetWidth = 200
)

// ClipResult is a single search hit.
type ClipResult struct {
	ID        int64         `json:"id"`
	Type      string        `json:"type"`
	Timestamp int64         `json:"timestamp"`
	Snippet   template.HTML `json:"snippet"`
}

// SearchResponse represents the API search response.
type SearchResponse struct {
	Query   string       `json:"query"`
	Total   int          `json:"total"`
	Results []ClipResult `json:"results"`
}

// SearchErrorResponse represents an API error response.
type SearchErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SearchPageData holds data for the search template.
type SearchPageData struct {
	Title   string
	Query   string
	Regex   string
	Fuzzy   string
	Label   string
	Labels  []string
	Results []ClipResult
	Total   int
	Error   string
}

// searchQuery is the parsed form of the search parameters.
type searchQuery struct {
	text, regex, fuzzy string
	labels, excluded   []string
	limit              int
}

func parseSearchQuery(r *http.Request) searchQuery {
	q := r.URL.Query()
	limit := parseIntParam(r, "limit", defaultLimit)
	if limit == 0 || limit > maxLimit {
		limit = maxLimit
	}
	return searchQuery{
		text:     strings.TrimSpace(q.Get("q")),
		regex:    q.Get("re"),
		fuzzy:    strings.TrimSpace(q.Get("fuzzy")),
		labels:   nonEmpty(q["label"]),
		excluded: nonEmpty(q["notlabel"]),
		limit:    limit,
	}
}

func (sq searchQuery) constraints() []clip.Constraint {
	var cs []clip.Constraint
	if sq.text != "" {
		cs = append(cs, clip.Contains(sq.text))
	}
	if sq.regex != "" {
		cs = append(cs, clip.Regex(sq.regex))
	}
	if sq.fuzzy != "" {
		cs = append(cs, clip.Fuzzy(sq.fuzzy))
	}
	for _, l := range sq.labels {
		cs = append(cs, clip.WithLabel(l))
	}
	for _, l := range sq.excluded {
		cs = append(cs, clip.WithoutLabel(l))
	}
	return append(cs, clip.MaxResults(int64(sq.limit)))
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// handleAPISearch provides a JSON search API endpoint.
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	sq := parseSearchQuery(r)
	results, err := s.performSearch(r.Context(), sq)
	if err != nil {
		status, code := http.StatusInternalServerError, "search_error"
		if errs.Is(err, errs.Regexp) {
			status, code = http.StatusBadRequest, "invalid_regex"
		}
		s.writeSearchError(w, status, err.Error(), code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(SearchResponse{Query: sq.text, Total: len(results), Results: results})
}

// handleSearch renders the search page. Without parameters it lists the
// newest clips.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sq := parseSearchQuery(r)
	data := SearchPageData{
		Title: "clipstash",
		Query: sq.text,
		Regex: sq.regex,
		Fuzzy: sq.fuzzy,
	}
	if len(sq.labels) > 0 {
		data.Label = sq.labels[0]
	}

	labels, err := s.b.Labels(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data.Labels = labels

	results, err := s.performSearch(r.Context(), sq)
	switch {
	case errs.Is(err, errs.Regexp):
		data.Error = err.Error()
	case err != nil:
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}
	data.Results = results
	data.Total = len(results)

	if err := s.renderTemplate(w, "search.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) performSearch(ctx context.Context, sq searchQuery) ([]ClipResult, error) {
	clips, err := s.b.SearchClips(ctx, sq.constraints())
	if err != nil {
		return nil, err
	}

	term := sq.text
	results := make([]ClipResult, 0, len(clips))
	for _, c := range clips {
		results = append(results, ClipResult{
			ID:        c.ID,
			Type:      c.Type.String(),
			Timestamp: c.Timestamp,
			Snippet:   generateSnippet(c.SearchText, term),
		})
	}
	return results, nil
}

func (s *Server) writeSearchError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(SearchErrorResponse{Error: message, Code: code})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}

// generateSnippet cuts a window of text around the first case-insensitive
// match of term and marks every match. The result is escaped HTML.
func generateSnippet(text, term string) template.HTML {
	text = shared.OneLine(text)
	lower := strings.ToLower(text)
	idx := -1
	if term != "" && len(lower) == len(text) && len(strings.ToLower(term)) == len(term) {
		idx = strings.Index(lower, strings.ToLower(term))
	}
	if idx == -1 {
		return template.HTML(html.EscapeString(tray.Trim(text, snippetWidth)))
	}

	start := max(idx-80, 0)
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	end := min(idx+len(term)+120, len(text))
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	snippet := highlightTerm(text[start:end], term)
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet += "..."
	}
	return template.HTML(snippet)
}

// highlightTerm escapes text and wraps each match of term in <mark>.
func highlightTerm(text, term string) string {
	lowerText := strings.ToLower(text)
	lowerTerm := strings.ToLower(term)

	var result strings.Builder
	start := 0
	for {
		idx := strings.Index(lowerText[start:], lowerTerm)
		if idx == -1 {
			result.WriteString(html.EscapeString(text[start:]))
			break
		}
		idx += start

		result.WriteString(html.EscapeString(text[start:idx]))
		result.WriteString("<mark>")
		result.WriteString(html.EscapeString(text[idx : idx+len(term)]))
		result.WriteString("</mark>")

		start = idx + len(term)
	}
	return result.String()
}

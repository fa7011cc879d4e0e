package db

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/errs"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name  string
		cs    []clip.Constraint
		args  int
		joins []string
		limit int64
	}{
		{name: "empty", args: 1, limit: DefaultLimit},
		{
			name:  "text and limit",
			cs:    []clip.Constraint{clip.Contains("b"), clip.MaxResults(10)},
			args:  2,
			limit: 10,
		},
		{
			name:  "every kind",
			cs:    []clip.Constraint{clip.Contains("a"), clip.Regex("^a"), clip.Fuzzy("ab"), clip.After(1), clip.Before(9), clip.WithLabel("pinned"), clip.WithoutLabel("favourite"), clip.MaxResults(3)},
			args:  6,
			joins: []string{LabelTable("pinned")},
			limit: 3,
		},
		{
			name:  "smallest limit wins",
			cs:    []clip.Constraint{clip.MaxResults(8), clip.MaxResults(2), clip.MaxResults(5)},
			args:  1,
			limit: 2,
		},
		{
			name:  "two labels",
			cs:    []clip.Constraint{clip.WithLabel("pinned"), clip.WithLabel("work"), clip.WithLabel("pinned")},
			args:  1,
			joins: []string{LabelTable("pinned"), LabelTable("work")},
			limit: DefaultLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Plan(tt.cs)
			if err != nil {
				t.Fatalf("Plan() error: %v", err)
			}
			if len(q.Args) != tt.args {
				t.Errorf("len(Args) = %d, want %d", len(q.Args), tt.args)
			}
			if got := q.Args[len(q.Args)-1]; got != tt.limit {
				t.Errorf("last arg = %v, want limit %d", got, tt.limit)
			}
			if n := strings.Count(q.SQL, "INNER JOIN"); n != len(tt.joins) {
				t.Errorf("INNER JOIN count = %d, want %d: %s", n, len(tt.joins), q.SQL)
			}
			for _, table := range tt.joins {
				if !strings.Contains(q.SQL, "INNER JOIN "+table+" ON clips.id = "+table+".id") {
					t.Errorf("missing join on %s: %s", table, q.SQL)
				}
			}
			if !strings.HasSuffix(q.SQL, "ORDER BY clips.timestamp DESC, clips.id DESC LIMIT ?") {
				t.Errorf("SQL does not end with ordering: %s", q.SQL)
			}
		})
	}
}

func TestPlanBindsUserText(t *testing.T) {
	evil := "'; DROP TABLE clips; --"
	q, err := Plan([]clip.Constraint{clip.Contains(evil)})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(q.SQL, evil) {
		t.Errorf("user text interpolated into SQL: %s", q.SQL)
	}
	if q.Args[0] != evil {
		t.Errorf("Args[0] = %v, want bound text", q.Args[0])
	}
}

func TestPlanInvalidRegex(t *testing.T) {
	if _, err := Plan([]clip.Constraint{clip.Regex("(")}); !errs.Is(err, errs.Regexp) {
		t.Errorf("Plan() error = %v, want Regexp", err)
	}
}

func TestSearchContains(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	addText(t, s, "a", 1)
	b := addText(t, s, "b", 2)
	addText(t, s, "c", 3)

	got, err := s.Search(ctx, []clip.Constraint{clip.Contains("b"), clip.MaxResults(10)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != b || got[0].Text() != "b" {
		t.Errorf("Search() = %+v, want only clip %d", got, b)
	}
}

func TestSearchDefaultLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for i := int64(1); i <= 15; i++ {
		addText(t, s, "clip", i)
	}

	got, err := s.Search(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != DefaultLimit {
		t.Fatalf("len(Search()) = %d, want %d", len(got), DefaultLimit)
	}
	for i, c := range got {
		if want := int64(15 - i); c.Timestamp != want {
			t.Errorf("result %d timestamp = %d, want %d", i, c.Timestamp, want)
		}
	}
}

func TestSearchSameTimestampNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	addText(t, s, "alpha", 100)
	addText(t, s, "beta", 100)
	newest := addText(t, s, "alphabet", 100)

	got, err := s.Search(ctx, []clip.Constraint{clip.Contains("alp"), clip.MaxResults(1)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != newest {
		t.Errorf("Search() = %+v, want only clip %d", got, newest)
	}

	all, err := s.Search(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID < all[i].ID {
			t.Errorf("results out of order: id %d before %d", all[i-1].ID, all[i].ID)
		}
	}
}

// TestSearchFuzzyFavourites runs a fuzzy search restricted to a label
func TestSearchFuzzyFavourites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i, text := range []string{"hello", "world", "halo", "helo", "xxx"} {
		id := addText(t, s, text, int64(i+1))
		if err := s.ChangeClipLabel(ctx, id, clip.LabelFavourite, true); err != nil {
			t.Fatal(err)
		}
	}
	addText(t, s, "hello again", 10)

	got, err := s.Search(ctx, []clip.Constraint{clip.Fuzzy("hlo"), clip.WithLabel(clip.LabelFavourite), clip.MaxResults(5)})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"helo", "halo", "hello"}
	if len(got) != len(want) {
		t.Fatalf("Search() returned %d clips, want %d: %+v", len(got), len(want), got)
	}
	for i, c := range got {
		if c.SearchText != want[i] {
			t.Errorf("result %d = %q, want %q", i, c.SearchText, want[i])
		}
	}
}

func TestSearchLabels(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a := addText(t, s, "a", 1)
	b := addText(t, s, "b", 2)
	if err := s.ChangeClipLabel(ctx, a, clip.LabelPinned, true); err != nil {
		t.Fatal(err)
	}

	got, err := s.Search(ctx, []clip.Constraint{clip.WithoutLabel(clip.LabelPinned)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != b {
		t.Errorf("NotHasLabel(pinned) = %+v, want clip %d", got, b)
	}

	got, err = s.Search(ctx, []clip.Constraint{clip.WithLabel("missing")})
	if err != nil || len(got) != 0 {
		t.Errorf("HasLabel(missing) = %+v, %v; want empty", got, err)
	}

	got, err = s.Search(ctx, []clip.Constraint{clip.WithoutLabel("missing")})
	if err != nil || len(got) != 2 {
		t.Errorf("NotHasLabel(missing) = %d clips, %v; want 2", len(got), err)
	}
}

func TestSearchRegexAndTime(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	addText(t, s, "abc", 10)
	addText(t, s, "abd", 20)
	addText(t, s, "xbc", 30)

	got, err := s.Search(ctx, []clip.Constraint{clip.Regex("^ab"), clip.After(15)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].SearchText != "abd" {
		t.Errorf("Search() = %+v, want abd", got)
	}

	got, err = s.Search(ctx, []clip.Constraint{clip.Before(30), clip.After(5)})
	if err != nil || len(got) != 2 {
		t.Errorf("timestamp window returned %d clips, %v; want 2", len(got), err)
	}

	if _, err := s.Search(ctx, []clip.Constraint{clip.Regex("[")}); !errs.Is(err, errs.Regexp) {
		t.Errorf("invalid regex error = %v, want Regexp", err)
	}
}

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		text, pattern string
		match         bool
	}{
		{"hello", "hlo", true},
		{"world", "hlo", false},
		{"anything", "", true},
		{"", "a", false},
	}
	for _, tt := range tests {
		if got := FuzzyScore(tt.text, tt.pattern) > 0; got != tt.match {
			t.Errorf("FuzzyScore(%q, %q) > 0 = %v, want %v", tt.text, tt.pattern, got, tt.match)
		}
	}
}

func TestCompilePatternBounded(t *testing.T) {
	patterns.Clear()
	for i := range patternCapacity * 2 {
		if _, err := compilePattern("^clip" + strconv.Itoa(i) + "$"); err != nil {
			t.Fatal(err)
		}
	}
	if n := patterns.Len(); n != patternCapacity {
		t.Errorf("cached %d patterns, want %d", n, patternCapacity)
	}

	re, err := compilePattern("^clip1$")
	if err != nil {
		t.Fatal(err)
	}
	if !re.MatchString("clip1") || re.MatchString("clip10") {
		t.Errorf("compilePattern(^clip1$) = %v", re)
	}
	if _, err := compilePattern("("); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

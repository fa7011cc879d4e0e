package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/errs"
)

// DefaultLimit caps a search that carries no Limit constraint.
const DefaultLimit = 10

// Query is a planned search. Args are bound positionally, the limit last.
type Query struct {
	SQL   string
	Args  []any
	Limit int64
}

// Plan turns constraints into a single parameterised SELECT. Only the kind
// of each constraint shapes the SQL; operands are always bound.
func Plan(constraints []clip.Constraint) (Query, error) {
	var (
		joins  []string
		where  []string
		args   []any
		joined = map[string]bool{}
		limit  = int64(-1)
	)

	for _, c := range constraints {
		switch c.Kind {
		case clip.TextContains:
			where = append(where, `clips.search_text LIKE '%' || ? || '%'`)
			args = append(args, c.Text)
		case clip.TextRegex:
			if _, err := compilePattern(c.Text); err != nil {
				return Query{}, errs.E(errs.Regexp, "plan search", err)
			}
			where = append(where, `regexp(clips.search_text, ?)`)
			args = append(args, c.Text)
		case clip.TextFuzzy:
			where = append(where, `fuzzy_search(clips.search_text, ?) > 0`)
			args = append(args, c.Text)
		case clip.TimestampGreaterThan:
			where = append(where, `clips.timestamp > ?`)
			args = append(args, c.Number)
		case clip.TimestampLessThan:
			where = append(where, `clips.timestamp < ?`)
			args = append(args, c.Number)
		case clip.NotHasLabel:
			t := LabelTable(c.Text)
			where = append(where, fmt.Sprintf(`NOT EXISTS (SELECT id FROM %s WHERE clips.id = %s.id)`, t, t))
		case clip.HasLabel:
			t := LabelTable(c.Text)
			if joined[t] {
				continue
			}
			joined[t] = true
			joins = append(joins, fmt.Sprintf(`INNER JOIN %s ON clips.id = %s.id`, t, t))
		case clip.Limit:
			if limit < 0 || c.Number < limit {
				limit = c.Number
			}
		default:
			return Query{}, fmt.Errorf("unknown search constraint: %q", c.Kind)
		}
	}
	if limit < 0 {
		limit = DefaultLimit
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + clipColumns + ` FROM clips`)
	for _, j := range joins {
		b.WriteString(" " + j)
	}
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(` ORDER BY clips.timestamp DESC, clips.id DESC LIMIT ?`)

	return Query{SQL: b.String(), Args: append(args, limit), Limit: limit}, nil
}

// Search returns the clips matching every constraint, newest first.
func (s *Store) Search(ctx context.Context, constraints []clip.Constraint) ([]clip.Clip, error) {
	kept := make([]clip.Constraint, 0, len(constraints))
	for _, c := range constraints {
		if c.Kind != clip.HasLabel && c.Kind != clip.NotHasLabel {
			kept = append(kept, c)
			continue
		}
		exists, err := s.labelExists(ctx, c.Text)
		if err != nil {
			return nil, err
		}
		switch {
		case exists:
			kept = append(kept, c)
		case c.Kind == clip.HasLabel:
			// nothing can carry a label that was never created
			return nil, nil
		}
	}

	q, err := Plan(kept)
	if err != nil {
		return nil, err
	}
	log.Debug("search", "sql", q.SQL, "args", len(q.Args))

	rows, err := s.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, errs.E(errs.DatabaseRead, "search", err)
	}
	defer rows.Close()

	var out []clip.Clip
	for rows.Next() {
		c, err := scanClip(rows)
		if err != nil {
			return nil, errs.E(errs.DatabaseRead, "search", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.E(errs.DatabaseRead, "search", err)
	}
	return out, nil
}

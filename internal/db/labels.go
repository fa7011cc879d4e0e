package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stormlightlabs/clipstash/internal/errs"
)

// Labels returns every known label name.
func (s *Store) Labels(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM labels ORDER BY name`)
	if err != nil {
		return nil, errs.E(errs.DatabaseRead, "list labels", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errs.E(errs.DatabaseRead, "list labels", err)
		}
		labels = append(labels, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.E(errs.DatabaseRead, "list labels", err)
	}
	return labels, nil
}

func (s *Store) labelExists(ctx context.Context, name string) (bool, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM labels WHERE name = ?)`, name).Scan(&exists); err != nil {
		return false, errs.E(errs.DatabaseRead, "label exists", err)
	}
	return exists == 1, nil
}

// CreateLabel registers a label and its membership table.
func (s *Store) CreateLabel(ctx context.Context, name string) error {
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		return ensureLabel(ctx, tx, name)
	})
	if err != nil {
		return errs.E(errs.DatabaseWrite, "create label", err)
	}
	return nil
}

func ensureLabel(ctx context.Context, q queryer, name string) error {
	if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO labels (name) VALUES (?)`, name); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx, createLabelTable(name))
	return err
}

// ChangeClipLabel adds or removes a label on a clip. Adding an unknown
// label creates it. Adding to a missing clip fails with ClipNotFound;
// removing from one is a no-op.
func (s *Store) ChangeClipLabel(ctx context.Context, id int64, label string, add bool) error {
	if !add {
		exists, err := s.labelExists(ctx, label)
		if err != nil || !exists {
			return err
		}
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+LabelTable(label)+` WHERE id = ?`, id); err != nil {
			return errs.E(errs.DatabaseWrite, "remove label", err)
		}
		return nil
	}

	if _, ok, err := s.GetClip(ctx, id); err != nil {
		return err
	} else if !ok {
		return errs.NotFound("add label", id)
	}

	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		if err := ensureLabel(ctx, tx, label); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO `+LabelTable(label)+` (id) VALUES (?)`, id)
		return err
	})
	if err != nil {
		return errs.E(errs.DatabaseWrite, "add label", err)
	}
	return nil
}

// ClipHasLabel reports whether a clip carries label.
func (s *Store) ClipHasLabel(ctx context.Context, id int64, label string) (bool, error) {
	exists, err := s.labelExists(ctx, label)
	if err != nil || !exists {
		return false, err
	}
	var has int
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM `+LabelTable(label)+` WHERE id = ?)`, id).Scan(&has); err != nil {
		return false, errs.E(errs.DatabaseRead, "clip has label", err)
	}
	return has == 1, nil
}

// LabelClipCount returns how many clips carry label.
func (s *Store) LabelClipCount(ctx context.Context, label string) (int, error) {
	exists, err := s.labelExists(ctx, label)
	if err != nil || !exists {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+LabelTable(label)).Scan(&count); err != nil {
		return 0, errs.E(errs.DatabaseRead, "count label clips", err)
	}
	return count, nil
}

// LabelClipIDAtPos returns the id at pos among the ascending ids carrying
// label.
func (s *Store) LabelClipIDAtPos(ctx context.Context, label string, pos int) (int64, bool, error) {
	if pos < 0 {
		return 0, false, nil
	}
	exists, err := s.labelExists(ctx, label)
	if err != nil || !exists {
		return 0, false, err
	}
	var id int64
	err = s.db.QueryRowContext(ctx, `SELECT id FROM `+LabelTable(label)+` ORDER BY id ASC LIMIT 1 OFFSET ?`, pos).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errs.E(errs.DatabaseRead, "label id at position", err)
	}
	return id, true, nil
}

// LabelClipIDs returns every id carrying label in ascending order.
func (s *Store) LabelClipIDs(ctx context.Context, label string) ([]int64, error) {
	exists, err := s.labelExists(ctx, label)
	if err != nil || !exists {
		return nil, err
	}
	ids, err := idsWhere(ctx, s.db, `SELECT id FROM `+LabelTable(label)+` ORDER BY id ASC`)
	if err != nil {
		return nil, errs.E(errs.DatabaseRead, "list label clips", err)
	}
	return ids, nil
}

// ClipLabels returns the labels a clip carries.
func (s *Store) ClipLabels(ctx context.Context, id int64) ([]string, error) {
	labels, err := s.Labels(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, label := range labels {
		has, err := s.ClipHasLabel(ctx, id, label)
		if err != nil {
			return nil, err
		}
		if has {
			out = append(out, label)
		}
	}
	return out, nil
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/clipstash/internal/blob"
	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/codec"
	"github.com/stormlightlabs/clipstash/internal/errs"
)

const clipColumns = `clips.id, clips.type, clips.data, clips.search_text, clips.timestamp`

func encodeData(t clip.Type, data []byte) ([]byte, error) {
	if !t.Compressed() {
		return data, nil
	}
	return codec.Gzip(data)
}

// decodeData accepts uncompressed text payloads too, so rows written by
// hand or by older tools still read back.
func decodeData(t clip.Type, data []byte) ([]byte, error) {
	if !t.Compressed() || !codec.IsGzip(data) {
		return data, nil
	}
	return codec.Gunzip(data)
}

// NewClip inserts c and returns its id. With autoDelete set, earlier clips
// carrying the same payload are removed first.
func (s *Store) NewClip(ctx context.Context, c clip.Clip, autoDelete bool) (int64, error) {
	if !c.Type.Valid() {
		return 0, errs.Errorf(errs.DatabaseWrite, "new clip", "invalid clip type %d", int(c.Type))
	}
	if c.Timestamp == 0 {
		c.Timestamp = time.Now().Unix()
	}
	data, err := encodeData(c.Type, c.Data)
	if err != nil {
		return 0, errs.E(errs.DatabaseWrite, "compress clip", err)
	}
	if data == nil {
		data = []byte{}
	}

	var id int64
	err = s.WithTx(ctx, func(tx *sql.Tx) error {
		if autoDelete {
			removed, err := idsWhere(ctx, tx, `SELECT id FROM clips WHERE type = ? AND data = ?`, int(c.Type), data)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM clips WHERE type = ? AND data = ?`, int(c.Type), data); err != nil {
				return err
			}
			for _, rid := range removed {
				s.clips.Delete(rid)
			}
			if len(removed) > 0 {
				log.Debug("removed duplicate clips", "count", len(removed))
			}
		}

		res, err := tx.ExecContext(
			ctx,
			`INSERT INTO clips (type, data, search_text, timestamp) VALUES (?, ?, ?, ?)`,
			int(c.Type), data, c.SearchText, c.Timestamp,
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, errs.E(errs.DatabaseWrite, "new clip", err)
	}
	return id, nil
}

// GetClip returns the clip with the given id. ok is false when it does not
// exist.
func (s *Store) GetClip(ctx context.Context, id int64) (clip.Clip, bool, error) {
	if c, ok := s.clips.Get(id); ok {
		return c, true, nil
	}

	c, err := scanClip(s.db.QueryRowContext(ctx, `SELECT `+clipColumns+` FROM clips WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return clip.Clip{}, false, nil
	}
	if err != nil {
		return clip.Clip{}, false, errs.E(errs.DatabaseRead, "get clip", err)
	}
	s.clips.Put(c)
	return c, true, nil
}

// LatestClipID returns the highest id.
func (s *Store) LatestClipID(ctx context.Context) (int64, bool, error) {
	var id sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(id) FROM clips`).Scan(&id); err != nil {
		return 0, false, errs.E(errs.DatabaseRead, "latest clip id", err)
	}
	return id.Int64, id.Valid, nil
}

// MaxID returns the highest id, or 0 for an empty store.
func (s *Store) MaxID(ctx context.Context) (int64, error) {
	id, _, err := s.LatestClipID(ctx)
	return id, err
}

func (s *Store) CountClips(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clips`).Scan(&count); err != nil {
		return 0, errs.E(errs.DatabaseRead, "count clips", err)
	}
	return count, nil
}

// IDAtPos returns the id at position pos of the ascending id sequence.
func (s *Store) IDAtPos(ctx context.Context, pos int) (int64, bool, error) {
	if pos < 0 {
		return 0, false, nil
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM clips ORDER BY id ASC LIMIT 1 OFFSET ?`, pos).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errs.E(errs.DatabaseRead, "id at position", err)
	}
	return id, true, nil
}

// PosOfID is the inverse of IDAtPos.
func (s *Store) PosOfID(ctx context.Context, id int64) (int, bool, error) {
	var exists, pos int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM clips WHERE id = ?), (SELECT COUNT(*) FROM clips WHERE id < ?)`,
		id, id,
	).Scan(&exists, &pos)
	if err != nil {
		return 0, false, errs.E(errs.DatabaseRead, "position of id", err)
	}
	return pos, exists == 1, nil
}

// ClipIDs returns every id in ascending order.
func (s *Store) ClipIDs(ctx context.Context) ([]int64, error) {
	ids, err := idsWhere(ctx, s.db, `SELECT id FROM clips ORDER BY id ASC`)
	if err != nil {
		return nil, errs.E(errs.DatabaseRead, "list clip ids", err)
	}
	return ids, nil
}

// DeleteClip removes a clip. Deleting a missing id is a no-op. The blob of
// an image clip is removed once no other clip references it.
func (s *Store) DeleteClip(ctx context.Context, id int64) error {
	c, ok, err := s.GetClip(ctx, id)
	if err != nil || !ok {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM clips WHERE id = ?`, id); err != nil {
		return errs.E(errs.DatabaseWrite, "delete clip", err)
	}
	s.clips.Delete(id)

	if c.Type != clip.Image {
		return nil
	}
	var remaining int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clips WHERE type = ? AND data = ?`, int(clip.Image), c.Data).Scan(&remaining); err != nil {
		return errs.E(errs.DatabaseRead, "count blob references", err)
	}
	if remaining > 0 {
		return nil
	}
	log.Debug("removing unreferenced blob", "path", c.Text())
	return blob.Remove(c.Text())
}

func idsWhere(ctx context.Context, q queryer, query string, args ...any) ([]int64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"bridge-lite/advisor"
)

// sqlService is shared by the SQLite and Postgres backends. Queries are
// written with ? placeholders and rebound for drivers that number them.
type sqlService struct {
	db       *sql.DB
	retain   int
	numbered bool
	logger   *zap.Logger
	now      func() time.Time
}

func (s *sqlService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqlService) rebind(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlService) Record(ctx context.Context, systemName string, rec *advisor.Recommendation) error {
	r, err := newRecord(systemName, rec, s.now())
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.rebind(`
INSERT INTO bridge_recommendations (
    id, system_name, seat, bid, source, phase, overridden, payload_b64, created_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`), r.ID, r.System, r.Seat, r.Bid, r.Source, r.Phase, r.Overridden, r.PayloadB64, r.CreatedAt.UnixMilli()); err != nil {
		s.logger.Warn("insert recommendation failed", zap.String("id", r.ID), zap.Error(err))
		return err
	}

	if s.retain > 0 {
		if _, err := tx.ExecContext(ctx, s.rebind(`
DELETE FROM bridge_recommendations
WHERE seq <= (
    SELECT seq
    FROM bridge_recommendations
    ORDER BY seq DESC
    LIMIT 1 OFFSET ?
)
`), s.retain); err != nil {
			s.logger.Warn("trim recommendations failed", zap.Error(err))
			return err
		}
	}
	return tx.Commit()
}

func (s *sqlService) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	limit = clampLimit(limit)
	rows, err := s.db.QueryContext(ctx, s.rebind(`
SELECT id, system_name, seat, bid, source, phase, overridden, payload_b64, created_at_ms
FROM bridge_recommendations
ORDER BY seq DESC
LIMIT ?
`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Record, 0, limit)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

func (s *sqlService) Get(ctx context.Context, id string) (*Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, s.rebind(`
SELECT id, system_name, seat, bid, source, phase, overridden, payload_b64, created_at_ms
FROM bridge_recommendations
WHERE id = ?
`), id)
	r, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var r Record
	var createdMs int64
	if err := row.Scan(&r.ID, &r.System, &r.Seat, &r.Bid, &r.Source, &r.Phase, &r.Overridden, &r.PayloadB64, &createdMs); err != nil {
		return Record{}, err
	}
	r.CreatedAt = time.UnixMilli(createdMs).UTC()
	return r, nil
}

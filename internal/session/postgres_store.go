package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresStore keeps sessions in the user_sessions table.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

const (
	upsertSessionSQL = `INSERT INTO user_sessions (sid, user_id, created_at, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (sid) DO UPDATE SET user_id = EXCLUDED.user_id, expires_at = EXCLUDED.expires_at`
	selectSessionSQL = `SELECT sid, user_id, created_at, expires_at FROM user_sessions WHERE sid = $1 AND expires_at > $2`
	deleteSessionSQL = `DELETE FROM user_sessions WHERE sid = $1`
	pruneSessionsSQL = `DELETE FROM user_sessions WHERE expires_at <= $1`
)

func (p *PostgresStore) Set(ctx context.Context, s Session) error {
	if s.ID == "" {
		return fmt.Errorf("session: missing session id")
	}
	if _, err := p.db.ExecContext(ctx, upsertSessionSQL, s.ID, s.UserID, s.CreatedAt, s.ExpiresAt); err != nil {
		return fmt.Errorf("session: postgres upsert: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	var s Session
	err := p.db.QueryRowContext(ctx, selectSessionSQL, sessionID, p.now()).
		Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: postgres get: %w", err)
	}
	return &s, nil
}

func (p *PostgresStore) Destroy(ctx context.Context, sessionID string) error {
	if _, err := p.db.ExecContext(ctx, deleteSessionSQL, sessionID); err != nil {
		return fmt.Errorf("session: postgres delete: %w", err)
	}
	return nil
}

// PruneExpired deletes expired rows and returns how many were removed.
func (p *PostgresStore) PruneExpired(ctx context.Context) (int64, error) {
	res, err := p.db.ExecContext(ctx, pruneSessionsSQL, p.now())
	if err != nil {
		return 0, fmt.Errorf("session: postgres prune: %w", err)
	}
	return res.RowsAffected()
}

// RunPruner calls PruneExpired every interval until ctx is done.
func (p *PostgresStore) RunPruner(ctx context.Context, interval time.Duration, onErr func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.PruneExpired(ctx); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}

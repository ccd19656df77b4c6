package thesis

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"thesisdesk.org/internal/ids"
)

const queryTimeout = 5 * time.Second

var _ Store = (*PGStore)(nil)

// PGStore implements Store against PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) ListByOwner(ctx context.Context, ownerID int64) ([]Thesis, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`select id, owner_id, title, summary, created_at from theses where owner_id = $1 order by created_at desc`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	theses := make([]Thesis, 0)
	for rows.Next() {
		var th Thesis
		if err := rows.Scan(&th.ID, &th.OwnerID, &th.Title, &th.Summary, &th.CreatedAt); err != nil {
			return nil, err
		}
		theses = append(theses, th)
	}
	return theses, rows.Err()
}

func (s *PGStore) Create(ctx context.Context, th *Thesis) error {
	if strings.TrimSpace(th.Title) == "" || strings.TrimSpace(th.Summary) == "" {
		return ErrInvalidInput
	}
	if th.ID == "" {
		th.ID = ids.New()
	}
	if th.CreatedAt.IsZero() {
		th.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`insert into theses(id, owner_id, title, summary, created_at) values($1,$2,$3,$4,$5)`,
		th.ID, th.OwnerID, th.Title, th.Summary, th.CreatedAt)
	return err
}

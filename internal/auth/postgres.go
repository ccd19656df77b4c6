package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// queryTimeout bounds every credential lookup so a hung store cannot hang
// the request indefinitely.
const queryTimeout = 5 * time.Second

var _ Store = (*PGStore)(nil)

// PGStore implements Store against PostgreSQL. Email uniqueness is assumed
// within each table; the union does not enforce it across tables, so the
// first matching row wins.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const credentialQuery = `
	select id, email, password, 'student' as role from students where email = $1
	union all
	select id, email, password, 'professor' as role from professors where email = $1
	limit 1`

func (s *PGStore) FindByEmail(ctx context.Context, email string) (*CredentialRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, credentialQuery, email)
	var rec CredentialRecord
	if err := row.Scan(&rec.ID, &rec.Email, &rec.PasswordHash, &rec.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

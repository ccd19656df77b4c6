// Package thesis manages thesis records owned by authenticated users.
package thesis

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidInput = errors.New("thesis: title and summary are required")

// Thesis is one supervised thesis record.
type Thesis struct {
	ID        string    `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// Store describes thesis persistence. Listing is always scoped to the
// caller's identity; there is no cross-owner query surface.
type Store interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]Thesis, error)
	Create(ctx context.Context, th *Thesis) error
}

package storage

import (
	"context"
	"phishfeatures/pkg/domain"
	"phishfeatures/pkg/features"
	"time"
)

// ExtractionUpdates is the set of fields an update writes. Status is always
// written; nil pointers leave their column untouched.
type ExtractionUpdates struct {
	Status domain.ExtractionStatus
	// Features replaces the stored vector and stamps it with SchemaVersion.
	Features      *features.Vector
	SchemaVersion int
	// LastError sets the last error; an empty string clears it.
	LastError *string
	// MaxAttempts guards a transition to failed: when positive, rows only turn
	// failed once their incremented attempts reach it and stay pending before.
	MaxAttempts int
}

// ExtractionCursor is the position after which a history page starts. Rows
// of one batch share created_at, so the ID breaks ties.
type ExtractionCursor struct {
	CreatedAt time.Time
	ID        domain.ExtractionID
}

// IsZero reports whether c points at the start of the history.
func (c ExtractionCursor) IsZero() bool {
	return c.CreatedAt.IsZero()
}

// UserExtractions is one page of a user's extractions, newest first.
type UserExtractions struct {
	Extractions []domain.Extraction
	// NextCursor is the last row of this page, nil on the last page.
	NextCursor *ExtractionCursor
}

// ExtractionStorage persists extractions. Soft-deleted rows are invisible to
// every method except LastCompletedExtractionByURL.
type ExtractionStorage interface {
	// StoreExtractions inserts rows and returns them with generated fields set.
	StoreExtractions(ctx context.Context, extractions ...domain.Extraction) ([]domain.Extraction, error)
	// UpdatePendingExtractionsByURL applies updates to every pending row of
	// URL, incrementing attempts.
	UpdatePendingExtractionsByURL(ctx context.Context, URL string, updates ExtractionUpdates) error
	// PendingExtractionCountByURL counts pending rows of URL across users.
	PendingExtractionCountByURL(ctx context.Context, URL string) (int64, error)
	// UpdateExtractionByID applies updates to one row and returns it, or nil
	// when it does not exist.
	UpdateExtractionByID(ctx context.Context,
		ID domain.ExtractionID,
		updates ExtractionUpdates) (*domain.Extraction, error)
	// DeleteExtraction soft-deletes a user's row and returns it, or nil when
	// it does not exist.
	DeleteExtraction(ctx context.Context, userID domain.UserID, ID domain.ExtractionID) (*domain.Extraction, error)
	// UserExtractions returns up to limit rows of a user ordered after
	// cursor (from the newest when zero), optionally filtered by status.
	UserExtractions(ctx context.Context,
		userID domain.UserID,
		status domain.ExtractionStatus,
		cursor ExtractionCursor,
		limit uint) (UserExtractions, error)
	// ExtractionByID returns a user's row, or nil.
	ExtractionByID(ctx context.Context, userID domain.UserID, ID domain.ExtractionID) (*domain.Extraction, error)
	// LastCompletedExtractionByURL returns the most recently completed row of
	// URL computed with schemaVersion across users, deleted or not, or nil.
	LastCompletedExtractionByURL(ctx context.Context, URL string, schemaVersion int) (*domain.Extraction, error)
}

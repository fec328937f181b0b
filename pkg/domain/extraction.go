package domain

import (
	"fmt"
	"phishfeatures/pkg/features"
	"time"

	"github.com/google/uuid"
)

// ExtractionID uniquely identifies a stored extraction.
type ExtractionID uuid.UUID

// ParseExtractionID parses the canonical textual form of an extraction ID.
func ParseExtractionID(s string) (ExtractionID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ExtractionID{}, fmt.Errorf("invalid extraction id %q: %w", s, err)
	}

	return ExtractionID(id), nil
}

func (id ExtractionID) String() string { return uuid.UUID(id).String() }

// ExtractionStatus is the lifecycle state of an extraction.
type ExtractionStatus string

const (
	// ExtractionStatusPending means the URL is queued for background extraction.
	ExtractionStatusPending ExtractionStatus = "PENDING"
	// ExtractionStatusCompleted means Features holds the vector of URL.
	ExtractionStatusCompleted ExtractionStatus = "COMPLETED"
	// ExtractionStatusFailed means every attempt failed; see LastError.
	ExtractionStatusFailed ExtractionStatus = "FAILED"
)

// Valid reports whether s is one of the known statuses.
func (s ExtractionStatus) Valid() bool {
	switch s {
	case ExtractionStatusPending, ExtractionStatusCompleted, ExtractionStatusFailed:
		return true
	default:
		return false
	}
}

// Extraction is the stored feature vector of one URL requested by one user.
type Extraction struct {
	ID     ExtractionID
	UserID UserID

	// URL is the trimmed input exactly as features were computed from it.
	URL    string
	Status ExtractionStatus
	// Features is only meaningful once Status is completed.
	Features features.Vector
	// SchemaVersion is the features.SchemaVersion Features was computed with.
	SchemaVersion int

	Attempts  uint
	LastError string

	CreatedAt time.Time
	UpdatedAt time.Time
	// DeletedAt is zero unless the extraction was soft-deleted.
	DeletedAt time.Time
}

// Package extractor is the service layer over the feature computer: it
// validates input, persists extractions and schedules batch work on River.
package extractor

import (
	"context"
	"phishfeatures/pkg/domain"
	"phishfeatures/pkg/features"
)

//go:generate mockgen -package mockextractor -source=interface.go -destination=mock/mockextractor.go *
type Extractor interface {
	// Features computes the vector of URL without storing anything.
	Features(ctx context.Context, URL string) (features.Vector, error)
	// Extract computes the vector of URL and stores it as a completed extraction.
	Extract(ctx context.Context, userID domain.UserID, URL string) (*domain.Extraction, error)
	// Enqueue stores one extraction per URL and schedules background jobs for
	// them. Extractions whose vector is already known come back completed.
	Enqueue(ctx context.Context, userID domain.UserID, URLs []string) ([]domain.Extraction, error)
	// Process computes the vector of URL and completes every pending
	// extraction of it. It is the body of the background job.
	Process(ctx context.Context, URL string) error
	UserExtractions(ctx context.Context,
		userID domain.UserID,
		status domain.ExtractionStatus,
		cursor string,
		limit uint) ([]domain.Extraction, string, error)
	Result(ctx context.Context, userID domain.UserID, ID domain.ExtractionID) (*domain.Extraction, error)
	Delete(ctx context.Context, userID domain.UserID, ID domain.ExtractionID) error
}

package postgres

import (
	"database/sql"
	"database/sql/driver"
	"phishfeatures/pkg/domain"
	"phishfeatures/pkg/features"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// NullVector is a feature vector stored in a nullable jsonb column.
type NullVector struct {
	Vector features.Vector
	Valid  bool
}

// Value implements driver.Valuer.
func (v NullVector) Value() (driver.Value, error) {
	if !v.Valid {
		return nil, nil
	}

	b, err := v.Vector.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "could not encode features")
	}

	return string(b), nil
}

// Scan implements sql.Scanner.
func (v *NullVector) Scan(src any) error {
	var b []byte
	switch s := src.(type) {
	case nil:
		*v = NullVector{}

		return nil
	case []byte:
		b = s
	case string:
		b = []byte(s)
	default:
		return errors.Errorf("cannot scan %T into features", src)
	}

	var vec features.Vector
	if err := vec.UnmarshalJSON(b); err != nil {
		return errors.Wrap(err, "could not decode features")
	}
	*v = NullVector{Vector: vec, Valid: true}

	return nil
}

// PgExtraction is a row of the extractions table.
type PgExtraction struct {
	ID     uuid.UUID `db:"id"      goqu:"skipinsert"`
	UserID uuid.UUID `db:"user_id"`

	URL           string     `db:"url"`
	Status        string     `db:"status"`
	Features      NullVector `db:"features"`
	SchemaVersion int        `db:"schema_version"`

	Attempts  uint           `db:"attempts"   goqu:"skipinsert"`
	LastError sql.NullString `db:"last_error" goqu:"skipinsert"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
	DeletedAt sql.NullTime `db:"deleted_at" goqu:"skipinsert"`
}

func (p *PgExtraction) ToDomain() *domain.Extraction {
	return &domain.Extraction{
		ID:            domain.ExtractionID(p.ID),
		UserID:        domain.UserID(p.UserID),
		URL:           p.URL,
		Status:        domain.ExtractionStatus(p.Status),
		Features:      p.Features.Vector,
		SchemaVersion: p.SchemaVersion,
		Attempts:      p.Attempts,
		LastError:     p.LastError.String,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt.Time,
		DeletedAt:     p.DeletedAt.Time,
	}
}

// FromDomain fills p from e. Only completed extractions carry features.
func (p *PgExtraction) FromDomain(e domain.Extraction) {
	*p = PgExtraction{
		ID:     uuid.UUID(e.ID),
		UserID: uuid.UUID(e.UserID),
		URL:    e.URL,
		Status: string(e.Status),
		Features: NullVector{
			Vector: e.Features,
			Valid:  e.Status == domain.ExtractionStatusCompleted,
		},
		SchemaVersion: e.SchemaVersion,
		Attempts:      e.Attempts,
		LastError: sql.NullString{
			String: e.LastError,
			Valid:  e.LastError != "",
		},
		CreatedAt: e.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  e.UpdatedAt,
			Valid: !e.UpdatedAt.IsZero(),
		},
		DeletedAt: sql.NullTime{
			Time:  e.DeletedAt,
			Valid: !e.DeletedAt.IsZero(),
		},
	}
}

func domainExtractionsToPg(extractions []domain.Extraction) []PgExtraction {
	out := make([]PgExtraction, len(extractions))
	for i := range out {
		out[i].FromDomain(extractions[i])
	}

	return out
}

func pgExtractionsToDomain(rows []PgExtraction) []domain.Extraction {
	out := make([]domain.Extraction, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out
}

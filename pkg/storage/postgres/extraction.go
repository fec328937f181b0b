package postgres

import (
	"context"
	"phishfeatures/pkg/domain"
	"phishfeatures/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

const (
	extractionsTable = "extractions"
)

func (p *PgSQL) StoreExtractions(ctx context.Context, extractions ...domain.Extraction) ([]domain.Extraction, error) {
	if len(extractions) == 0 {
		return nil, nil
	}

	var result []PgExtraction
	if err := p.Builder.Insert(extractionsTable).
		Rows(domainExtractionsToPg(extractions)).
		Returning(&PgExtraction{}).
		Executor().ScanStructsContext(ctx, &result); err != nil {
		return nil, errors.Wrap(err, "could not store extractions into pg")
	}

	return pgExtractionsToDomain(result), nil
}

// updateRecord translates updates into the columns to set. Attempts are only
// incremented when incAttempts is set.
func updateRecord(updates storage.ExtractionUpdates, incAttempts bool) (goqu.Record, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		"status":     string(updates.Status),
	}
	if incAttempts {
		rec["attempts"] = goqu.L("attempts + 1")
	}
	if updates.Status == domain.ExtractionStatusFailed && updates.MaxAttempts > 0 {
		rec["status"] = goqu.Case().
			When(goqu.L("attempts + 1 >= ?", updates.MaxAttempts), string(domain.ExtractionStatusFailed)).
			Else(goqu.I("status"))
	}
	if updates.Features != nil {
		v, err := NullVector{Vector: *updates.Features, Valid: true}.Value()
		if err != nil {
			return nil, err
		}
		rec["features"] = goqu.L("?::jsonb", v)
		rec["schema_version"] = updates.SchemaVersion
	}
	if updates.LastError != nil {
		if *updates.LastError == "" {
			rec["last_error"] = nil
		} else {
			rec["last_error"] = *updates.LastError
		}
	}

	return rec, nil
}

func (p *PgSQL) UpdatePendingExtractionsByURL(ctx context.Context,
	URL string,
	updates storage.ExtractionUpdates) error {
	rec, err := updateRecord(updates, true)
	if err != nil {
		return err
	}

	if _, err := p.Builder.Update(extractionsTable).
		Set(rec).
		Where(
			goqu.I("url").Eq(URL),
			goqu.I("status").Eq(string(domain.ExtractionStatusPending)),
			goqu.I("deleted_at").IsNull(),
		).Executor().ExecContext(ctx); err != nil {
		return errors.Wrap(err, "could not update pending extractions by url in pg")
	}

	return nil
}

func (p *PgSQL) PendingExtractionCountByURL(ctx context.Context, URL string) (int64, error) {
	count, err := p.Builder.From(extractionsTable).
		Where(
			goqu.I("url").Eq(URL),
			goqu.I("status").Eq(string(domain.ExtractionStatusPending)),
			goqu.I("deleted_at").IsNull(),
		).CountContext(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "could not count pending extractions in pg")
	}

	return count, nil
}

func (p *PgSQL) UpdateExtractionByID(ctx context.Context,
	id domain.ExtractionID,
	updates storage.ExtractionUpdates) (*domain.Extraction, error) {
	rec, err := updateRecord(updates, false)
	if err != nil {
		return nil, err
	}

	var row PgExtraction
	found, err := p.Builder.Update(extractionsTable).
		Set(rec).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("deleted_at").IsNull(),
		).Returning(&PgExtraction{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, errors.Wrap(err, "could not update extraction in pg")
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// DeleteExtraction soft-deletes by setting deleted_at.
func (p *PgSQL) DeleteExtraction(ctx context.Context,
	userID domain.UserID,
	id domain.ExtractionID) (*domain.Extraction, error) {
	var row PgExtraction
	found, err := p.Builder.Update(extractionsTable).
		Set(goqu.Record{
			"deleted_at": goqu.L("CURRENT_TIMESTAMP"),
		}).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("user_id").Eq(uuid.UUID(userID)),
		goqu.I("deleted_at").IsNull(),
	).Returning(&PgExtraction{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, errors.Wrap(err, "could not delete extraction in pg")
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// UserExtractions orders by created_at DESC, id DESC and fetches one extra row
// to learn whether another page exists. The cursor compares as a row value so
// rows sharing created_at are split by id.
func (p *PgSQL) UserExtractions(ctx context.Context,
	userID domain.UserID,
	status domain.ExtractionStatus,
	cursor storage.ExtractionCursor,
	limit uint) (storage.UserExtractions, error) {
	w := []exp.Expression{
		goqu.I("user_id").Eq(uuid.UUID(userID)),
		goqu.I("deleted_at").IsNull(),
	}
	if status != "" {
		w = append(w, goqu.I("status").Eq(string(status)))
	}
	if !cursor.IsZero() {
		w = append(w, goqu.L("(created_at, id) < (?, ?)", cursor.CreatedAt, uuid.UUID(cursor.ID)))
	}

	var rows []PgExtraction
	if err := p.Builder.From(extractionsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(limit+1).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.UserExtractions{}, errors.Wrap(err, "could not fetch user extractions from pg")
	}

	var nextCursor *storage.ExtractionCursor
	if uint(len(rows)) > limit {
		rows = rows[:limit]
		if limit > 0 {
			last := rows[len(rows)-1]
			nextCursor = &storage.ExtractionCursor{
				CreatedAt: last.CreatedAt,
				ID:        domain.ExtractionID(last.ID),
			}
		}
	}

	return storage.UserExtractions{
		Extractions: pgExtractionsToDomain(rows),
		NextCursor:  nextCursor,
	}, nil
}

func (p *PgSQL) ExtractionByID(ctx context.Context,
	userID domain.UserID,
	id domain.ExtractionID) (*domain.Extraction, error) {
	var row PgExtraction
	found, err := p.Builder.From(extractionsTable).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("user_id").Eq(uuid.UUID(userID)),
			goqu.I("deleted_at").IsNull(),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch extraction by id")
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// LastCompletedExtractionByURL ignores deleted_at: a user deleting their record
// does not invalidate the vector for everyone else.
func (p *PgSQL) LastCompletedExtractionByURL(ctx context.Context,
	URL string,
	schemaVersion int) (*domain.Extraction, error) {
	var row PgExtraction
	found, err := p.Builder.From(extractionsTable).
		Where(
			goqu.I("url").Eq(URL),
			goqu.I("status").Eq(string(domain.ExtractionStatusCompleted)),
			goqu.I("schema_version").Eq(schemaVersion),
		).
		Order(goqu.I("updated_at").Desc().NullsLast()).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch last completed extraction")
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

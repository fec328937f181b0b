package v1handler

import (
	"net/http"
	"phishfeatures/pkg/domain"
	"phishfeatures/pkg/serrors"
	"strconv"
	"time"

	"github.com/go-faster/jx"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

func encodeExtraction(e *jx.Encoder, in *domain.Extraction) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(in.ID.String())
	e.FieldStart("url")
	e.Str(in.URL)
	e.FieldStart("status")
	e.Str(string(in.Status))
	e.FieldStart("features")
	if in.Status == domain.ExtractionStatusCompleted {
		in.Features.Encode(e)
	} else {
		e.Null()
	}
	e.FieldStart("schemaVersion")
	e.Int(in.SchemaVersion)
	e.FieldStart("attempts")
	e.UInt(in.Attempts)
	if in.LastError != "" {
		e.FieldStart("lastError")
		e.Str(in.LastError)
	}
	e.FieldStart("createdAt")
	e.Str(in.CreatedAt.UTC().Format(time.RFC3339Nano))
	if !in.UpdatedAt.IsZero() {
		e.FieldStart("updatedAt")
		e.Str(in.UpdatedAt.UTC().Format(time.RFC3339Nano))
	}
	e.ObjEnd()
}

func encodeExtractions(e *jx.Encoder, in []domain.Extraction) {
	e.ArrStart()
	for i := range in {
		encodeExtraction(e, &in[i])
	}
	e.ArrEnd()
}

func pathExtractionID(r *http.Request) (domain.ExtractionID, error) {
	id, err := domain.ParseExtractionID(r.PathValue("id"))
	if err != nil {
		return id, serrors.Wrap(serrors.ErrBadRequest, err, "invalid extraction id")
	}

	return id, nil
}

// CreateExtraction computes and stores the vector of a URL.
func (h Handler) CreateExtraction(w http.ResponseWriter, r *http.Request) {
	req, err := decodeFeaturesRequest(w, r)
	if err != nil {
		writeError(w, r, err)

		return
	}

	res, err := h.deps.Extractor.Extract(r.Context(), GetUserIDFromContext(r.Context()), req.URL)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeExtraction(e, res) })
}

// CreateExtractionBatch schedules background extraction of several URLs.
func (h Handler) CreateExtractionBatch(w http.ResponseWriter, r *http.Request) {
	URLs, err := decodeBatchRequest(w, r)
	if err != nil {
		writeError(w, r, err)

		return
	}

	res, err := h.deps.Extractor.Enqueue(r.Context(), GetUserIDFromContext(r.Context()), URLs)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusAccepted, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("items")
		encodeExtractions(e, res)
		e.ObjEnd()
	})
}

// ListExtractions returns a page of the caller's extractions, newest first.
func (h Handler) ListExtractions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := uint64(DefaultLimit)
	if s := q.Get("limit"); s != "" {
		l, err := strconv.ParseUint(s, 10, 32)
		if err != nil || l == 0 || l > MaxLimit {
			writeError(w, r, serrors.With(serrors.ErrBadRequest, "limit must be between 1 and %d", MaxLimit))

			return
		}
		limit = l
	}

	items, nextCursor, err := h.deps.Extractor.UserExtractions(r.Context(),
		GetUserIDFromContext(r.Context()),
		domain.ExtractionStatus(q.Get("status")),
		q.Get("cursor"),
		uint(limit))
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("items")
		encodeExtractions(e, items)
		e.FieldStart("nextCursor")
		if nextCursor != "" {
			e.Str(nextCursor)
		} else {
			e.Null()
		}
		e.ObjEnd()
	})
}

// GetExtraction returns one of the caller's extractions.
func (h Handler) GetExtraction(w http.ResponseWriter, r *http.Request) {
	id, err := pathExtractionID(r)
	if err != nil {
		writeError(w, r, err)

		return
	}

	res, err := h.deps.Extractor.Result(r.Context(), GetUserIDFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeExtraction(e, res) })
}

// DeleteExtraction soft-deletes one of the caller's extractions.
func (h Handler) DeleteExtraction(w http.ResponseWriter, r *http.Request) {
	id, err := pathExtractionID(r)
	if err != nil {
		writeError(w, r, err)

		return
	}

	if err := h.deps.Extractor.Delete(r.Context(), GetUserIDFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

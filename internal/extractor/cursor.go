package extractor

import (
	"errors"
	"phishfeatures/pkg/domain"
	"phishfeatures/pkg/storage"
	"strings"
	"time"
)

// cursorSeparator never occurs in an RFC 3339 time or a UUID.
const cursorSeparator = "_"

// encodeCursor renders c as "<RFC 3339 created_at>_<id>".
func encodeCursor(c storage.ExtractionCursor) string {
	return c.CreatedAt.UTC().Format(time.RFC3339Nano) + cursorSeparator + c.ID.String()
}

func decodeCursor(s string) (storage.ExtractionCursor, error) {
	ts, id, ok := strings.Cut(s, cursorSeparator)
	if !ok {
		return storage.ExtractionCursor{}, errors.New("cursor has no id part")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return storage.ExtractionCursor{}, err
	}
	ID, err := domain.ParseExtractionID(id)
	if err != nil {
		return storage.ExtractionCursor{}, err
	}

	return storage.ExtractionCursor{CreatedAt: createdAt, ID: ID}, nil
}

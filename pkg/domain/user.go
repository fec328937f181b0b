package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// UserID identifies the owner of extractions. Users are managed outside the
// service; the ID is taken from the subject of the caller's token.
type UserID uuid.UUID

// ParseUserID parses the canonical textual form of a user ID.
func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("invalid user id %q: %w", s, err)
	}

	return UserID(id), nil
}

func (id UserID) String() string { return uuid.UUID(id).String() }

package serrors_test

import (
	"errors"
	"fmt"
	"phishfeatures/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestDefaultKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrNotFound,
		serrors.ErrUnauthorized,
		serrors.ErrForbidden,
		serrors.ErrBadRequest,
		serrors.ErrConflict,
		serrors.ErrInternal,
		serrors.ErrTimeout,
		serrors.ErrUnavailable,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("db down")

	e1 := serrors.With(serrors.ErrNotFound, "extraction %d not found", 42)
	require.Equal(t, "extraction 42 not found", e1.Error())

	e2 := serrors.Wrap(serrors.ErrNotFound, base, "loading extraction")
	require.Equal(t, "loading extraction: db down", e2.Error())

	e3 := serrors.KindOnly(serrors.ErrNotFound)
	require.Equal(t, "NOT_FOUND", e3.Error())

	e4 := serrors.Wrap(serrors.ErrInternal, base, "")
	require.Equal(t, "db down", e4.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrNotFound, base, "reading")

	require.ErrorIs(t, e, serrors.ErrNotFound)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrUnauthorized)

	// through fmt wrapping
	require.ErrorIs(t, fmt.Errorf("outer: %w", e), serrors.ErrNotFound)
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrNotFound, base, "reading")

	var k serrors.Kind
	require.ErrorAs(t, e, &k)
	require.Equal(t, serrors.ErrNotFound, k)

	var ce *customError
	require.ErrorAs(t, e, &ce)
	require.Equal(t, base, ce)
}

func TestAccessors(t *testing.T) {
	base := errors.New("boom")
	e := serrors.Wrap(serrors.ErrUnauthorized, base, "no token")
	require.Equal(t, serrors.ErrUnauthorized, e.Kind())
	require.Equal(t, "no token", e.Message())
	require.Equal(t, base, e.Cause())
}

func TestKindOf(t *testing.T) {
	require.Nil(t, serrors.KindOf(nil))
	require.Nil(t, serrors.KindOf(errors.New("plain")))
	require.Equal(t, serrors.ErrConflict, serrors.KindOf(serrors.ErrConflict))
	require.Equal(t, serrors.ErrBadRequest,
		serrors.KindOf(fmt.Errorf("could not enqueue: %w", serrors.With(serrors.ErrBadRequest, "empty url"))))

	// outermost kind wins
	inner := serrors.KindOnly(serrors.ErrNotFound)
	require.Equal(t, serrors.ErrConflict, serrors.KindOf(serrors.Wrap(serrors.ErrConflict, inner, "outer")))
}

func TestMessageOf(t *testing.T) {
	require.Empty(t, serrors.MessageOf(nil))
	require.Empty(t, serrors.MessageOf(errors.New("plain")))
	require.Empty(t, serrors.MessageOf(serrors.KindOnly(serrors.ErrNotFound)))

	err := fmt.Errorf("ctx: %w", serrors.With(serrors.ErrBadRequest, "url must not be empty"))
	require.Equal(t, "url must not be empty", serrors.MessageOf(err))

	// a message-less wrapper defers to the cause
	err = serrors.Wrap(serrors.ErrBadRequest, serrors.With(serrors.ErrBadRequest, "inner"), "")
	require.Equal(t, "inner", serrors.MessageOf(err))
}

// Package v1handler implements the /v1 JSON API.
package v1handler

import (
	"context"
	"errors"
	"net/http"
	"phishfeatures/internal/extractor"
	"phishfeatures/pkg/logger"
	"phishfeatures/pkg/serrors"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

type Deps struct {
	Extractor extractor.Extractor
}

type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{
		deps: deps,
	}
}

// Routes registers every /v1 route on mux. Extraction routes require a bearer
// token checked by sec.
func (h *Handler) Routes(mux *http.ServeMux, sec *SecHandler) {
	mux.HandleFunc("GET /v1/schema", h.GetSchema)
	mux.HandleFunc("POST /v1/features", h.ComputeFeatures)

	mux.Handle("POST /v1/extractions", sec.Authenticate(http.HandlerFunc(h.CreateExtraction)))
	mux.Handle("POST /v1/extractions/batch", sec.Authenticate(http.HandlerFunc(h.CreateExtractionBatch)))
	mux.Handle("GET /v1/extractions", sec.Authenticate(http.HandlerFunc(h.ListExtractions)))
	mux.Handle("GET /v1/extractions/{id}", sec.Authenticate(http.HandlerFunc(h.GetExtraction)))
	mux.Handle("DELETE /v1/extractions/{id}", sec.Authenticate(http.HandlerFunc(h.DeleteExtraction)))
}

// Error is the body of every non-2xx response.
type Error struct {
	Code    string
	Message string
}

// ErrorStatusCode is an Error together with its HTTP status.
type ErrorStatusCode struct {
	StatusCode int
	Response   Error
}

func (e *ErrorStatusCode) Encode(enc *jx.Encoder) {
	enc.ObjStart()
	enc.FieldStart("code")
	enc.Str(e.Response.Code)
	enc.FieldStart("message")
	enc.Str(e.Response.Message)
	enc.ObjEnd()
}

type errorMapping struct {
	status  int
	message string
}

var errorMappings = map[serrors.Kind]errorMapping{ //nolint: gochecknoglobals
	serrors.ErrNotFound:     {http.StatusNotFound, "resource not found"},
	serrors.ErrBadRequest:   {http.StatusBadRequest, "bad request"},
	serrors.ErrUnauthorized: {http.StatusUnauthorized, "unauthorized"},
	serrors.ErrForbidden:    {http.StatusForbidden, "forbidden"},
	serrors.ErrConflict:     {http.StatusConflict, "conflict"},
	serrors.ErrTimeout:      {http.StatusGatewayTimeout, "request timed out"},
	serrors.ErrUnavailable:  {http.StatusServiceUnavailable, "service unavailable"},
}

// NewError maps err to a response. Errors without a known kind become a 500
// whose message never reveals the cause.
func (h Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	return newError(ctx, err)
}

func newError(ctx context.Context, err error) *ErrorStatusCode {
	kind := serrors.KindOf(err)
	mapping, ok := errorMappings[kind]
	if !ok {
		logger.Error(ctx, "internal error", zap.Error(err))

		return &ErrorStatusCode{
			StatusCode: http.StatusInternalServerError,
			Response: Error{
				Code:    serrors.ErrInternal.Error(),
				Message: "internal error",
			},
		}
	}

	logger.Debug(ctx, "request failed", zap.Error(err))

	message := serrors.MessageOf(err)
	if message == "" {
		message = mapping.message
	}

	return &ErrorStatusCode{
		StatusCode: mapping.status,
		Response: Error{
			Code:    kind.Error(),
			Message: message,
		},
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		err = serrors.Wrap(serrors.ErrBadRequest, err, "request body too large")
	}

	res := newError(r.Context(), err)
	writeJSON(w, res.StatusCode, res.Encode)
}

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

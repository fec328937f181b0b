package v1handler

import (
	"net/http"
	"phishfeatures/pkg/serrors"

	"github.com/go-faster/jx"
)

// maxBodyBytes bounds request bodies; a batch of long URLs stays far below it.
const maxBodyBytes = 1 << 20

// decodeBody reads a JSON object from the request body, calling field for
// every key.
func decodeBody(w http.ResponseWriter, r *http.Request, field func(d *jx.Decoder, key string) error) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	if err := jx.Decode(body, 4096).Obj(field); err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body")
	}

	return nil
}

// featuresRequest is the body of POST /v1/features and POST /v1/extractions.
type featuresRequest struct {
	URL string
	// Columns optionally asks for the vector as a plain array in this order.
	Columns []string
}

func decodeFeaturesRequest(w http.ResponseWriter, r *http.Request) (featuresRequest, error) {
	var (
		req    featuresRequest
		hasURL bool
	)
	if err := decodeBody(w, r, func(d *jx.Decoder, key string) error {
		switch key {
		case "url":
			s, err := d.Str()
			req.URL, hasURL = s, true

			return err
		case "columns":
			return d.Arr(func(d *jx.Decoder) error {
				s, err := d.Str()
				req.Columns = append(req.Columns, s)

				return err
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return req, err
	}
	if !hasURL {
		return req, serrors.With(serrors.ErrBadRequest, "url is required")
	}

	return req, nil
}

func decodeBatchRequest(w http.ResponseWriter, r *http.Request) ([]string, error) {
	var URLs []string
	if err := decodeBody(w, r, func(d *jx.Decoder, key string) error {
		if key != "urls" {
			return d.Skip()
		}

		return d.Arr(func(d *jx.Decoder) error {
			s, err := d.Str()
			URLs = append(URLs, s)

			return err
		})
	}); err != nil {
		return nil, err
	}

	return URLs, nil
}

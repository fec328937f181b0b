package v1handler

import (
	"net/http"
	"phishfeatures/pkg/features"

	"github.com/go-faster/jx"
)

// GetSchema lists the feature names in vector order.
func (h Handler) GetSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("version")
		e.Int(features.SchemaVersion)
		e.FieldStart("fields")
		e.ArrStart()
		for _, f := range features.Schema {
			e.ObjStart()
			e.FieldStart("name")
			e.Str(f.Name)
			e.FieldStart("kind")
			e.Str(f.Kind.String())
			e.ObjEnd()
		}
		e.ArrEnd()
		e.FieldStart("profile")
		e.ArrStart()
		for _, n := range features.ProfileNames {
			e.Str(n)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

// ComputeFeatures returns the vector of a URL without storing it. When the
// request names columns, the vector is also returned as an array aligned to
// them, unknown columns reading 0.
func (h Handler) ComputeFeatures(w http.ResponseWriter, r *http.Request) {
	req, err := decodeFeaturesRequest(w, r)
	if err != nil {
		writeError(w, r, err)

		return
	}

	vec, err := h.deps.Extractor.Features(r.Context(), req.URL)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("schemaVersion")
		e.Int(features.SchemaVersion)
		e.FieldStart("features")
		vec.Encode(e)
		if len(req.Columns) > 0 {
			e.FieldStart("values")
			e.ArrStart()
			for _, v := range vec.Select(req.Columns) {
				e.Float64(v)
			}
			e.ArrEnd()
		}
		e.ObjEnd()
	})
}

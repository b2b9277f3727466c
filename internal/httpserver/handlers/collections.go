package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkdeck/internal/collection"
	"github.com/MrSnakeDoc/linkdeck/internal/domain"
	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkdeck/internal/linkschema"
	"github.com/MrSnakeDoc/linkdeck/internal/logger"
	"github.com/MrSnakeDoc/linkdeck/internal/metrics"
)

// maxRecordBytes bounds the body of a validate request.
const maxRecordBytes = 64 << 10

type collectionsResponse struct {
	Collections []string `json:"collections"`
}

type validateResponse struct {
	Valid    bool             `json:"valid"`
	Entry    any              `json:"entry,omitempty"`
	Problems []domain.Problem `json:"problems,omitempty"`
}

// Collections lists the registered collection names.
func Collections(_ deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, collectionsResponse{Collections: collection.Names()})
	}
}

// Validate checks a JSON object against the schema of the named collection.
// 200 with the typed entry when valid, 422 with every field problem otherwise.
func Validate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		def, ok := collection.Lookup(name)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown collection: "+name)
			return
		}

		record, err := decodeRecord(http.MaxBytesReader(w, r.Body, maxRecordBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		entry, err := def.Schema.Validate(record)
		metrics.ObserveValidation(def.Name, err)
		if err != nil {
			if _, isValidation := linkschema.AsValidationError(err); !isValidation {
				d.Logger.Error("schema failed unexpectedly",
					logger.String("collection", def.Name),
					logger.Error(err))
				writeError(w, http.StatusInternalServerError, "validation failed")
				return
			}
			writeJSON(w, http.StatusUnprocessableEntity, validateResponse{
				Valid:    false,
				Problems: domain.ProblemsFrom(err),
			})
			return
		}

		writeJSON(w, http.StatusOK, validateResponse{Valid: true, Entry: entry})
	}
}

// decodeRecord reads exactly one JSON object (or null) with numbers kept as json.Number.
func decodeRecord(body io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var record map[string]any
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("body must be a JSON object: %w", err)
	}
	if dec.More() {
		return nil, errors.New("body must hold a single JSON object")
	}
	return record, nil
}

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rowforge/rowforge/internal/engine"
	"github.com/rowforge/rowforge/internal/logging"
	"github.com/rowforge/rowforge/internal/schema"
)

// validateRequest is the body for POST /api/validate and POST /api/imports.
// Exactly one of Schema or SchemaKey must be supplied: an inline schema
// definition, or the key of a preset loaded at startup.
type validateRequest struct {
	Schema    json.RawMessage     `json:"schema,omitempty"`
	SchemaKey string              `json:"schema_key,omitempty"`
	Rows      []map[string]string `json:"rows"`
}

// resolveSchema picks the preset or parses the inline definition.
func (req *validateRequest) resolveSchema() (*schema.Schema, error) {
	switch {
	case req.SchemaKey != "" && len(req.Schema) > 0:
		return nil, fmt.Errorf("supply either schema or schema_key, not both")

	case req.SchemaKey != "":
		s, ok := schema.Get(req.SchemaKey)
		if !ok {
			return nil, fmt.Errorf("unknown schema: %s", req.SchemaKey)
		}
		return s, nil

	case len(req.Schema) > 0:
		return schema.ParseJSON(req.Schema)
	}

	return nil, fmt.Errorf("missing schema")
}

// rawRows converts the wire form into engine rows.
func (req *validateRequest) rawRows() []engine.RawRow {
	rows := make([]engine.RawRow, len(req.Rows))
	for i, r := range req.Rows {
		rows[i] = engine.RawRow(r)
	}
	return rows
}

// decodeValidateRequest reads and bounds-checks the request body.
func (s *Server) decodeValidateRequest(w http.ResponseWriter, r *http.Request) (*validateRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Engine.MaxBodySize)

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	if len(req.Rows) > s.cfg.Engine.MaxRows {
		return nil, fmt.Errorf("too many rows: %d exceeds limit of %d", len(req.Rows), s.cfg.Engine.MaxRows)
	}

	return &req, nil
}

// handleValidate runs a synchronous pass and returns the result inline.
// Intended for small datasets; large imports should use POST /api/imports.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeValidateRequest(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	sch, err := req.resolveSchema()
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	result, err := s.service.Validate(sch, req.rawRows())
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	logging.FromContext(r.Context()).Info("validated dataset",
		"rows", result.NumRows,
		"invalid_rows", result.InvalidRowCount(),
		"success", result.Success,
	)

	writeJSON(w, http.StatusOK, result)
}

// handleStartImport starts an asynchronous import job.
func (s *Server) handleStartImport(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeValidateRequest(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	sch, err := req.resolveSchema()
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	jobID, err := s.service.StartImport(r.Context(), sch, req.rawRows())
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, engine.ErrTooManyJobs) {
			status = http.StatusTooManyRequests
		}
		s.respondError(w, r, err, status)
		return
	}

	logging.FromContext(r.Context()).Info("import job started",
		"job_id", jobID,
		"rows", len(req.Rows),
	)

	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}

// handleImportProgress returns the job-status surface for a polling caller.
func (s *Server) handleImportProgress(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	progress, err := s.service.Progress(jobID)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

// handleImportResult returns the output envelope of a job.
// Blocks until the job completes if still in progress.
func (s *Server) handleImportResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	result, err := s.service.Result(jobID)
	if err != nil {
		status := http.StatusConflict
		if errors.Is(err, engine.ErrJobNotFound) {
			status = http.StatusNotFound
		}
		s.respondError(w, r, err, status)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleCancelImport aborts an in-progress job at its next batch boundary.
func (s *Server) handleCancelImport(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	if err := s.service.Cancel(jobID); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "cancelling"})
}

// handleListSchemas lists the preset schema keys.
func (s *Server) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"schemas": schema.Keys()})
}

// schemaInfo is the read-only description of a preset schema.
type schemaInfo struct {
	Key     string   `json:"key"`
	Label   string   `json:"label,omitempty"`
	Columns []string `json:"columns"`
}

// handleGetSchema describes one preset schema.
func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "schemaKey")

	sch, ok := schema.Get(key)
	if !ok {
		s.respondError(w, r, fmt.Errorf("unknown schema: %s", key), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, schemaInfo{
		Key:     sch.Key,
		Label:   sch.Label,
		Columns: sch.ColumnIDs(),
	})
}

// handleHealth reports liveness and current job capacity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"active_jobs": s.service.Limiter().ActiveCount(),
	})
}

package api

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/nishad/biosubmit/internal/dataset"
	"github.com/nishad/biosubmit/internal/errors"
	"github.com/nishad/biosubmit/internal/history"
	"github.com/nishad/biosubmit/internal/search"
	"github.com/nishad/biosubmit/internal/service"
	"github.com/nishad/biosubmit/internal/submission"
	"github.com/nishad/biosubmit/internal/validator"
)

// Submission handlers

// handleCreateSubmission converts a TSV request body into submission XML.
// Query parameters: action, comment, hold, filename.
func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	q := r.URL.Query()
	params := submission.Params{
		Action:        submission.Action(q.Get("action")),
		InputFilename: q.Get("filename"),
		Comment:       q.Get("comment"),
		Hold:          q.Get("hold"),
	}
	if params.Action == "" {
		params.Action = submission.ActionAddData
	}
	if params.InputFilename == "" {
		params.InputFilename = "upload"
	}

	ds, err := dataset.Load(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		s.metrics.Observe(ctx, "submit", false, time.Since(start))
		s.writeError(w, http.StatusBadRequest, "Invalid TSV body: "+err.Error())
		return
	}

	result, err := s.submissions.Submit(ctx, &service.SubmitRequest{
		Dataset: ds,
		Params:  params,
	})
	s.metrics.Observe(ctx, "submit", err == nil, time.Since(start))
	if err != nil {
		if inv, ok := submission.AsInvalidDocument(err); ok {
			s.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":      true,
				"message":    "Generated submission XML is not valid",
				"status":     http.StatusUnprocessableEntity,
				"validation": inv.Result,
			})
			return
		}
		if errors.IsKind(err, errors.KindParse) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Warn("submission failed", "input", params.InputFilename, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Submission failed")
		return
	}

	s.metrics.AddSamples(result.SampleCount)

	if result.ID != "" {
		w.Header().Set("X-Submission-ID", result.ID)
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.XML); err != nil {
		s.logger.Warn("error writing XML response", "error", err)
	}
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, "Submission history is disabled")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 1000 {
		limit = 1000
	}

	entries, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.logger.Warn("failed to list submissions", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to list submissions")
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"submissions": entries,
		"count":       len(entries),
	})
}

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, "Submission history is disabled")
		return
	}

	id := mux.Vars(r)["id"]
	entry, err := s.history.Get(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, history.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "Submission not found: "+id)
			return
		}
		s.logger.Warn("failed to get submission", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to get submission")
		return
	}

	s.writeJSON(w, http.StatusOK, entry)
}

// handleValidate validates an XML request body. strict=true reports unknown
// elements and attributes as errors.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	v := validator.NewValidator(validator.ValidationConfig{
		ValidateEnumerations: true,
		ValidateRequired:     true,
		StrictMode:           r.URL.Query().Get("strict") == "true",
	})
	result, err := v.ValidateXML(data)
	s.metrics.Observe(ctx, "validate", err == nil && result.IsValid, time.Since(start))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// Search handlers

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		s.writeError(w, http.StatusNotFound, "Sample search is disabled")
		return
	}
	ctx := r.Context()
	start := time.Now()
	q := r.URL.Query()

	opts := search.Options{
		Limit: search.DefaultLimit,
		Fuzzy: q.Get("fuzzy") == "true",
	}
	if v := q.Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			opts.Limit = l
		}
	}
	if opts.Limit > 1000 {
		opts.Limit = 1000
	}
	if v := q.Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil && o > 0 {
			opts.Offset = o
		}
	}

	result, err := s.index.Search(q.Get("q"), opts)
	s.metrics.Observe(ctx, "search", err == nil, time.Since(start))
	if err != nil {
		if errors.IsKind(err, errors.KindParse) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Warn("sample search failed", "query", q.Get("q"), "error", err)
		s.writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

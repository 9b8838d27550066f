// Package service ties the submission pipeline to its supporting
// infrastructure so the CLI and the HTTP API run the same code path.
package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/nishad/biosubmit/internal/biosample"
	"github.com/nishad/biosubmit/internal/config"
	"github.com/nishad/biosubmit/internal/dataset"
	"github.com/nishad/biosubmit/internal/errors"
	"github.com/nishad/biosubmit/internal/history"
	"github.com/nishad/biosubmit/internal/progress"
	"github.com/nishad/biosubmit/internal/search"
	"github.com/nishad/biosubmit/internal/submission"
	"github.com/nishad/biosubmit/internal/validator"
	"github.com/nishad/biosubmit/internal/xmldoc"
)

// SubmitRequest is one conversion of a dataset into a submission document
type SubmitRequest struct {
	Dataset    *dataset.Dataset
	Params     submission.Params
	OutputFile string        // Recorded in history only
	Progress   progress.Func // Optional per-row callback
}

// SubmitResult is a successfully composed document
type SubmitResult struct {
	ID          string          `json:"id,omitempty"`
	Document    *xmldoc.Element `json:"-"`
	XML         []byte          `json:"-"`
	SampleCount int             `json:"sample_count"`
	Samples     []string        `json:"samples"`
}

// SubmissionService composes submission documents and records each run
type SubmissionService struct {
	cfg       *config.Config
	generator submission.RowGenerator
	validator submission.Validator
	history   *history.Store
	index     *search.Index
	logger    *slog.Logger
}

// Option configures a SubmissionService
type Option func(*SubmissionService)

// WithHistory records every run in store
func WithHistory(store *history.Store) Option {
	return func(s *SubmissionService) { s.history = store }
}

// WithIndex adds the samples of every valid recorded run to idx
func WithIndex(idx *search.Index) Option {
	return func(s *SubmissionService) { s.index = idx }
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *SubmissionService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGenerator replaces the BioSample row generator
func WithGenerator(gen submission.RowGenerator) Option {
	return func(s *SubmissionService) { s.generator = gen }
}

// WithValidator replaces the document validator
func WithValidator(v submission.Validator) Option {
	return func(s *SubmissionService) { s.validator = v }
}

// NewSubmissionService creates a service from configuration
func NewSubmissionService(cfg *config.Config, opts ...Option) *SubmissionService {
	s := &SubmissionService{
		cfg:       cfg,
		validator: validator.DefaultValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		generator: biosample.NewGenerator(biosample.Options{
			SPUIDNamespace: cfg.Organization.SPUIDNamespace,
			Package:        cfg.BioSample.Package,
			SchemaVersion:  cfg.BioSample.SchemaVersion,
			IgnoreColumns:  cfg.BioSample.IgnoreColumns,
		}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// History returns the ledger, or nil when history is disabled
func (s *SubmissionService) History() *history.Store {
	return s.history
}

// Index returns the sample search index, or nil when search is disabled
func (s *SubmissionService) Index() *search.Index {
	return s.index
}

// Submit composes, validates and serializes the document for req. A
// validation failure is returned unchanged (see submission.AsInvalidDocument)
// after being recorded as an invalid run.
func (s *SubmissionService) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	const op errors.Op = "service.Submit"

	if req.Dataset == nil {
		return nil, errors.E(op, errors.KindParse, "no dataset")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(op, err)
	}

	composer := submission.NewComposer(s.cfg, s.generator, s.validator,
		submission.WithProgress(req.Progress),
		submission.WithLogger(s.logger))

	samples := sampleNames(req.Dataset)
	entry := &history.Entry{
		InputFile:   req.Params.InputFilename,
		OutputFile:  req.OutputFile,
		Action:      string(req.Params.Action),
		Comment:     req.Params.Comment,
		Hold:        req.Params.Hold,
		SampleCount: len(samples),
		Samples:     samples,
	}

	doc, err := composer.Compose(req.Params, req.Dataset)
	if err != nil {
		if inv, ok := submission.AsInvalidDocument(err); ok {
			entry.Status = history.StatusInvalid
			entry.ErrorCount = len(inv.Result.Errors)
			s.record(ctx, entry)
		}
		return nil, err
	}

	data, err := xmldoc.Marshal(doc, s.cfg.Output.Indent)
	if err != nil {
		return nil, errors.E(op, errors.KindIO, err, "failed to encode document")
	}

	entry.Status = history.StatusValid
	s.record(ctx, entry)
	s.indexSamples(req.Dataset, entry)

	s.logger.Info("submission composed",
		"id", entry.ID, "input", req.Params.InputFilename, "samples", len(samples))

	return &SubmitResult{
		ID:          entry.ID,
		Document:    doc,
		XML:         data,
		SampleCount: len(samples),
		Samples:     samples,
	}, nil
}

// record writes entry to history. A ledger failure does not fail the run.
func (s *SubmissionService) record(ctx context.Context, entry *history.Entry) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record submission", "input", entry.InputFile, "error", err)
	}
}

// sampleNames lists the sample_name of every non-blank row in row order
func sampleNames(ds *dataset.Dataset) []string {
	names := make([]string, 0, len(ds.Rows))
	for _, raw := range ds.Rows {
		if raw == "" {
			continue
		}
		if name, ok := ds.Value(dataset.SplitRow(raw), dataset.SampleNameField); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}

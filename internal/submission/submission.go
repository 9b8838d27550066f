// Package submission assembles the NCBI submission document for a dataset:
// a Description header built from configuration, one AddData action per
// table row, and a final schema validation pass.
package submission

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nishad/biosubmit/internal/config"
	"github.com/nishad/biosubmit/internal/dataset"
	"github.com/nishad/biosubmit/internal/errors"
	"github.com/nishad/biosubmit/internal/progress"
	"github.com/nishad/biosubmit/internal/validator"
	"github.com/nishad/biosubmit/internal/xmldoc"
)

// Fixed values of the submission wire format
const (
	RootElement             = "Submission"
	SchemaInstanceNamespace = "http://www.w3.org/2001/XMLSchema-instance"
	SchemaLocation          = "http://www.ncbi.nlm.nih.gov/viewvc/v1/trunk/submit/public-docs/common/submission.xsd"
	SchemaVersion           = "2.0"
	TargetDB                = "BioSample"
	ContentType             = "XML"
	SoftwareVersion         = "asymmetrik-tsv@1.0.0"
)

// Action selects the kind of submission actions to build
type Action string

// ActionAddData adds new BioSample records. It is the only action built;
// any other value produces no actions.
const ActionAddData Action = "AddData"

// Params are the per-run submission parameters
type Params struct {
	Action        Action
	InputFilename string
	Comment       string
	Hold          string // Release date, YYYY-MM-DD
}

// RowGenerator converts the values of one row into the XML fragment placed
// inside the row's XmlContent. Implementations may read the dataset's data
// map; the current row is always recorded there before Generate is called.
type RowGenerator interface {
	Generate(ds *dataset.Dataset, values []string) (*xmldoc.Element, error)
}

// GeneratorFunc adapts a function to RowGenerator
type GeneratorFunc func(ds *dataset.Dataset, values []string) (*xmldoc.Element, error)

// Generate calls f
func (f GeneratorFunc) Generate(ds *dataset.Dataset, values []string) (*xmldoc.Element, error) {
	return f(ds, values)
}

// Validator checks a composed document
type Validator interface {
	Validate(root string, doc *xmldoc.Element, strict bool) (*validator.ValidationResult, error)
}

// InvalidDocumentError is returned when the composed document fails
// validation. It is fatal: no document accompanies it.
type InvalidDocumentError struct {
	Result *validator.ValidationResult
}

func (e *InvalidDocumentError) Error() string {
	if e.Result == nil {
		return "submission document failed validation"
	}
	return fmt.Sprintf("submission document failed validation with %d error(s)", len(e.Result.Errors))
}

// AsInvalidDocument extracts an InvalidDocumentError from an error chain
func AsInvalidDocument(err error) (*InvalidDocumentError, bool) {
	var inv *InvalidDocumentError
	if stderrors.As(err, &inv) {
		return inv, true
	}
	return nil, false
}

// Composer builds submission documents from a fixed configuration
type Composer struct {
	submitter *config.SubmitterConfig
	org       config.OrganizationConfig
	generator RowGenerator
	validator Validator
	progress  progress.Func
	logger    *slog.Logger
}

// Option configures a Composer
type Option func(*Composer)

// WithProgress sets the per-row progress callback
func WithProgress(fn progress.Func) Option {
	return func(c *Composer) {
		if fn != nil {
			c.progress = fn
		}
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewComposer creates a composer. The configuration is read once; later
// changes to cfg do not affect the composer.
func NewComposer(cfg *config.Config, gen RowGenerator, v Validator, opts ...Option) *Composer {
	c := &Composer{
		submitter: cfg.Submitter,
		org:       cfg.Organization,
		generator: gen,
		validator: v,
		progress:  progress.Noop,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose builds and validates the submission document. A document that
// fails validation is never returned; the error then satisfies
// AsInvalidDocument and has kind errors.KindValidation.
func (c *Composer) Compose(params Params, ds *dataset.Dataset) (*xmldoc.Element, error) {
	const op errors.Op = "submission.Compose"

	description := c.BuildDescription(params, ds)
	actions, err := c.BuildActions(params, ds)
	if err != nil {
		return nil, errors.Wrap(op, err)
	}

	root := xmldoc.New(RootElement).
		SetAttr("xmlns:xsi", SchemaInstanceNamespace).
		SetAttr("xsi:noNamespaceSchemaLocation", SchemaLocation).
		SetAttr("schema_version", SchemaVersion).
		Append(description).
		Append(actions...)

	result, err := c.validator.Validate(RootElement, root, true)
	if err != nil {
		return nil, errors.E(op, errors.KindValidation, err, "validator failed")
	}
	if result == nil {
		return nil, errors.E(op, errors.KindValidation, "validator failed: no result")
	}

	for _, w := range result.Warnings {
		c.logger.Debug("validation warning", "type", w.Type, "path", w.Path, "message", w.Message)
	}
	if !result.IsValid {
		for _, e := range result.Errors {
			c.logger.Debug("validation error", "type", e.Type, "path", e.Path, "message", e.Message)
		}
		return nil, errors.E(op, errors.KindValidation, &InvalidDocumentError{Result: result})
	}

	c.logger.Debug("Submission XML is valid", "actions", len(actions))
	return root, nil
}

// SupportMessage is the diagnostic shown when a document fails validation.
// It names the three files needed to investigate the failure.
func SupportMessage(inputFile, outputFile, debugLog string) string {
	return fmt.Sprintf("The generated submission XML did not pass validation.\n"+
		"Please contact support and include the following files:\n"+
		"  1. the input tsv file: %s\n"+
		"  2. the output xml file: %s\n"+
		"  3. the debug log: %s\n", inputFile, outputFile, debugLog)
}

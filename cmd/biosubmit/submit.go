package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nishad/biosubmit/internal/dataset"
	"github.com/nishad/biosubmit/internal/progress"
	"github.com/nishad/biosubmit/internal/service"
	"github.com/nishad/biosubmit/internal/submission"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit <input.tsv>",
	Short: "Convert a sample table into submission XML",
	Long: `Convert a tab-delimited sample table into an NCBI BioSample submission
document.

The first non-comment line of the table names the columns; sample_name is
required. Every other row becomes one AddData action. The document is
validated before it is written. On a validation failure nothing is written
and the command exits with a non-zero status.`,
	Example: `  biosubmit submit samples.tsv
  biosubmit submit samples.tsv -o out/samples.xml --comment "first batch"
  biosubmit submit samples.tsv --hold 2030-01-31 --no-progress`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runSubmit,
}

var (
	submitOutput     string
	submitAction     string
	submitComment    string
	submitHold       string
	submitNoProgress bool
	submitLogFile    string
	submitAppendLog  bool
)

func init() {
	submitCmd.Flags().StringVarP(&submitOutput, "output", "o", "", "Output XML file (default: <input>.xml)")
	submitCmd.Flags().StringVar(&submitAction, "action", string(submission.ActionAddData), "Submission action")
	submitCmd.Flags().StringVar(&submitComment, "comment", "", "Submission comment")
	submitCmd.Flags().StringVar(&submitHold, "hold", "", "Release date (YYYY-MM-DD)")
	submitCmd.Flags().BoolVar(&submitNoProgress, "no-progress", false, "Disable the progress line")
	submitCmd.Flags().StringVar(&submitLogFile, "log-file", "", "Debug log file (default: from config)")
	submitCmd.Flags().BoolVar(&submitAppendLog, "append-log", true, "Append to the debug log instead of truncating it")
}

// outputPath derives the XML path for an input table
func outputPath(input, dir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+".xml")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if submitLogFile != "" {
		cfg.Logging.File = submitLogFile
	}
	if cmd.Flags().Changed("append-log") {
		cfg.Logging.Append = submitAppendLog
	}
	if missing := cfg.MissingRequired(); len(missing) > 0 {
		printWarning("Configuration is missing %s", strings.Join(missing, ", "))
	}

	logger, err := openLogger(cfg, "tsv->xml")
	if err != nil {
		return err
	}
	defer logger.Close()

	output := submitOutput
	if output == "" {
		output = outputPath(input, cfg.Output.Directory)
	}
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

	logger.Info(fmt.Sprintf("Processing {%s}", filepath.Base(input)))

	ds, err := dataset.LoadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}
	printDebug("Columns: %s", strings.Join(ds.Columns(), ", "))

	store := openHistory(cfg)
	if store != nil {
		defer store.Close()
	}
	idx := openIndex(cfg, store)
	if idx != nil {
		defer idx.Close()
	}

	var reporter *progress.Reporter
	progressFn := progress.Func(progress.Noop)
	if !submitNoProgress && !quiet && progress.IsTerminal(os.Stdout) {
		reporter = progress.NewReporter(os.Stdout, name)
		progressFn = reporter.Func()
	}

	svc := service.NewSubmissionService(cfg,
		service.WithHistory(store),
		service.WithIndex(idx),
		service.WithLogger(logger.Slog()))

	result, err := svc.Submit(cmd.Context(), &service.SubmitRequest{
		Dataset: ds,
		Params: submission.Params{
			Action:        submission.Action(submitAction),
			InputFilename: name,
			Comment:       submitComment,
			Hold:          submitHold,
		},
		OutputFile: output,
		Progress:   progressFn,
	})
	if reporter != nil {
		reporter.Finish()
	}

	if err != nil {
		if inv, ok := submission.AsInvalidDocument(err); ok {
			for _, e := range inv.Result.Errors {
				printError("%s", e.String())
			}
			fmt.Fprint(os.Stderr, submission.SupportMessage(input, output, logger.Path()))
			return fmt.Errorf("submission XML is not valid")
		}
		return err
	}

	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(output, result.XML, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	logger.Info(fmt.Sprintf("Wrote {%s}", output))
	printSuccess("Wrote %s (%d samples)", output, result.SampleCount)
	if result.ID != "" && verbose {
		printInfo("History ID: %s", result.ID)
	}
	return nil
}

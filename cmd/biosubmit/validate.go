package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nishad/biosubmit/internal/ui"
	"github.com/nishad/biosubmit/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file.xml>",
	Short: "Validate a submission XML document",
	Long: `Check a submission document against the Submission schema structure and
the BioSample package subset generated by this tool.

Unknown elements and attributes are reported as warnings unless --strict is
set.`,
	Example: `  biosubmit validate samples.xml
  biosubmit validate samples.xml --strict --format json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runValidate,
}

var (
	validateStrict bool
	validateFormat string
)

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Report unknown elements and attributes as errors")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text|json)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	v := validator.NewValidator(validator.ValidationConfig{
		ValidateEnumerations: true,
		ValidateRequired:     true,
		StrictMode:           validateStrict,
	})
	var result *validator.ValidationResult
	check := func() error {
		var err error
		result, err = v.ValidateXML(data)
		return err
	}
	if quiet {
		err = check()
	} else {
		err = ui.Run(os.Stderr, "Validating "+args[0], check)
	}
	if err != nil {
		return err
	}

	switch validateFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	case "text":
		printValidationResult(result)
	default:
		return fmt.Errorf("unsupported format: %s", validateFormat)
	}

	if !result.IsValid {
		return fmt.Errorf("%s is not valid", args[0])
	}
	return nil
}

func printValidationResult(result *validator.ValidationResult) {
	for _, e := range result.Errors {
		printError("%s", e.String())
	}
	for _, w := range result.Warnings {
		if w.Path != "" {
			printWarning("%s at %s: %s", w.Type, w.Path, w.Message)
		} else {
			printWarning("%s: %s", w.Type, w.Message)
		}
	}

	if result.IsValid {
		printSuccess("%s", result.Summary())
	} else {
		printError("%s", result.Summary())
	}
	if verbose {
		printInfo("Elements validated: %d, attributes checked: %d",
			result.Stats.ElementsValidated, result.Stats.AttributesChecked)
	}
}

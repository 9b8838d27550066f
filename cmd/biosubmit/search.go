package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nishad/biosubmit/internal/search"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the samples of recorded submissions",
	Long: `Search every sample row of earlier valid submissions by sample name,
organism, title or any other column value.

Queries use the Bleve query string syntax, so fields can be targeted with
field:value (sample_name, organism, title, attributes, input_file,
submission_id). Without a query all indexed samples are listed.`,
	Example: `  biosubmit search liver
  biosubmit search 'organism:"Mus musculus"' --limit 50
  biosubmit search livr --fuzzy
  biosubmit search input_file:batch1 --format json`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runSearch,
}

var (
	searchLimit  int
	searchOffset int
	searchFuzzy  bool
	searchFormat string
)

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", search.DefaultLimit, "Maximum samples to show")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Skip this many matches")
	searchCmd.Flags().BoolVar(&searchFuzzy, "fuzzy", false, "Tolerate typos in the query")
	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", "table", "Output format (table|json)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Search.Enabled {
		return fmt.Errorf("sample search is disabled in the configuration")
	}
	if _, err := os.Stat(cfg.Search.Path); os.IsNotExist(err) {
		return fmt.Errorf("no search index at %s", cfg.Search.Path)
	}

	idx, err := search.Open(cfg.Search.Path)
	if err != nil {
		return err
	}
	defer idx.Close()

	var q string
	if len(args) == 1 {
		q = args[0]
	}
	result, err := idx.Search(q, search.Options{
		Limit:  searchLimit,
		Offset: searchOffset,
		Fuzzy:  searchFuzzy,
	})
	if err != nil {
		return err
	}

	switch searchFormat {
	case "json":
		return writeJSON(result)
	case "table":
	default:
		return fmt.Errorf("unsupported format: %s", searchFormat)
	}

	if len(result.Hits) == 0 {
		printInfo("No samples found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SAMPLE\tORGANISM\tINPUT\tSUBMISSION")
	for _, h := range result.Hits {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.SampleName, h.Organism, h.InputFile, h.SubmissionID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !quiet {
		fmt.Println()
		printInfo("Showing %d of %d samples (%dms)", len(result.Hits), result.Total, result.TimeMs)
	}
	if verbose {
		for _, f := range result.Facets["input_file"] {
			fmt.Printf("  %s %d\n", colorize(colorCyan, f.Value), f.Count)
		}
	}
	return nil
}

package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/nishad/biosubmit/internal/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded submission runs",
	Long:  `List and inspect the submission runs recorded in the history database.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent submission runs",
	Example: `  biosubmit history list
  biosubmit history list --limit 50 --format json`,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one submission run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var (
	historyLimit  int
	historyFormat string
)

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum runs to list (0 for all)")
	historyCmd.PersistentFlags().StringVarP(&historyFormat, "format", "f", "table", "Output format (table|json)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
}

func openHistoryForRead() (*history.Store, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("submission history is disabled in the configuration")
	}
	if _, err := os.Stat(cfg.History.Path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no history database at %s", cfg.History.Path)
	}
	return history.Open(cfg.History.Path)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistoryForRead()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if historyFormat == "json" {
		return writeJSON(entries)
	}

	if len(entries) == 0 {
		printInfo("No submissions recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tINPUT\tSTATUS\tSAMPLES")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.InputFile,
			statusLabel(e.Status), e.SampleCount)
	}
	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistoryForRead()
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		if stderrors.Is(err, history.ErrNotFound) {
			return fmt.Errorf("no submission with id %s", args[0])
		}
		return err
	}

	if historyFormat == "json" {
		return writeJSON(entry)
	}

	fmt.Printf("%s %s\n", colorize(colorBold, "ID:"), entry.ID)
	fmt.Printf("%s %s\n", colorize(colorBold, "Created:"), entry.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("%s %s\n", colorize(colorBold, "Input:"), entry.InputFile)
	if entry.OutputFile != "" {
		fmt.Printf("%s %s\n", colorize(colorBold, "Output:"), entry.OutputFile)
	}
	fmt.Printf("%s %s\n", colorize(colorBold, "Action:"), entry.Action)
	fmt.Printf("%s %s\n", colorize(colorBold, "Status:"), statusLabel(entry.Status))
	if entry.ErrorCount > 0 {
		fmt.Printf("%s %d\n", colorize(colorBold, "Validation errors:"), entry.ErrorCount)
	}
	if entry.Comment != "" {
		fmt.Printf("%s %s\n", colorize(colorBold, "Comment:"), entry.Comment)
	}
	if entry.Hold != "" {
		fmt.Printf("%s %s\n", colorize(colorBold, "Hold until:"), entry.Hold)
	}
	fmt.Printf("%s %d\n", colorize(colorBold, "Samples:"), entry.SampleCount)
	if verbose && len(entry.Samples) > 0 {
		fmt.Printf("  %s\n", strings.Join(entry.Samples, ", "))
	}
	return nil
}

func statusLabel(status string) string {
	if status == history.StatusValid {
		return colorize(colorGreen, status)
	}
	return colorize(colorRed, status)
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

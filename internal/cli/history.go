package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/memory-curator/internal/config"
	"github.com/rcliao/memory-curator/internal/report"
	"github.com/rcliao/memory-curator/internal/store"
)

func init() {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded curation runs",
	}
	historyCmd.PersistentFlags().String("history-db", "", "Run history database path")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Run:   runHistoryList,
	}
	listCmd.Flags().String("status", "", "Filter by status (initialized, completed)")
	listCmd.Flags().IntP("limit", "l", 20, "Max results")

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one run; accepts a unique id prefix",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryShow,
	}
	showCmd.Flags().Bool("yaml", false, "Print the run as YAML")

	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search merged entries by content or source file",
		Args:  cobra.MinimumNArgs(1),
		Run:   runHistorySearch,
	}
	searchCmd.Flags().IntP("limit", "l", 20, "Max results")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export all runs as JSON",
		Run:   runHistoryExport,
	}

	importCmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import runs from a JSON export (file or stdin)",
		Args:  cobra.MaximumNArgs(1),
		Run:   runHistoryImport,
	}

	historyCmd.AddCommand(listCmd, showCmd, searchCmd, exportCmd, importCmd)
	RootCmd.AddCommand(historyCmd)
}

// openHistory opens the ledger named by --history-db or the configuration.
func openHistory(cmd *cobra.Command) (*store.SQLiteStore, string) {
	cfg := loadConfig(cmd)
	path := cfg.History.Path
	if override, _ := cmd.Flags().GetString("history-db"); override != "" {
		path = config.ExpandHome(override)
	}
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		exitErr("open store", err)
	}
	return s, path
}

func runHistoryList(cmd *cobra.Command, args []string) {
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	s, _ := openHistory(cmd)
	defer s.Close()

	runs, err := s.ListRuns(cmd.Context(), store.ListParams{Status: status, Limit: limit})
	if err != nil {
		exitErr("list runs", err)
	}

	if !textOutput() {
		if runs == nil {
			runs = []store.RunSummary{}
		}
		printJSON(runs)
		return
	}
	for _, r := range runs {
		line := fmt.Sprintf("%s  %-11s  %-14s  %d scanned, %d added, %d removed",
			r.ID, r.Status, humanize.Time(r.Timestamp), r.FilesScanned, r.Additions, r.Removals)
		if r.Error != "" {
			line += "  error: " + r.Error
		}
		fmt.Println(line)
	}
}

func runHistoryShow(cmd *cobra.Command, args []string) {
	asYAML, _ := cmd.Flags().GetBool("yaml")

	s, _ := openHistory(cmd)
	defer s.Close()

	run, err := s.GetRun(cmd.Context(), args[0])
	if err != nil {
		exitErr("get run", err)
	}

	if asYAML {
		b, err := report.Encode(&run.Report, report.FormatYAML)
		if err != nil {
			exitErr("encode run", err)
		}
		fmt.Printf("id: %s\n%s", run.ID, b)
		return
	}
	printJSON(run)
}

func runHistorySearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, _ := openHistory(cmd)
	defer s.Close()

	results, err := s.SearchAdditions(cmd.Context(), store.SearchParams{Query: query, Limit: limit})
	if err != nil {
		exitErr("search", err)
	}

	if !textOutput() {
		if len(results) == 0 {
			fmt.Println("[]")
			return
		}
		printJSON(results)
		return
	}
	for _, m := range results {
		fmt.Printf("%.2f  %s  (%s, %s)\n", m.Confidence, m.Content, m.SourceFile, humanize.Time(m.RunAt))
	}
}

func runHistoryExport(cmd *cobra.Command, args []string) {
	s, _ := openHistory(cmd)
	defer s.Close()

	runs, err := s.ExportAll(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}
	printJSON(runs)
}

func runHistoryImport(cmd *cobra.Command, args []string) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		exitErr("read export", err)
	}

	var runs []store.Run
	if err := json.Unmarshal(data, &runs); err != nil {
		exitErr("parse export", err)
	}

	s, _ := openHistory(cmd)
	defer s.Close()

	n, err := s.Import(cmd.Context(), runs)
	if err != nil {
		exitErr("import", err)
	}
	fmt.Printf("Imported %d runs\n", n)
}

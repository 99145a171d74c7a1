package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sharepoint "github.com/tonimelisma/sharepoint-go"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <suffix> [folder]",
		Short: "Find items by name suffix",
		Long: `Find files (or folders, with --folders) whose names end with the given
suffix. The search covers the named folder (drive root by default), or
the whole subtree below it with --recursive.

A missing leading dot is added automatically, so "csv" and ".csv" are
the same search. Matching is case-sensitive.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runSearch,
	}

	cmd.Flags().BoolP("recursive", "r", false, "descend into subfolders")
	cmd.Flags().Bool("folders", false, "match folders instead of files")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	suffix := args[0]
	ctx := cmd.Context()

	folder := ""
	if len(args) > 1 {
		folder = cleanRemotePath(args[1])
	}

	recursive, err := cmd.Flags().GetBool("recursive")
	if err != nil {
		return err
	}

	wantFolders, err := cmd.Flags().GetBool("folders")
	if err != nil {
		return err
	}

	mgr, logger, err := newManager(ctx)
	if err != nil {
		return err
	}

	logger.Debug("search",
		"suffix", suffix, "folder", folder,
		"recursive", recursive, "folders", wantFolders)

	results, err := dispatchSearch(ctx, mgr, suffix, folder, recursive, wantFolders)
	if err != nil {
		return fmt.Errorf("searching for %q: %w", suffix, err)
	}

	logger.Debug("search complete", "matches", len(results))

	if flagJSON {
		return printSearchJSON(results)
	}

	printSearchTable(results)

	return nil
}

func dispatchSearch(
	ctx context.Context, mgr *sharepoint.Manager,
	suffix, folder string, recursive, wantFolders bool,
) ([]sharepoint.ItemInfo, error) {
	switch {
	case wantFolders && recursive:
		return mgr.SearchFoldersBySuffixRecursive(ctx, suffix, folder)
	case wantFolders:
		return mgr.SearchFoldersBySuffix(ctx, suffix, folder)
	case recursive:
		return mgr.SearchFilesBySuffixRecursive(ctx, suffix, folder)
	default:
		return mgr.SearchFilesBySuffix(ctx, suffix, folder)
	}
}

func printSearchJSON(results []sharepoint.ItemInfo) error {
	out := make([]itemInfoJSON, 0, len(results))
	for i := range results {
		out = append(out, itemInfoJSON{
			Name:     results[i].Name,
			Path:     results[i].Path,
			Size:     results[i].Size,
			Modified: results[i].Modified,
			ID:       results[i].ID,
			WebURL:   results[i].WebURL,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func printSearchTable(results []sharepoint.ItemInfo) {
	if len(results) == 0 {
		statusf("No matches\n")

		return
	}

	headers := []string{"PATH", "SIZE", "MODIFIED"}
	rows := make([][]string, 0, len(results))

	for i := range results {
		rows = append(rows, []string{
			results[i].Path,
			formatSize(results[i].Size),
			formatTime(results[i].Modified),
		})
	}

	printTable(os.Stdout, headers, rows)
}

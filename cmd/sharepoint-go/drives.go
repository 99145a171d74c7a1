package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/sharepoint-go/graph"
)

func newDrivesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drives",
		Short: "List the site's document libraries",
		Args:  cobra.NoArgs,
		RunE:  runDrives,
	}
}

// driveJSONItem is the JSON output schema for a single document library.
type driveJSONItem struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	DriveType string `json:"drive_type"`
	WebURL    string `json:"web_url"`
}

func runDrives(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	mgr, logger, err := newSiteManager(ctx)
	if err != nil {
		return err
	}

	drives, err := mgr.Drives(ctx)
	if err != nil {
		return fmt.Errorf("listing document libraries: %w", err)
	}

	logger.Debug("drives listed", "count", len(drives))

	if flagJSON {
		return printDrivesJSON(drives)
	}

	printDrivesTable(drives)

	return nil
}

func printDrivesJSON(drives []graph.Drive) error {
	out := make([]driveJSONItem, 0, len(drives))
	for i := range drives {
		out = append(out, driveJSONItem{
			Name:      drives[i].Name,
			ID:        drives[i].ID,
			DriveType: drives[i].DriveType,
			WebURL:    drives[i].WebURL,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func printDrivesTable(drives []graph.Drive) {
	headers := []string{"NAME", "TYPE", "ID"}
	rows := make([][]string, 0, len(drives))

	for i := range drives {
		rows = append(rows, []string{drives[i].Name, drives[i].DriveType, drives[i].ID})
	}

	printTable(os.Stdout, headers, rows)
}

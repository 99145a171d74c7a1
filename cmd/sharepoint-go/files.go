package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	sharepoint "github.com/tonimelisma/sharepoint-go"
	"github.com/tonimelisma/sharepoint-go/graph"
)

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List files and folders",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLs,
	}
}

func newStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <path>",
		Short: "Display file or folder metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  runStat,
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <remote-path> [local-path]",
		Short: "Download a file or folder",
		Long: `Download a file or a whole folder tree. The remote item's kind decides:
files are written to local-path (default: the file's own name in the
current directory), folders are mirrored recursively into local-path
(default: a directory named after the folder).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runGet,
	}
}

func newPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <local-path> [remote-folder]",
		Short: "Upload a file",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runPut,
	}
}

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a file or folder",
		Long: `Delete a file or folder in the document library.

Folder deletion cascades server-side. Use --recursive (-r) to confirm
intent when deleting folders.`,
		Args: cobra.ExactArgs(1),
		RunE: runRm,
	}

	cmd.Flags().BoolP("recursive", "r", false, "confirm recursive folder deletion")

	return cmd
}

func newMvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mv <path> [dest-folder]",
		Short: "Move or rename a file or folder",
		Long: `Move an item into another folder, rename it in place, or both.

With a destination folder the item is moved there. With --name the item
is renamed. Combining both moves first, then renames.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runMv,
	}

	cmd.Flags().String("name", "", "new name for the item")

	return cmd
}

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a folder (recursive)",
		Args:  cobra.ExactArgs(1),
		RunE:  runMkdir,
	}
}

// cleanRemotePath strips leading/trailing slashes, returns "" for root.
func cleanRemotePath(path string) string {
	return strings.Trim(path, "/")
}

// splitParentAndName splits a remote path into parent path and name.
// For "foo/bar/baz" returns ("foo/bar", "baz").
// For "baz" returns ("", "baz").
func splitParentAndName(path string) (string, string) {
	clean := cleanRemotePath(path)
	idx := strings.LastIndex(clean, "/")

	if idx < 0 {
		return "", clean
	}

	return clean[:idx], clean[idx+1:]
}

// joinRemotePath joins a parent path and a child name without doubling
// separators. An empty parent yields the bare name.
func joinRemotePath(parent, name string) string {
	parent = cleanRemotePath(parent)
	if parent == "" {
		return name
	}

	return parent + "/" + name
}

func runLs(cmd *cobra.Command, args []string) error {
	remotePath := "/"
	if len(args) > 0 {
		remotePath = args[0]
	}

	ctx := cmd.Context()

	mgr, logger, err := newManager(ctx)
	if err != nil {
		return err
	}

	logger.Debug("ls", "path", remotePath)

	// The raw client keeps the folder facet, which the table output needs
	// to mark directories.
	items, err := mgr.Client().ListChildren(ctx, mgr.SiteID(), mgr.DriveID(), cleanRemotePath(remotePath))
	if err != nil {
		return fmt.Errorf("listing %q: %w", remotePath, err)
	}

	if flagJSON {
		return printItemsJSON(items)
	}

	printItemsTable(os.Stdout, items)

	return nil
}

// lsJSONItem is the JSON output schema for a single item in ls output.
type lsJSONItem struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	IsFolder bool   `json:"is_folder"`
	Modified string `json:"modified"`
	ID       string `json:"id"`
}

func printItemsJSON(items []graph.Item) error {
	out := make([]lsJSONItem, 0, len(items))
	for i := range items {
		out = append(out, lsJSONItem{
			Name:     items[i].Name,
			Size:     items[i].Size,
			IsFolder: items[i].IsFolder,
			Modified: items[i].Modified,
			ID:       items[i].ID,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func printItemsTable(w io.Writer, items []graph.Item) {
	// Sort: folders first, then alphabetical.
	sort.Slice(items, func(i, j int) bool {
		if items[i].IsFolder != items[j].IsFolder {
			return items[i].IsFolder
		}

		return items[i].Name < items[j].Name
	})

	headers := []string{"NAME", "SIZE", "MODIFIED"}
	rows := make([][]string, 0, len(items))

	for i := range items {
		name := items[i].Name
		if items[i].IsFolder {
			name += "/"
		}

		rows = append(rows, []string{name, formatSize(items[i].Size), formatTime(items[i].Modified)})
	}

	printTable(w, headers, rows)
}

func runStat(cmd *cobra.Command, args []string) error {
	remotePath := args[0]
	ctx := cmd.Context()

	mgr, logger, err := newManager(ctx)
	if err != nil {
		return err
	}

	logger.Debug("stat", "path", remotePath)

	info, err := mgr.Stat(ctx, cleanRemotePath(remotePath))
	if err != nil {
		return fmt.Errorf("resolving %q: %w", remotePath, err)
	}

	if flagJSON {
		return printItemInfoJSON(info)
	}

	printStatText(info)

	return nil
}

// itemInfoJSON is the JSON output schema for commands that return a single
// item record (stat, put, mv).
type itemInfoJSON struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
	ID       string `json:"id"`
	WebURL   string `json:"web_url"`
}

func printItemInfoJSON(info *sharepoint.ItemInfo) error {
	out := itemInfoJSON{
		Name:     info.Name,
		Path:     info.Path,
		Size:     info.Size,
		Modified: info.Modified,
		ID:       info.ID,
		WebURL:   info.WebURL,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func printStatText(info *sharepoint.ItemInfo) {
	fmt.Printf("Name:     %s\n", info.Name)
	fmt.Printf("Path:     %s\n", info.Path)
	fmt.Printf("Size:     %s (%d bytes)\n", formatSize(info.Size), info.Size)
	fmt.Printf("Modified: %s\n", info.Modified)
	fmt.Printf("ID:       %s\n", info.ID)

	if info.WebURL != "" {
		fmt.Printf("URL:      %s\n", info.WebURL)
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	remotePath := args[0]
	ctx := cmd.Context()

	localPath := ""
	if len(args) > 1 {
		localPath = args[1]
	}

	mgr, logger, err := newManager(ctx)
	if err != nil {
		return err
	}

	logger.Debug("get", "remote_path", remotePath, "local_path", localPath)

	written, err := mgr.DownloadItem(ctx, cleanRemotePath(remotePath), localPath)
	if err != nil {
		return fmt.Errorf("downloading %q: %w", remotePath, err)
	}

	statusf("Downloaded %s\n", written)

	return nil
}

func runPut(cmd *cobra.Command, args []string) error {
	localPath := args[0]
	ctx := cmd.Context()

	destFolder := ""
	if len(args) > 1 {
		destFolder = cleanRemotePath(args[1])
	}

	fi, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("stating local file: %w", err)
	}

	if fi.IsDir() {
		return fmt.Errorf("%q is a directory, not a file", localPath)
	}

	mgr, logger, err := newManager(ctx)
	if err != nil {
		return err
	}

	logger.Debug("put", "local_path", localPath, "dest_folder", destFolder, "size", fi.Size())

	info, err := mgr.UploadFile(ctx, localPath, destFolder, "")
	if err != nil {
		return fmt.Errorf("uploading %q: %w", localPath, err)
	}

	if flagJSON {
		return printItemInfoJSON(info)
	}

	statusf("Uploaded %s (%s)\n", info.Path, formatSize(info.Size))

	return nil
}

// rmJSONOutput is the JSON output schema for the rm command.
type rmJSONOutput struct {
	Deleted string `json:"deleted"`
}

func runRm(cmd *cobra.Command, args []string) error {
	remotePath := args[0]
	ctx := cmd.Context()

	mgr, logger, err := newManager(ctx)
	if err != nil {
		return err
	}

	logger.Debug("rm", "path", remotePath)

	item, err := mgr.Client().GetItemByPath(ctx, mgr.SiteID(), mgr.DriveID(), cleanRemotePath(remotePath))
	if err != nil {
		return fmt.Errorf("resolving %q: %w", remotePath, err)
	}

	recursive, err := cmd.Flags().GetBool("recursive")
	if err != nil {
		return err
	}

	if item.IsFolder && !recursive {
		return fmt.Errorf("cannot delete folder %q without --recursive (-r) flag", remotePath)
	}

	if item.IsFolder {
		err = mgr.DeleteFolder(ctx, cleanRemotePath(remotePath))
	} else {
		err = mgr.DeleteFile(ctx, cleanRemotePath(remotePath))
	}

	if err != nil {
		return fmt.Errorf("deleting %q: %w", remotePath, err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(rmJSONOutput{Deleted: remotePath})
	}

	statusf("Deleted %s\n", remotePath)

	return nil
}

func runMv(cmd *cobra.Command, args []string) error {
	remotePath := cleanRemotePath(args[0])
	ctx := cmd.Context()

	newName, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}

	destFolder := ""
	if len(args) > 1 {
		destFolder = cleanRemotePath(args[1])
	}

	if len(args) < 2 && newName == "" {
		return fmt.Errorf("nothing to do: pass a destination folder, --name, or both")
	}

	mgr, logger, err := newManager(ctx)
	if err != nil {
		return err
	}

	logger.Debug("mv", "path", remotePath, "dest_folder", destFolder, "new_name", newName)

	info, err := moveAndRename(ctx, mgr, remotePath, destFolder, newName, len(args) > 1)
	if err != nil {
		return err
	}

	if flagJSON {
		return printItemInfoJSON(info)
	}

	statusf("Moved to %s\n", info.Path)

	return nil
}

// moveAndRename performs the move and/or rename requested by mv. A rename
// after a move addresses the item at its new location.
func moveAndRename(
	ctx context.Context, mgr *sharepoint.Manager,
	remotePath, destFolder, newName string, haveDest bool,
) (*sharepoint.ItemInfo, error) {
	if !haveDest {
		info, err := mgr.RenameItem(ctx, remotePath, newName)
		if err != nil {
			return nil, fmt.Errorf("renaming %q: %w", remotePath, err)
		}

		return info, nil
	}

	info, err := mgr.MoveItem(ctx, remotePath, destFolder)
	if err != nil {
		return nil, fmt.Errorf("moving %q: %w", remotePath, err)
	}

	if newName == "" {
		return info, nil
	}

	movedPath := joinRemotePath(destFolder, info.Name)

	info, err = mgr.RenameItem(ctx, movedPath, newName)
	if err != nil {
		return nil, fmt.Errorf("renaming %q: %w", movedPath, err)
	}

	return info, nil
}

// mkdirJSONOutput is the JSON output schema for the mkdir command.
type mkdirJSONOutput struct {
	Created string `json:"created"`
	ID      string `json:"id"`
}

func runMkdir(cmd *cobra.Command, args []string) error {
	remotePath := cleanRemotePath(args[0])
	if remotePath == "" {
		return fmt.Errorf("cannot create root folder")
	}

	ctx := cmd.Context()

	mgr, logger, err := newManager(ctx)
	if err != nil {
		return err
	}

	logger.Debug("mkdir", "path", remotePath)

	// Walk path segments, creating each missing folder. Existing segments
	// surface as 409 Conflict and are skipped.
	var created *sharepoint.ItemInfo

	parent := ""

	for _, seg := range strings.Split(remotePath, "/") {
		info, createErr := mgr.CreateFolder(ctx, parent, seg)
		if createErr != nil && !errors.Is(createErr, graph.ErrConflict) {
			return fmt.Errorf("creating folder %q: %w", seg, createErr)
		}

		created = info
		parent = joinRemotePath(parent, seg)
	}

	// Every segment already existed; fetch the leaf for its ID.
	if created == nil {
		created, err = mgr.Stat(ctx, remotePath)
		if err != nil {
			return fmt.Errorf("resolving existing folder %q: %w", remotePath, err)
		}
	}

	logger.Debug("mkdir complete", "path", remotePath, "folder_id", created.ID)

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(mkdirJSONOutput{Created: remotePath, ID: created.ID})
	}

	statusf("Created %s\n", remotePath)

	return nil
}

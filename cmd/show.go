package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sample-organizer/internal/collection"
)

var showPaths bool

// showCmd prints the files of one label the way the organizer lists them
var showCmd = &cobra.Command{
	Use:   "show <label>",
	Short: "List the files of a label",
	Long: `List the files of a label as "<folder> <name>" entries, or as absolute
paths with --paths.

Examples:
  sample-organizer show kick
  sample-organizer show kick --paths -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showPaths, "paths", false,
		"print absolute paths instead of display names")
	rootCmd.AddCommand(showCmd)
}

// fileEntry is one row of the show listing
type fileEntry struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	store, err := a.OpenStore()
	if err != nil {
		return err
	}

	files, ok := store.Files(args[0])
	if !ok {
		return collection.NewError("show", collection.ErrCodeUnknownLabel,
			fmt.Sprintf("label %q not found in %s", args[0], a.CollectionPath()), nil)
	}

	rows := make([]fileEntry, len(files))
	for i, f := range files {
		rows[i] = fileEntry{Index: i, Name: collection.DisplayName(f)}
		if showPaths {
			rows[i].Path = f
		}
	}

	return a.Output(rows)
}

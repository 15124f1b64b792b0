package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sample-organizer/pkg/logging"
)

var addDryRun bool

// addCmd adds folders to a label without the interactive shell
var addCmd = &cobra.Command{
	Use:   "add <label> <folder>...",
	Short: "Add every audio file under folders to a label and save",
	Long: `Recursively scan each folder for audio files and add them to the label,
creating the label if needed. The collection file is saved afterwards.

A folder that cannot be scanned aborts the command before anything is saved.

Examples:
  sample-organizer add kick ~/Samples/Kicks
  sample-organizer add snare ./snares ./more-snares --dry-run`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false,
		"scan and report without saving")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	label, folders := args[0], args[1:]

	store, err := a.OpenStore()
	if err != nil {
		return err
	}

	a.Logger().Debug("Scanning folders", logging.Fields{
		"label":      label,
		"folders":    len(folders),
		"extensions": store.Extensions(),
	})

	total := 0
	for i, folder := range folders {
		printStep(i+1, folder)
		n, err := store.AddFolder(label, folder)
		if err != nil {
			printError("scan failed, nothing saved")
			return err
		}
		a.Logger().Debug("Folder added", logging.Fields{
			"label":  label,
			"folder": folder,
			"added":  n,
		})
		printInfo("+%d file(s)", n)
		total += n
	}

	files, _ := store.Files(label)
	if addDryRun {
		printInfo("Extensions: %s", strings.Join(store.Extensions(), " "))
		printWarning("Dry run: %d new file(s) for %q (%d total), nothing saved", total, label, len(files))
		return nil
	}

	if err := a.SaveStore(store); err != nil {
		return err
	}
	printSuccess("%d new file(s) for %q (%d total) saved to %s", total, label, len(files), a.CollectionPath())
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// labelCmd groups label management commands
var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage collection labels",
}

var labelAddCmd = &cobra.Command{
	Use:   "add <label>...",
	Short: "Add empty labels and save the collection",
	Long: `Add one or more empty labels to the collection file.

Empty and duplicate names are rejected; no label is saved if any is rejected.

Examples:
  sample-organizer label add kick snare hat`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLabelAdd,
}

var labelListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List labels with their file counts",
	Args:    cobra.NoArgs,
	RunE:    runLabelList,
}

func init() {
	labelCmd.AddCommand(labelAddCmd)
	labelCmd.AddCommand(labelListCmd)
	rootCmd.AddCommand(labelCmd)
}

func runLabelAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	store, err := a.OpenStore()
	if err != nil {
		return err
	}

	for _, label := range args {
		if err := store.AddLabel(label); err != nil {
			return err
		}
	}

	if err := a.SaveStore(store); err != nil {
		return err
	}
	printSuccess("Added %d label(s) to %s", len(args), a.CollectionPath())
	return nil
}

// labelSummary is one row of the label listing
type labelSummary struct {
	Label string `json:"label"`
	Files int    `json:"files"`
}

func runLabelList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	store, err := a.OpenStore()
	if err != nil {
		return err
	}

	labels := store.Labels()
	if len(labels) == 0 {
		printInfo("No labels in %s", a.CollectionPath())
		return nil
	}

	rows := make([]labelSummary, 0, len(labels))
	for _, l := range labels {
		files, _ := store.Files(l)
		rows = append(rows, labelSummary{Label: l, Files: len(files)})
	}

	if err := a.Output(rows); err != nil {
		return fmt.Errorf("failed to output labels: %w", err)
	}
	return nil
}

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sample-organizer/internal/organizer"
	"github.com/RyanBlaney/sample-organizer/pkg/logging"
)

var organizeNoLoad bool

// organizeCommands is the shell command list shown by --help and "help"
const organizeCommands = `Commands:
  labels            list labels
  select <label>    select a label and list its files
  files             list the selected label's files
  new               add a label (the next line is the name, empty cancels)
  drop <folder>     add every audio file under folder to the selected label
  load              reload the collection file, replacing memory
  save              write the collection file
  help              show this list
  quit              leave (unsaved changes are lost)
`

// organizeCmd represents the interactive organizer
var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Interactive organizer shell for the collection",
	Long: `Open an interactive session bound to the collection file.

The collection is loaded at startup when the file exists. Changes stay in
memory until "save".

` + organizeCommands + `
Examples:
  sample-organizer organize
  sample-organizer --collection drums.json organize`,
	Args: cobra.NoArgs,
	RunE: runOrganize,
}

func init() {
	organizeCmd.Flags().BoolVar(&organizeNoLoad, "no-load", false,
		"start with an empty collection instead of loading the file")
	rootCmd.AddCommand(organizeCmd)
}

func runOrganize(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	org := organizer.New(a.NewStore(), a.CollectionPath(), a.Logger())
	org.SetLoadMode(a.LoadMode())

	if !organizeNoLoad {
		if _, statErr := os.Stat(a.CollectionPath()); statErr == nil {
			if err := org.Load(); err != nil {
				printWarning("Could not load %s: %v", a.CollectionPath(), err)
			}
		}
	}

	sh := &shell{
		org:    org,
		in:     bufio.NewScanner(cmd.InOrStdin()),
		out:    cmd.OutOrStdout(),
		logger: a.Logger().WithFields(logging.Fields{"component": "organizer_shell"}),
	}
	return sh.run()
}

var errQuit = errors.New("quit")

// shell is the line-oriented front end of an Organizer
type shell struct {
	org    *organizer.Organizer
	in     *bufio.Scanner
	out    io.Writer
	logger logging.Logger
}

func (sh *shell) run() error {
	fmt.Fprintf(sh.out, "%sSample Organizer%s  %s (%d labels)\n", color(ColorBold), color(ColorReset), sh.org.Path(), len(sh.org.Labels()))
	fmt.Fprintln(sh.out, `Type "help" for commands.`)

	for {
		sh.prompt()
		if !sh.in.Scan() {
			fmt.Fprintln(sh.out)
			return sh.in.Err()
		}

		err := sh.exec(sh.in.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			sh.logger.Error(err, "Organizer command failed")
			fmt.Fprintf(sh.out, "%serror: %v%s\n", color(ColorRed), err, color(ColorReset))
		}
	}
}

func (sh *shell) prompt() {
	if sh.org.DialogOpen() {
		fmt.Fprint(sh.out, "label name> ")
		return
	}
	if label, ok := sh.org.Selected(); ok {
		fmt.Fprintf(sh.out, "[%s]> ", label)
		return
	}
	fmt.Fprint(sh.out, "> ")
}

func (sh *shell) exec(line string) error {
	if sh.org.DialogOpen() {
		return sh.submitLabel(line)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "labels", "ls":
		sh.printLabels()
	case "select", "sel":
		if rest == "" {
			return fmt.Errorf("usage: select <label>")
		}
		if err := sh.org.SelectLabel(rest); err != nil {
			return err
		}
		sh.printFiles()
	case "files":
		sh.printFiles()
	case "new":
		sh.org.OpenAddLabelDialog()
		if rest != "" {
			return sh.submitLabel(rest)
		}
	case "drop":
		return sh.drop(rest)
	case "load":
		if err := sh.org.Load(); err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "loaded %d labels from %s\n", len(sh.org.Labels()), sh.org.Path())
	case "save":
		if err := sh.org.Save(); err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "saved %s\n", sh.org.Path())
	case "help", "?":
		fmt.Fprint(sh.out, organizeCommands)
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try \"help\")", verb)
	}
	return nil
}

func (sh *shell) submitLabel(name string) error {
	if strings.TrimSpace(name) == "" {
		sh.org.CancelAddLabel()
		return nil
	}
	added, err := sh.org.SubmitAddLabel(name)
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintf(sh.out, "added label %q\n", strings.TrimSpace(name))
	}
	return nil
}

func (sh *shell) drop(path string) error {
	if path == "" {
		return fmt.Errorf("usage: drop <folder>")
	}
	path = strings.Trim(path, `"'`)

	label, selected := sh.org.Selected()
	if !selected {
		fmt.Fprintln(sh.out, "no label selected, drop ignored")
		return nil
	}

	added, err := sh.org.DropFolder(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "%d new files in %s\n", added, label)
	sh.printFiles()
	return nil
}

func (sh *shell) printLabels() {
	labels := sh.org.Labels()
	if len(labels) == 0 {
		fmt.Fprintln(sh.out, "(no labels)")
		return
	}
	selected, _ := sh.org.Selected()
	for _, l := range labels {
		marker := " "
		if l == selected {
			marker = "*"
		}
		fmt.Fprintf(sh.out, "%s %s\n", marker, l)
	}
}

func (sh *shell) printFiles() {
	entries := sh.org.FileEntries()
	if len(entries) == 0 {
		fmt.Fprintln(sh.out, "(no files)")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(sh.out, "  %s\n", e)
	}
}

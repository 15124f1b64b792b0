package organizer

import (
	"fmt"
	"os"
	"strings"

	"github.com/RyanBlaney/sample-organizer/internal/collection"
	"github.com/RyanBlaney/sample-organizer/pkg/logging"
)

// Organizer is the interactive view over one collection store. It keeps the
// visible label list, the current selection and the add-label dialog state.
type Organizer struct {
	store    *collection.Store
	path     string
	loadMode collection.LoadMode
	logger   logging.Logger

	labels     []string
	selected   string
	hasLabel   bool
	dialogOpen bool
	entries    []string
}

// New binds an organizer to store; Load and Save always target path
func New(store *collection.Store, path string, logger logging.Logger) *Organizer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	o := &Organizer{
		store:    store,
		path:     path,
		loadMode: collection.LoadReplace,
		logger: logger.WithFields(logging.Fields{
			"component": "organizer",
			"path":      path,
		}),
	}
	o.refreshLabels()
	return o
}

// Path returns the collection file the organizer loads from and saves to
func (o *Organizer) Path() string {
	return o.path
}

// SetLoadMode changes how Load combines the file with the labels in memory
func (o *Organizer) SetLoadMode(mode collection.LoadMode) {
	o.loadMode = mode
}

// Labels returns the visible label list
func (o *Organizer) Labels() []string {
	return append([]string(nil), o.labels...)
}

// Selected returns the selected label, if any
func (o *Organizer) Selected() (string, bool) {
	return o.selected, o.hasLabel
}

// DialogOpen reports whether the add-label dialog is open
func (o *Organizer) DialogOpen() bool {
	return o.dialogOpen
}

// SelectLabel selects label and refreshes the file list
func (o *Organizer) SelectLabel(label string) error {
	if !o.store.Has(label) {
		return collection.NewError("select", collection.ErrCodeUnknownLabel,
			fmt.Sprintf("no label named %q", label), nil)
	}
	o.selected = label
	o.hasLabel = true
	o.refreshEntries()
	return nil
}

// FileEntries returns the display rows for the selected label
func (o *Organizer) FileEntries() []string {
	return append([]string(nil), o.entries...)
}

// OpenAddLabelDialog opens the add-label prompt
func (o *Organizer) OpenAddLabelDialog() {
	o.dialogOpen = true
}

// CancelAddLabel closes the prompt without changes
func (o *Organizer) CancelAddLabel() {
	o.dialogOpen = false
}

// SubmitAddLabel commits name from the open dialog and closes it. Empty and
// duplicate names are ignored; the returned bool reports whether a label was added.
func (o *Organizer) SubmitAddLabel(name string) (bool, error) {
	if !o.dialogOpen {
		return false, fmt.Errorf("add-label dialog is not open")
	}
	o.dialogOpen = false

	if err := o.store.AddLabel(name); err != nil {
		o.logger.Debug("Label rejected", logging.Fields{
			"name":   name,
			"reason": err.Error(),
		})
		return false, nil
	}

	o.labels = append(o.labels, strings.TrimSpace(name))
	return true, nil
}

// DropFolder assigns the audio files under path to the selected label. It is a
// no-op when no label is selected or path is not a directory.
func (o *Organizer) DropFolder(path string) (int, error) {
	if !o.hasLabel {
		o.logger.Debug("Drop ignored, no label selected", logging.Fields{"dir": path})
		return 0, nil
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		o.logger.Debug("Drop ignored, not a directory", logging.Fields{"dir": path})
		return 0, nil
	}

	added, err := o.store.AddFolder(o.selected, path)
	if err != nil {
		o.logger.Error(err, "Failed to add dropped folder", logging.Fields{
			"label": o.selected,
			"dir":   path,
		})
		return 0, err
	}

	o.refreshEntries()
	return added, nil
}

// Load reads the collection file into the store (replacing its contents unless
// another load mode was set) and refreshes the label list. The prior state is
// kept on error.
func (o *Organizer) Load() error {
	if err := o.store.Load(o.path, o.loadMode); err != nil {
		o.logger.Error(err, "Failed to load collection")
		return err
	}

	o.refreshLabels()
	if o.hasLabel && !o.store.Has(o.selected) {
		o.selected = ""
		o.hasLabel = false
	}
	o.refreshEntries()
	return nil
}

// Save persists the store to the collection file
func (o *Organizer) Save() error {
	if err := o.store.Save(o.path); err != nil {
		o.logger.Error(err, "Failed to save collection")
		return err
	}
	return nil
}

func (o *Organizer) refreshLabels() {
	o.labels = o.store.Labels()
}

func (o *Organizer) refreshEntries() {
	o.entries = nil
	if !o.hasLabel {
		return
	}
	files, _ := o.store.Files(o.selected)
	for _, f := range files {
		o.entries = append(o.entries, collection.DisplayName(f))
	}
}

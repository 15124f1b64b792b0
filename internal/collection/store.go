package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/RyanBlaney/sample-organizer/pkg/logging"
)

// LoadMode decides how a loaded document combines with labels already in memory
type LoadMode string

const (
	// LoadReplace makes the store exactly the loaded document
	LoadReplace LoadMode = "replace"
	// LoadOverlay replaces labels present in the document and keeps the rest
	LoadOverlay LoadMode = "overlay"
	// LoadMerge unions labels present in the document into the existing sets
	LoadMerge LoadMode = "merge"
)

// ParseLoadMode maps a config string to a LoadMode
func ParseLoadMode(s string) (LoadMode, error) {
	switch LoadMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", LoadReplace:
		return LoadReplace, nil
	case LoadOverlay:
		return LoadOverlay, nil
	case LoadMerge:
		return LoadMerge, nil
	default:
		return "", fmt.Errorf("unknown load mode: %q (want replace, overlay or merge)", s)
	}
}

// Store maps labels to sets of audio file paths.
// A Store is not safe for concurrent use.
type Store struct {
	labels     map[string]map[string]struct{}
	extensions []string
	logger     logging.Logger
}

// Option configures a Store
type Option func(*Store)

// WithExtensions sets the file extensions picked up by AddFolder
func WithExtensions(exts ...string) Option {
	return func(s *Store) {
		s.extensions = normalizeExtensions(exts)
	}
}

// WithLogger sets the store logger
func WithLogger(logger logging.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		labels:     make(map[string]map[string]struct{}),
		extensions: normalizeExtensions(nil),
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithFields(logging.Fields{"component": "collection_store"})
	return s
}

// Extensions returns the extensions matched by AddFolder
func (s *Store) Extensions() []string {
	return append([]string(nil), s.extensions...)
}

// AddLabel inserts an empty set under label. Empty and duplicate names are
// rejected and leave the store unchanged.
func (s *Store) AddLabel(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return NewError("add label", ErrCodeInvalidLabel, "label name is empty", nil)
	}
	if _, ok := s.labels[label]; ok {
		return NewError("add label", ErrCodeDuplicateLabel, "label already exists", nil).withLabel(label)
	}

	s.labels[label] = make(map[string]struct{})
	s.logger.Debug("Label created", logging.Fields{"label": label})
	return nil
}

// AddFolder scans dir for audio files and unions them into label, creating the
// label if needed. It returns how many paths were new to the label.
func (s *Store) AddFolder(label, dir string) (int, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, NewError("add folder", ErrCodeInvalidLabel, "label name is empty", nil).withPath(dir)
	}

	files, err := ScanAudioFiles(dir, s.extensions)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Op = "add folder"
			ce.Label = label
		}
		return 0, err
	}

	set, ok := s.labels[label]
	if !ok {
		set = make(map[string]struct{}, len(files))
		s.labels[label] = set
	}

	added := 0
	for _, f := range files {
		if _, dup := set[f]; dup {
			continue
		}
		set[f] = struct{}{}
		added++
	}

	s.logger.Debug("Folder added to label", logging.Fields{
		"label":   label,
		"dir":     dir,
		"found":   len(files),
		"added":   added,
		"total":   len(set),
		"created": !ok,
	})

	return added, nil
}

// Has reports whether label exists
func (s *Store) Has(label string) bool {
	_, ok := s.labels[label]
	return ok
}

// Len returns the number of labels
func (s *Store) Len() int {
	return len(s.labels)
}

// Labels returns every label, sorted
func (s *Store) Labels() []string {
	out := make([]string, 0, len(s.labels))
	for l := range s.labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// FirstLabel returns the lexicographically first label
func (s *Store) FirstLabel() (string, bool) {
	labels := s.Labels()
	if len(labels) == 0 {
		return "", false
	}
	return labels[0], true
}

// Files returns the sorted paths under label
func (s *Store) Files(label string) ([]string, bool) {
	set, ok := s.labels[label]
	if !ok {
		return nil, false
	}
	return sortedSet(set), true
}

// Snapshot returns a deep copy of the store with sorted paths
func (s *Store) Snapshot() map[string][]string {
	out := make(map[string][]string, len(s.labels))
	for label, set := range s.labels {
		out[label] = sortedSet(set)
	}
	return out
}

// Load reads a JSON document of label -> path array from path and combines it
// with the store according to mode. The store is unchanged on error.
func (s *Store) Load(path string, mode LoadMode) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewError("load", ErrCodeRead, "failed to read collection file", err).withPath(path)
	}

	var doc map[string][]string
	if err := json.Unmarshal(data, &doc); err != nil {
		return NewError("load", ErrCodeParse, "malformed collection document", err).withPath(path)
	}
	if doc == nil {
		return NewError("load", ErrCodeParse, "document is not a JSON object", nil).withPath(path)
	}

	loaded := make(map[string]map[string]struct{}, len(doc))
	for label, paths := range doc {
		set := make(map[string]struct{}, len(paths))
		for _, p := range paths {
			set[p] = struct{}{}
		}
		loaded[label] = set
	}

	switch mode {
	case LoadReplace, "":
		s.labels = loaded
	case LoadOverlay:
		for label, set := range loaded {
			s.labels[label] = set
		}
	case LoadMerge:
		for label, set := range loaded {
			existing, ok := s.labels[label]
			if !ok {
				s.labels[label] = set
				continue
			}
			for p := range set {
				existing[p] = struct{}{}
			}
		}
	default:
		return NewError("load", ErrCodeParse, fmt.Sprintf("unknown load mode %q", mode), nil).withPath(path)
	}

	s.logger.Debug("Collection loaded", logging.Fields{
		"path":   path,
		"mode":   string(mode),
		"labels": len(loaded),
		"total":  len(s.labels),
	})

	return nil
}

// Save writes the store to path as indented JSON with sorted labels and paths.
// The file is replaced atomically.
func (s *Store) Save(path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(s.Snapshot()); err != nil {
		return NewError("save", ErrCodeWrite, "failed to encode collection", err).withPath(path)
	}

	if err := writeFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return NewError("save", ErrCodeWrite, "failed to write collection file", err).withPath(path)
	}

	s.logger.Info("Collection saved", logging.Fields{
		"path":   path,
		"labels": len(s.labels),
		"bytes":  buf.Len(),
	})

	return nil
}

func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

package organizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/RyanBlaney/sample-organizer/internal/collection"
)

type OrganizerTestSuite struct {
	suite.Suite

	root      string
	path      string
	store     *collection.Store
	organizer *Organizer
}

func (s *OrganizerTestSuite) SetupTest() {
	s.root = s.T().TempDir()
	s.path = filepath.Join(s.root, "samples.json")
	s.store = collection.NewStore()
	s.organizer = New(s.store, s.path, nil)

	for _, f := range []string{"Kicks/808.wav", "Kicks/acoustic.wav", "Snares/tight.wav"} {
		p := filepath.Join(s.root, f)
		s.Require().NoError(os.MkdirAll(filepath.Dir(p), 0o755))
		s.Require().NoError(os.WriteFile(p, []byte("RIFF"), 0o644))
	}
}

func (s *OrganizerTestSuite) addLabel(name string) bool {
	s.organizer.OpenAddLabelDialog()
	ok, err := s.organizer.SubmitAddLabel(name)
	s.Require().NoError(err)
	return ok
}

func (s *OrganizerTestSuite) TestStartsWithNothingSelected() {
	_, selected := s.organizer.Selected()
	s.False(selected)
	s.False(s.organizer.DialogOpen())
	s.Empty(s.organizer.FileEntries())
}

func (s *OrganizerTestSuite) TestAddLabelAppendsToList() {
	s.True(s.addLabel("snare"))
	s.True(s.addLabel("kick"))

	s.Equal([]string{"snare", "kick"}, s.organizer.Labels())
	s.True(s.store.Has("kick"))
	s.False(s.organizer.DialogOpen())
}

func (s *OrganizerTestSuite) TestAddLabelIgnoresEmptyAndDuplicate() {
	s.True(s.addLabel("kick"))
	before := s.store.Snapshot()

	s.False(s.addLabel("kick"))
	s.False(s.addLabel("   "))

	s.Equal([]string{"kick"}, s.organizer.Labels())
	s.Equal(before, s.store.Snapshot())
	s.False(s.organizer.DialogOpen())
}

func (s *OrganizerTestSuite) TestSubmitWithoutDialogFails() {
	_, err := s.organizer.SubmitAddLabel("kick")
	s.Error(err)
	s.False(s.store.Has("kick"))
}

func (s *OrganizerTestSuite) TestCancelDialog() {
	s.organizer.OpenAddLabelDialog()
	s.True(s.organizer.DialogOpen())
	s.organizer.CancelAddLabel()
	s.False(s.organizer.DialogOpen())
	s.Zero(s.store.Len())
}

func (s *OrganizerTestSuite) TestSelectUnknownLabel() {
	err := s.organizer.SelectLabel("ghost")
	s.True(collection.IsCode(err, collection.ErrCodeUnknownLabel))
	_, selected := s.organizer.Selected()
	s.False(selected)
}

func (s *OrganizerTestSuite) TestDropWithoutSelectionIsNoop() {
	s.True(s.addLabel("kick"))

	added, err := s.organizer.DropFolder(filepath.Join(s.root, "Kicks"))
	s.NoError(err)
	s.Zero(added)

	files, _ := s.store.Files("kick")
	s.Empty(files)
}

func (s *OrganizerTestSuite) TestDropFolderRefreshesEntries() {
	s.True(s.addLabel("kick"))
	s.Require().NoError(s.organizer.SelectLabel("kick"))

	added, err := s.organizer.DropFolder(filepath.Join(s.root, "Kicks"))
	s.Require().NoError(err)
	s.Equal(2, added)

	s.Equal([]string{
		"Kicks           808",
		"Kicks           acoustic",
	}, s.organizer.FileEntries())
}

func (s *OrganizerTestSuite) TestDropNonDirectoryIsIgnored() {
	s.True(s.addLabel("kick"))
	s.Require().NoError(s.organizer.SelectLabel("kick"))

	added, err := s.organizer.DropFolder(filepath.Join(s.root, "Kicks", "808.wav"))
	s.NoError(err)
	s.Zero(added)

	added, err = s.organizer.DropFolder(filepath.Join(s.root, "missing"))
	s.NoError(err)
	s.Zero(added)
}

func (s *OrganizerTestSuite) TestSaveThenLoadRestoresState() {
	s.True(s.addLabel("kick"))
	s.Require().NoError(s.organizer.SelectLabel("kick"))
	_, err := s.organizer.DropFolder(filepath.Join(s.root, "Kicks"))
	s.Require().NoError(err)
	s.Require().NoError(s.organizer.Save())

	fresh := New(collection.NewStore(), s.path, nil)
	s.Empty(fresh.Labels())
	s.Require().NoError(fresh.Load())

	s.Equal([]string{"kick"}, fresh.Labels())
	s.Require().NoError(fresh.SelectLabel("kick"))
	s.Equal(s.organizer.FileEntries(), fresh.FileEntries())
}

func (s *OrganizerTestSuite) TestLoadClearsVanishedSelection() {
	s.Require().NoError(os.WriteFile(s.path, []byte(`{"snare": []}`), 0o644))

	s.True(s.addLabel("kick"))
	s.Require().NoError(s.organizer.SelectLabel("kick"))
	s.Require().NoError(s.organizer.Load())

	_, selected := s.organizer.Selected()
	s.False(selected)
	s.Equal([]string{"snare"}, s.organizer.Labels())
}

func (s *OrganizerTestSuite) TestLoadFailureKeepsState() {
	s.Require().NoError(os.WriteFile(s.path, []byte(`not json`), 0o644))

	s.True(s.addLabel("kick"))
	s.Require().NoError(s.organizer.SelectLabel("kick"))

	s.Error(s.organizer.Load())
	s.Equal([]string{"kick"}, s.organizer.Labels())
	label, selected := s.organizer.Selected()
	s.True(selected)
	s.Equal("kick", label)
}

func TestOrganizerTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizerTestSuite))
}

func TestOverlayLoadMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "samples.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"snare": []}`), 0o644))

	store := collection.NewStore()
	require.NoError(t, store.AddLabel("kick"))

	o := New(store, path, nil)
	o.SetLoadMode(collection.LoadOverlay)
	require.NoError(t, o.Load())

	assert.Equal(t, []string{"kick", "snare"}, o.Labels())
}

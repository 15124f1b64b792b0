package cmd

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sample-organizer/internal/collection"
	"github.com/RyanBlaney/sample-organizer/internal/organizer"
	"github.com/RyanBlaney/sample-organizer/pkg/logging"
)

func newTestShell(t *testing.T, input string) (*shell, *bytes.Buffer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.json")
	out := &bytes.Buffer{}
	org := organizer.New(collection.NewStore(), path, logging.NewNopLogger())
	return &shell{
		org:    org,
		in:     bufio.NewScanner(strings.NewReader(input)),
		out:    out,
		logger: logging.NewNopLogger(),
	}, out, path
}

func writeSamples(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("RIFF"), 0o644))
	}
}

func TestShellSession(t *testing.T) {
	samples := filepath.Join(t.TempDir(), "Kicks")
	writeSamples(t, samples, "808.wav", "909.WAV", "notes.txt")

	script := strings.Join([]string{
		"new",
		"kick",
		"new",
		"",
		"select kick",
		"drop " + samples,
		"save",
		"quit",
	}, "\n")

	sh, out, path := newTestShell(t, script)
	require.NoError(t, sh.run())

	assert.Equal(t, []string{"kick"}, sh.org.Labels())
	assert.False(t, sh.org.DialogOpen())
	assert.Contains(t, out.String(), `added label "kick"`)
	assert.Contains(t, out.String(), "2 new files in kick")
	assert.Contains(t, out.String(), collection.DisplayName(filepath.Join(samples, "808.wav")))

	saved := collection.NewStore()
	require.NoError(t, saved.Load(path, collection.LoadReplace))
	files, ok := saved.Files("kick")
	require.True(t, ok)
	assert.Len(t, files, 2)
}

func TestShellDropWithoutSelection(t *testing.T) {
	samples := filepath.Join(t.TempDir(), "Snares")
	writeSamples(t, samples, "snare.wav")

	sh, out, _ := newTestShell(t, "drop "+samples+"\n")
	require.NoError(t, sh.run())

	assert.Contains(t, out.String(), "no label selected")
	assert.Empty(t, sh.org.Labels())
}

func TestShellErrorsAreNotFatal(t *testing.T) {
	sh, out, _ := newTestShell(t, "select ghost\nbogus\nload\nlabels\n")
	require.NoError(t, sh.run())

	text := out.String()
	assert.Contains(t, text, "error:")
	assert.Contains(t, text, `unknown command "bogus"`)
	assert.Contains(t, text, "(no labels)")
}

func TestShellInlineNewRejectsDuplicates(t *testing.T) {
	sh, out, _ := newTestShell(t, "new hat\nnew hat\nnew\n\nlabels\n")
	require.NoError(t, sh.run())

	assert.Equal(t, []string{"hat"}, sh.org.Labels())
	assert.Equal(t, 1, strings.Count(out.String(), `added label "hat"`))
	assert.False(t, sh.org.DialogOpen())
}

func TestShellHelpListsCommands(t *testing.T) {
	sh, out, _ := newTestShell(t, "help\n")
	require.NoError(t, sh.run())

	text := out.String()
	for _, c := range []string{"labels", "select <label>", "drop <folder>", "load", "save", "quit"} {
		assert.Contains(t, text, c)
	}
	assert.NotContains(t, text, "Examples:")
	assert.Contains(t, organizeCmd.Long, organizeCommands)
}

func TestShellWithoutColors(t *testing.T) {
	colorsEnabled = false
	t.Cleanup(func() { colorsEnabled = true })

	sh, out, _ := newTestShell(t, "select ghost\n")
	require.NoError(t, sh.run())

	assert.Contains(t, out.String(), "error:")
	assert.NotContains(t, out.String(), "\033[")
}

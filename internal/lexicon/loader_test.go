package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLexiconFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := writeLexiconFile(t, `
version: "custom-1"
skills:
  - cobol
  - fortran
synonyms:
  k8s: kubernetes
`)

	lex, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "custom-1", lex.Version)

	// Overridden table replaces the default wholesale.
	assert.True(t, lex.IsSkill("cobol"))
	assert.False(t, lex.IsSkill("python"))

	// Untouched tables keep the defaults.
	assert.True(t, lex.IsTool("docker"))
	assert.True(t, lex.IsStopword("the"))
	assert.Equal(t, "kubernetes", lex.CanonicalSynonym("k8s"))
	assert.Empty(t, lex.CanonicalSynonym("js"), "override replaced the synonym table")
}

func TestLoadFileRequiresVersion(t *testing.T) {
	path := writeLexiconFile(t, "skills:\n  - cobol\n")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestLoadFileRejectsBadPattern(t *testing.T) {
	path := writeLexiconFile(t, "version: v1\ncertificationPatterns:\n  - '(broken'\n")

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	path := writeLexiconFile(t, "version: [unbalanced")

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestStoreSnapshotAndReload(t *testing.T) {
	path := writeLexiconFile(t, "version: v1\n")

	store, err := NewStoreFromFile(path, nil)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, "v1", store.Version())
	snapshot := store.Snapshot()

	require.NoError(t, os.WriteFile(path, []byte("version: v2\n"), 0o644))
	require.NoError(t, store.Reload())

	assert.Equal(t, "v2", store.Version())
	// The old snapshot is untouched by the reload.
	assert.Equal(t, "v1", snapshot.Version)
}

func TestStoreReloadKeepsTablesOnFailure(t *testing.T) {
	path := writeLexiconFile(t, "version: v1\n")

	store, err := NewStoreFromFile(path, nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, os.WriteFile(path, []byte("version: [broken"), 0o644))
	require.Error(t, store.Reload())
	assert.Equal(t, "v1", store.Version())
}

func TestStoreDefaults(t *testing.T) {
	store := NewStore(nil)
	defer store.Close()

	assert.Equal(t, Default().Version, store.Version())
	// A defaults-only store has no file to watch or reload.
	require.NoError(t, store.Watch())
	require.NoError(t, store.Reload())
}

func TestStoreWatchLifecycle(t *testing.T) {
	path := writeLexiconFile(t, "version: v1\n")

	store, err := NewStoreFromFile(path, nil)
	require.NoError(t, err)

	require.NoError(t, store.Watch())
	require.Error(t, store.Watch(), "double watch must be rejected")
	store.Close()
}

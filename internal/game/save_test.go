package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	m, err := NewSaveManager(filepath.Join(t.TempDir(), "saves"))
	require.NoError(t, err)

	c := NewCharacter("Ada Lovelace", DataStructurePaladin)
	c.CompleteChallenge("two-sum", "arrays", 150)
	c.AddItem("Enchanted Keyboard")
	require.NoError(t, m.Save(c))

	_, err = os.Stat(filepath.Join(m.Dir(), "ada_lovelace.json"))
	require.NoError(t, err)

	got, err := m.Load("Ada Lovelace")
	require.NoError(t, err)
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("loaded character mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	m, err := NewSaveManager(t.TempDir())
	require.NoError(t, err)
	_, err = m.Load("nobody")
	assert.ErrorIs(t, err, ErrNoSave)
	assert.ErrorIs(t, m.Delete("nobody"), ErrNoSave)
}

func TestLoadFillsMissingFields(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"),
		[]byte(`{"name":"Old","class":"Debugging Rogue","skills":{"sorting":3}}`), 0644))
	m, err := NewSaveManager(dir)
	require.NoError(t, err)

	c, err := m.Load("Old")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, 3.0, c.Skills[Sorting])
	assert.Equal(t, 1.0, c.Skills[Graphs])
	assert.Equal(t, []string{AlgorithmForest}, c.UnlockedAreas)
}

func TestListSkipsCorruptSaves(t *testing.T) {
	dir := t.TempDir()
	m, err := NewSaveManager(dir)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	require.NoError(t, m.Save(NewCharacter("Zed", FullstackBard)))
	require.NoError(t, m.Save(NewCharacter("Ada", AlgorithmWizard)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))

	saves, err := m.List()
	require.NoError(t, err)
	require.Len(t, saves, 2)
	assert.Equal(t, "Ada", saves[0].Name)
	assert.Equal(t, "Algorithm Wizard", saves[0].Class)
	assert.Equal(t, m.now(), saves[0].Timestamp)
	assert.Equal(t, "Zed", saves[1].Name)

	require.NoError(t, m.Delete("Zed"))
	saves, err = m.List()
	require.NoError(t, err)
	assert.Len(t, saves, 1)
}

func TestSaveRequiresName(t *testing.T) {
	m, err := NewSaveManager(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, m.Save(NewCharacter(" ", AlgorithmWizard)))
}

func TestSaveRejectsNamesLeavingDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "characters")
	m, err := NewSaveManager(dir)
	require.NoError(t, err)

	for _, name := range []string{"../x", `..\x`, "a/b", ".hidden", ".."} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, m.Save(NewCharacter(name, AlgorithmWizard)), ErrInvalidName)
			_, err := m.Load(name)
			assert.ErrorIs(t, err, ErrInvalidName)
			assert.ErrorIs(t, m.Delete(name), ErrInvalidName)
		})
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1, "nothing written next to the save directory")
	assert.Equal(t, "characters", entries[0].Name())
}

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(areas []Area) []string {
	out := make([]string, len(areas))
	for i, a := range areas {
		out[i] = a.Name
	}
	return out
}

func TestNewWorld(t *testing.T) {
	w := NewWorld()
	assert.Len(t, w.Areas(), 6)
	assert.Equal(t, []string{AlgorithmForest}, names(w.Unlocked()))

	forest, ok := w.Area(AlgorithmForest)
	require.True(t, ok)
	assert.Equal(t, 1, forest.Difficulty)
	assert.Contains(t, forest.Topics, "searching")

	_, ok = w.Area("Atlantis")
	assert.False(t, ok)
}

func TestConnectedShowsOnlyUnlocked(t *testing.T) {
	w := NewWorld()
	assert.Empty(t, w.Connected(AlgorithmForest))

	require.NoError(t, w.Unlock(DataStructureMountains))
	assert.Equal(t, []string{DataStructureMountains}, names(w.Connected(AlgorithmForest)))
	assert.Equal(t, []string{AlgorithmForest}, names(w.Connected(DataStructureMountains)))
	assert.Nil(t, w.Connected("Atlantis"))
	assert.Error(t, w.Unlock("Atlantis"))
}

func TestSyncAndMap(t *testing.T) {
	w := NewWorld()
	assert.NotContains(t, w.Map(), "DATA STRUCTURE MOUNTAINS")

	c := NewCharacter("x", AlgorithmWizard)
	c.UnlockedAreas = append(c.UnlockedAreas, DataStructureMountains, "Retired Area")
	w.Sync(c)
	assert.Equal(t, []string{AlgorithmForest, DataStructureMountains}, names(w.Unlocked()))
	assert.Contains(t, w.Map(), "DATA STRUCTURE MOUNTAINS")
	assert.Contains(t, w.Map(), "???")
}

func TestAreaCopyIsIndependent(t *testing.T) {
	w := NewWorld()
	a, _ := w.Area(CloudKingdom)
	a.Unlocked = true
	b, _ := w.Area(CloudKingdom)
	assert.False(t, b.Unlocked)
}

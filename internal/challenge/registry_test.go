package challenge

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codequest/internal/verify"
)

func source(id, area string) Source {
	return Source{Name: id, Factory: func() (*Challenge, error) {
		return New(Definition{
			ID:    id,
			Area:  area,
			Cases: []verify.TestCase{verify.FunctionalCase{Input: verify.Single(1), Expected: 1}},
		})
	}}
}

func ids(cs []*Challenge) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID()
	}
	return out
}

func TestRegistryLoadSkipsBadSources(t *testing.T) {
	r := NewRegistry()
	loaded := r.Load(
		source("hello-world", "Algorithm Forest"),
		Source{Name: "broken", Factory: func() (*Challenge, error) { return nil, errors.New("bad definition") }},
		Source{Name: "panics", Factory: func() (*Challenge, error) { panic("boom") }},
		Source{Name: "empty"},
		source("max-stack", "Data Structure Mountains"),
		source("hello-world", "Elsewhere"),
		source("two-sum", "Algorithm Forest"),
	)

	assert.Equal(t, 3, loaded)
	assert.Equal(t, 3, r.Len())
	if diff := cmp.Diff([]string{"hello-world", "max-stack", "two-sum"}, ids(r.All())); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}

	c, ok := r.Get("hello-world")
	require.True(t, ok)
	assert.Equal(t, "Algorithm Forest", c.Info().Area, "the first registration wins")

	_, ok = r.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"hello-world", "two-sum"}, ids(r.ByArea("Algorithm Forest")))
	assert.Empty(t, r.ByArea("Nowhere"))
	assert.Equal(t, []string{"Algorithm Forest", "Data Structure Mountains"}, r.Areas())
}

func TestRegistryAddDuplicate(t *testing.T) {
	r := NewRegistry()
	c, err := source("a", "x").Factory()
	require.NoError(t, err)
	require.NoError(t, r.Add(c))
	assert.ErrorIs(t, r.Add(c), ErrDuplicate)
}

func TestRegistryLoadPacks(t *testing.T) {
	r := NewRegistry()
	read := func(dir string) ([]Source, error) {
		if dir == "missing" {
			return nil, errors.New("no such directory")
		}
		return []Source{source(dir+"-1", dir), source(dir+"-2", dir)}, nil
	}

	loaded := r.LoadPacks(read, "alpha", "missing", "beta")
	assert.Equal(t, 4, loaded)
	assert.Equal(t, []string{"alpha", "beta"}, r.Areas())
}

func TestAllReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Load(source("a", "x"), source("b", "x"))
	all := r.All()
	all[0] = nil
	assert.Equal(t, "a", r.All()[0].ID())
}

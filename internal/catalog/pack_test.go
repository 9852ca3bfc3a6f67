package catalog

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codequest/internal/challenge"
	"codequest/internal/verify"
)

func TestPackReaderLoadsGoodPack(t *testing.T) {
	r := challenge.NewRegistry()
	loaded := r.LoadPacks(PackReader(), filepath.Join("testdata", "packs", "good"))
	require.Equal(t, 3, loaded)

	rev, ok := r.Get("reverse-string")
	require.True(t, ok)
	info := rev.Info()
	assert.Equal(t, challenge.Easy, info.Difficulty)
	assert.Equal(t, challenge.DefaultArea, info.Area)
	assert.Equal(t, 3, info.CaseCount)
	assert.True(t, rev.Attempt(rev.Definition().Solution).Success)

	fizz, ok := r.Get("fizz-count")
	require.True(t, ok)
	assert.Equal(t, challenge.Debugging, fizz.Info().Category)
	assert.True(t, fizz.Attempt(fizz.Definition().Solution).Success)

	counter, ok := r.Get("counter")
	require.True(t, ok)
	assert.Equal(t, verify.ShapeTrace, counter.Shape())
	res := counter.Attempt(counter.Definition().Solution)
	require.True(t, res.Success, "%v", res.Feedback)
	assert.Equal(t, "The tally stone glows.", res.Feedback[0])
}

func TestPackReaderSkipsBrokenFiles(t *testing.T) {
	r := challenge.NewRegistry()
	loaded := r.LoadPacks(PackReader(), filepath.Join("testdata", "packs", "broken"))
	assert.Equal(t, 1, loaded)
	_, ok := r.Get("answer")
	assert.True(t, ok)
}

func TestPackReaderMissingDir(t *testing.T) {
	_, err := PackReader()(filepath.Join("testdata", "packs", "nowhere"))
	assert.Error(t, err)
}

func TestParseCases(t *testing.T) {
	defs, err := Parse([]byte(`
id: mixed-inputs
cases:
  - input: {a: 1, b: [1, 2]}
    expected: {ok: true}
  - input: [1, "x"]
    expected: [1]
  - input: null
    expected: null
  - expected: 7
`))
	require.NoError(t, err)
	require.Len(t, defs, 1)

	var kinds []verify.ArgsKind
	for _, tc := range defs[0].Cases {
		kinds = append(kinds, tc.(verify.FunctionalCase).Input.Kind())
	}
	want := []verify.ArgsKind{verify.ArgsNamed, verify.ArgsPositional, verify.ArgsSingle, verify.ArgsNamed}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("input kinds mismatch (-want +got):\n%s", diff)
	}
	last := defs[0].Cases[3].(verify.FunctionalCase)
	assert.Empty(t, last.Input.NamedValues())
}

func TestParseScriptAndTraceCases(t *testing.T) {
	defs, err := Parse([]byte(`
challenges:
  - id: scripted
    cases:
      - name: shouts
        imports: [strings]
        script: assert.True(strings.HasSuffix(Solution("hi"), "!"))
  - id: traced
    cases:
      - steps:
          - new: Stack
          - call: Push
            args: [3]
        expected: [null, null]
`))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	sc := defs[0].Cases[0].(verify.ScriptCase)
	assert.Equal(t, "shouts", sc.Name)
	assert.Equal(t, []string{"strings"}, sc.Imports)

	tr := defs[1].Cases[0].(verify.TraceCase)
	assert.Equal(t, verify.Construct("Stack"), tr.Steps[0])
	assert.Equal(t, verify.Call("Push", 3), tr.Steps[1])
}

func TestParseRejects(t *testing.T) {
	for name, src := range map[string]string{
		"no challenges":   `name: nothing`,
		"missing id":      "challenges:\n  - name: anonymous\n",
		"bad category":    "id: x\ncategory: poetry\n",
		"step mismatch":   "id: x\ncases:\n  - steps: [{new: S}, {call: A}]\n    expected: [null]\n",
		"step both":       "id: x\ncases:\n  - steps: [{new: S, call: A}]\n    expected: [null]\n",
		"expected scalar": "id: x\ncases:\n  - steps: [{new: S}]\n    expected: 1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestShippedStarterPack(t *testing.T) {
	defs, err := LoadFile(filepath.Join("..", "..", "packs", "starter.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	for _, def := range defs {
		t.Run(def.ID, func(t *testing.T) {
			c, err := challenge.New(def)
			require.NoError(t, err)
			res := c.Attempt(def.Solution)
			assert.True(t, res.Success, "%v", res.Feedback)
		})
	}
}

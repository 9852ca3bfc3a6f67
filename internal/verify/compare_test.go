package verify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		actual   any
		expected any
		want     bool
	}{
		{"same ints", 3, 3, true},
		{"int and float", 2, 2.0, true},
		{"int width", int8(7), int64(7), true},
		{"different ints", 3, 4, false},
		{"bool is not int", true, 1, false},
		{"string", "abc", "abc", true},
		{"nil", nil, nil, true},
		{"nil vs empty list", nil, []any{}, false},
		{"nil slice is empty list", []int(nil), []any{}, true},
		{"unordered pair", []int{1, 0}, []any{0, 1}, true},
		{"unordered strings", []string{"b", "a"}, []any{"a", "b"}, true},
		{"multiset counts", []int{1, 1, 2}, []any{1, 2, 2}, false},
		{"different lengths", []int{1, 2}, []any{1, 2, 3}, false},
		{"nested lists sorted", [][]int{{2, 3}, {1}}, []any{[]any{1}, []any{2, 3}}, true},
		{"mixed elements positional", []any{1, "a"}, []any{1, "a"}, true},
		{"mixed elements out of order", []any{"a", 1}, []any{1, "a"}, false},
		{"maps", map[string]int{"a": 1}, map[string]any{"a": 1}, true},
		{"maps differ", map[string]int{"a": 1}, map[string]any{"a": 2}, false},
		{"struct as map", struct{ X, Y int }{1, 2}, map[string]any{"X": 1, "Y": 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.actual, tt.expected))
		})
	}
}

func TestEqualExactKeepsOrder(t *testing.T) {
	assert.True(t, EqualExact([]int{1, 2}, []any{1, 2}))
	assert.False(t, EqualExact([]int{2, 1}, []any{1, 2}))
	assert.True(t, EqualExact([]any{nil, 3}, []any{nil, int64(3)}))
}

func TestNormalize(t *testing.T) {
	type node struct {
		Val  int
		Next *node
		tag  string
	}
	n := &node{Val: 1, tag: "hidden"}
	n.Next = &node{Val: 2}

	got := Normalize(n)
	want := map[string]any{
		"Val":  int64(1),
		"Next": map[string]any{"Val": int64(2), "Next": nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}

	n.Next.Next = n
	cyclic := Normalize(n).(map[string]any)
	assert.Equal(t, "<cycle>", cyclic["Next"].(map[string]any)["Next"])

	assert.Equal(t, map[string]any{"1": "x"}, Normalize(map[int]string{1: "x"}))
	assert.Equal(t, float64(1.5), Normalize(float32(1.5)))
	assert.Equal(t, int64(9), Normalize(uint8(9)))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "nil", Format(nil))
	assert.Equal(t, `"hi"`, Format("hi"))
	assert.Equal(t, "[1, 2.5, true]", Format([]any{1, 2.5, true}))
	assert.Equal(t, `{a: 1, b: ["x"]}`, Format(map[string]any{"b": []string{"x"}, "a": 1}))
}

func TestArgs(t *testing.T) {
	named := ArgsFrom(map[string]any{"target": 9, "nums": []int{2, 7}})
	assert.Equal(t, ArgsNamed, named.Kind())
	assert.Equal(t, "nums=[2, 7], target=9", named.String())

	pos := ArgsFrom([]any{1, "a"})
	assert.Equal(t, ArgsPositional, pos.Kind())
	assert.Equal(t, []any{1, "a"}, pos.PositionalValues())
	assert.Equal(t, `1, "a"`, pos.String())

	single := ArgsFrom("World")
	assert.Equal(t, ArgsSingle, single.Kind())
	assert.Equal(t, "World", single.Snapshot())
}

func TestShapeOf(t *testing.T) {
	_, err := ShapeOf(nil)
	assert.ErrorIs(t, err, ErrNoTestCases)

	shape, err := ShapeOf([]TestCase{FunctionalCase{}, FunctionalCase{}})
	assert.NoError(t, err)
	assert.Equal(t, ShapeFunctional, shape)

	_, err = ShapeOf([]TestCase{FunctionalCase{}, TraceCase{}})
	assert.ErrorIs(t, err, ErrMixedShapes)
}

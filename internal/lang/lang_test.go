package lang

import (
	"testing"

	"github.com/dhamidi/comb"
	"github.com/dhamidi/comb/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"calc", "json"}, Names())

	l, ok := Lookup("json")
	require.True(t, ok)
	assert.Equal(t, "json", l.Name)

	l, ok = ForFile("/tmp/Data.JSON")
	require.True(t, ok)
	assert.Equal(t, "json", l.Name)

	l, ok = ForFile("budget.calc")
	require.True(t, ok)
	assert.Equal(t, "calc", l.Name)

	_, ok = ForFile("notes.txt")
	assert.False(t, ok)
}

func TestLocate(t *testing.T) {
	src := "ab\ncdé\nf"
	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{Offset: 0, Line: 1, Column: 1}},
		{2, Position{Offset: 2, Line: 1, Column: 3}},
		{3, Position{Offset: 3, Line: 2, Column: 1}},
		{7, Position{Offset: 7, Line: 2, Column: 4}},
		{8, Position{Offset: 8, Line: 3, Column: 1}},
		{100, Position{Offset: 9, Line: 3, Column: 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Locate(src, tt.offset), "offset %d", tt.offset)
	}
}

func TestUTF16Column(t *testing.T) {
	src := "x😀y"
	assert.Equal(t, 0, UTF16Column(src, Locate(src, 0)))
	assert.Equal(t, 1, UTF16Column(src, Locate(src, 1)))
	assert.Equal(t, 3, UTF16Column(src, Locate(src, 5)))
}

func TestParseJSONDiagnostics(t *testing.T) {
	l, _ := Lookup("json")
	src := "[1,\n x, 2]"
	res := l.Parse(src, true)

	assert.True(t, res.OK)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, comb.Span{Start: 5, End: 6}, d.Span)
	assert.Equal(t, Position{Offset: 5, Line: 2, Column: 2}, d.Start)
	assert.Equal(t, "expected value, found 'x'", d.Message)

	assert.Equal(t, []any{int64(1), int64(2)}, l.Plain(res.Value))
	_, isValue := res.Value.(json.Value)
	assert.True(t, isValue)
}

func TestParseCalc(t *testing.T) {
	l, _ := Lookup("calc")

	res := l.Parse("2 * (3 + 4)", false)
	require.True(t, res.OK)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, map[string]any{"expr": "(2 * (3 + 4))", "value": "14"}, l.Plain(res.Value))

	res = l.Parse("2 *", true)
	assert.False(t, res.OK)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "expected expression, found end of input", res.Diagnostics[0].Message)
}

func TestTree(t *testing.T) {
	l, _ := Lookup("calc")
	res := l.Parse("-a + 1", true)
	require.True(t, res.OK)

	want := `calc
└── [0..6]  +
    ├── [0..2]  -
    │   └── [1..2]  a
    └── [5..6]  1
`
	assert.Equal(t, want, l.Tree(res.Value).String())
}

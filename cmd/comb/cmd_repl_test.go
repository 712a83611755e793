package main

import (
	"testing"

	"github.com/dhamidi/comb/calc"
	"github.com/dhamidi/comb/internal/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplCalc(t *testing.T) {
	l, ok := lang.Lookup("calc")
	require.True(t, ok)
	s := &replSession{lang: l, env: calc.Env{}}

	assert.Equal(t, "x = 6", s.eval("x = 2 * 3"))
	assert.Equal(t, "7", s.eval("x + 1"))
	assert.Equal(t, `error: 0..1: unknown variable "y"`, s.eval("y"))
	assert.Equal(t, "4: expected expression, found end of input", s.eval("1 +"))
	assert.Equal(t, "7", s.eval("  x+1"))
	assert.Contains(t, s.eval("1 = 2"), `3: `)
	assert.Contains(t, s.eval("1 = 2"), `found Punct "="`)
}

func TestReplJSON(t *testing.T) {
	l, ok := lang.Lookup("json")
	require.True(t, ok)
	s := &replSession{lang: l}

	assert.Equal(t, `{"a":[1,true]}`, s.eval(`{"a": [1, true]}`))
	assert.Equal(t, "5: expected value, found 'x'\n[1,2]", s.eval("[1, x, 2]"))
}

func TestParseFileLanguage(t *testing.T) {
	_, err := languageFor("notes.txt", "")
	assert.EqualError(t, err, "notes.txt: cannot tell the language from the file name, use --lang")

	l, err := languageFor("notes.txt", "json")
	require.NoError(t, err)
	assert.Equal(t, "json", l.Name)

	_, err = languageFor("a.json", "xml")
	assert.Error(t, err)
}

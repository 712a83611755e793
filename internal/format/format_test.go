package format

import (
	"bytes"
	"testing"

	"github.com/dhamidi/comb"
	"github.com/dhamidi/comb/internal/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func marshalText(r *Report) ([]byte, error) {
	e := NewLineEncoder(nil)
	e.report = r
	return e.MarshalText()
}

func sampleReport() *Report {
	src := "[1,\n x]"
	return &Report{
		File:     "in.json",
		Language: "json",
		Size:     len(src),
		OK:       true,
		Diagnostics: []lang.Diagnostic{{
			Span:    comb.Span{Start: 5, End: 6},
			Start:   lang.Locate(src, 5),
			End:     lang.Locate(src, 6),
			Message: "expected value, found 'x'",
		}},
		Value: []any{int64(1)},
	}
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf).Encode(sampleReport()))
	assert.Equal(t, "in.json:2:2: expected value, found 'x'\nin.json: json, 7 B, 1 error, recovered\n", buf.String())
}

func TestLineEncoderClean(t *testing.T) {
	r := &Report{File: "a.calc", Language: "calc", Size: 1200, OK: true, Tree: "calc\n└── 1"}
	text, err := marshalText(r)
	require.NoError(t, err)
	assert.Equal(t, "calc\n└── 1\na.calc: calc, 1.2 kB, ok\n", string(text))
}

func TestLineEncoderFailure(t *testing.T) {
	r := sampleReport()
	r.OK = false
	r.Diagnostics = append(r.Diagnostics, r.Diagnostics[0])
	text, err := marshalText(r)
	require.NoError(t, err)
	assert.Contains(t, string(text), "2 errors, nothing recovered")
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONEncoder(&buf).Encode(sampleReport()))
	want := `{
  "file": "in.json",
  "language": "json",
  "ok": true,
  "diagnostics": [
    {
      "start": {
        "offset": 5,
        "line": 2,
        "column": 2
      },
      "end": {
        "offset": 6,
        "line": 2,
        "column": 3
      },
      "message": "expected value, found 'x'"
    }
  ],
  "value": [
    1
  ]
}
`
	assert.Equal(t, want, buf.String())
}

func TestYAMLEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLEncoder(&buf).Encode(sampleReport()))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "in.json", got["file"])
	assert.Equal(t, true, got["ok"])
	assert.Equal(t, []any{1}, got["value"])

	diags := got["diagnostics"].([]any)
	require.Len(t, diags, 1)
	d := diags[0].(map[string]any)
	assert.Equal(t, "expected value, found 'x'", d["message"])
	assert.Equal(t, map[string]any{"offset": 5, "line": 2, "column": 2}, d["start"])
}

func TestNew(t *testing.T) {
	for _, name := range []string{"text", "json", "yaml"} {
		_, err := New(name, nil)
		assert.NoError(t, err, name)
	}
	_, err := New("xml", nil)
	assert.EqualError(t, err, "unknown format: xml")
}

func TestLineEncoderLargeCount(t *testing.T) {
	r := &Report{File: "big.json", Language: "json", OK: true}
	d := sampleReport().Diagnostics[0]
	for range 1200 {
		r.Diagnostics = append(r.Diagnostics, d)
	}
	text, err := marshalText(r)
	require.NoError(t, err)
	assert.Contains(t, string(text), "big.json: json, 0 B, 1,200 errors, recovered\n")
}

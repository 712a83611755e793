// Package format renders parse reports for the command line.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/comb/internal/lang"
)

// Report is the outcome of parsing one input.
type Report struct {
	File        string
	Language    string
	Size        int
	OK          bool
	Diagnostics []lang.Diagnostic
	// Value is the parse output as plain Go values. It is nil when
	// nothing could be salvaged.
	Value any
	// Tree is an optional rendering of the parse output.
	Tree string
}

type Encoder interface {
	encoding.TextMarshaler
	Encode(r *Report) error
}

// New returns the encoder for a format name: text, json or yaml.
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "text":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}

type report struct {
	File        string       `json:"file" yaml:"file"`
	Language    string       `json:"language" yaml:"language"`
	OK          bool         `json:"ok" yaml:"ok"`
	Diagnostics []diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Value       any          `json:"value,omitempty" yaml:"value,omitempty"`
}

type diagnostic struct {
	Start   position `json:"start" yaml:"start"`
	End     position `json:"end" yaml:"end"`
	Message string   `json:"message" yaml:"message"`
}

type position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func buildReport(r *Report) report {
	out := report{
		File:        r.File,
		Language:    r.Language,
		OK:          r.OK,
		Diagnostics: make([]diagnostic, len(r.Diagnostics)),
		Value:       r.Value,
	}
	for i, d := range r.Diagnostics {
		out.Diagnostics[i] = diagnostic{
			Start:   position(d.Start),
			End:     position(d.End),
			Message: d.Message,
		}
	}
	return out
}

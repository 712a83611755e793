package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

// LineEncoder writes one line per diagnostic in the file:line:col form
// editors understand, followed by the tree and a summary.
type LineEncoder struct {
	w      io.Writer
	report *Report
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(r *Report) error {
	e.report = r
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	r := e.report

	for _, d := range r.Diagnostics {
		fmt.Fprintf(&sb, "%s:%d:%d: %s\n", r.File, d.Start.Line, d.Start.Column, d.Message)
	}
	if r.Tree != "" {
		sb.WriteString(r.Tree)
		if !strings.HasSuffix(r.Tree, "\n") {
			sb.WriteByte('\n')
		}
	}
	fmt.Fprintf(&sb, "%s: %s, %s, %s\n", r.File, r.Language, humanize.Bytes(uint64(r.Size)), summary(r))

	return []byte(sb.String()), nil
}

func summary(r *Report) string {
	n := len(r.Diagnostics)
	switch {
	case n == 0:
		return "ok"
	case !r.OK:
		return fmt.Sprintf("%s %s, nothing recovered", humanize.Comma(int64(n)), english.PluralWord(n, "error", ""))
	}
	return fmt.Sprintf("%s %s, recovered", humanize.Comma(int64(n)), english.PluralWord(n, "error", ""))
}

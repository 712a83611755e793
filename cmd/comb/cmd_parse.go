package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/comb/internal/format"
	"github.com/dhamidi/comb/internal/lang"
	"github.com/spf13/cobra"
)

var errParseFailed = errors.New("parse failed")

type parseOptions struct {
	language  string
	norecover bool
	tree      bool
}

func newParseCmd() *cobra.Command {
	var outputFormat string
	var opts parseOptions

	cmd := &cobra.Command{
		Use:           "parse <file>...",
		Short:         "Parse files and report syntax errors",
		Long:          "Parse files and report syntax errors. Use - to read standard input, which requires --lang.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			failed := false
			for _, filename := range args {
				report, err := parseFile(filename, opts)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					failed = true
					continue
				}
				if err := enc.Encode(report); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
				if len(report.Diagnostics) > 0 {
					failed = true
				}
			}
			if failed {
				return errParseFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json, yaml)")
	cmd.Flags().StringVarP(&opts.language, "lang", "l", "", "language to parse as (default: by file extension)")
	cmd.Flags().BoolVar(&opts.norecover, "no-recover", false, "stop at the first syntax error")
	cmd.Flags().BoolVar(&opts.tree, "tree", false, "include the parse tree in text output")

	return cmd
}

func languageFor(filename, name string) (*lang.Language, error) {
	if name != "" {
		l, ok := lang.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown language: %s (known: %v)", name, lang.Names())
		}
		return l, nil
	}
	l, ok := lang.ForFile(filename)
	if !ok {
		return nil, fmt.Errorf("%s: cannot tell the language from the file name, use --lang", filename)
	}
	return l, nil
}

func parseFile(filename string, opts parseOptions) (*format.Report, error) {
	l, err := languageFor(filename, opts.language)
	if err != nil {
		return nil, err
	}

	var data []byte
	if filename == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	src := string(data)
	res := l.Parse(src, !opts.norecover)
	report := &format.Report{
		File:        filename,
		Language:    l.Name,
		Size:        len(data),
		OK:          res.OK,
		Diagnostics: res.Diagnostics,
	}
	if res.OK {
		report.Value = l.Plain(res.Value)
		if opts.tree {
			report.Tree = l.Tree(res.Value).String()
		}
	}
	return report, nil
}

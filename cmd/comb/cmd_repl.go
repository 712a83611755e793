package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/comb/calc"
	"github.com/dhamidi/comb/internal/lang"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

func newReplCmd() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Parse input line by line",
		Long: `Parse input line by line and print the result.

In the calc language, "name = expr" binds a variable for later lines.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, ok := lang.Lookup(language)
			if !ok {
				return fmt.Errorf("unknown language: %s (known: %v)", language, lang.Names())
			}
			return runRepl(cmd.OutOrStdout(), l)
		},
	}

	cmd.Flags().StringVarP(&language, "lang", "l", "calc", "language to parse as")

	return cmd
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".comb_history")
}

func runRepl(out io.Writer, l *lang.Language) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	history := historyFile()
	if history != "" {
		if f, err := os.Open(history); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	session := &replSession{lang: l, env: calc.Env{}}
	for {
		input, err := line.Prompt(l.Name + "> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		fmt.Fprintln(out, session.eval(input))
	}

	if history != "" {
		if f, err := os.Create(history); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
	return nil
}

type replSession struct {
	lang *lang.Language
	env  calc.Env
}

// eval handles one line of input and returns what to print.
func (s *replSession) eval(input string) string {
	if s.lang.Name == "calc" {
		return s.evalCalc(input)
	}

	res := s.lang.Parse(input, true)
	var sb strings.Builder
	writeDiagnostics(&sb, res.Diagnostics)
	if res.OK {
		data, err := json.Marshal(s.lang.Plain(res.Value))
		if err != nil {
			fmt.Fprintf(&sb, "error: %s", err)
		} else {
			sb.Write(data)
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (s *replSession) evalCalc(input string) string {
	b, ok, errs := calc.ParseStatement(input)
	if len(errs) > 0 {
		var sb strings.Builder
		writeDiagnostics(&sb, lang.Diagnostics(input, errs))
		return strings.TrimSuffix(sb.String(), "\n")
	}
	if !ok {
		return "error: nothing to evaluate"
	}

	v, err := calc.Eval(b.Expr, s.env)
	if err != nil {
		return "error: " + err.Error()
	}
	if b.Name != "" {
		s.env[b.Name] = v
		return b.Name + " = " + v.String()
	}
	return v.String()
}

func writeDiagnostics(w io.Writer, diags []lang.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%d: %s\n", d.Start.Column, d.Message)
	}
}

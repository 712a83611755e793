package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/comb/lex"
	"github.com/spf13/cobra"
)

func newLexCmd() *cobra.Command {
	var skip []string
	var errorsOnly bool

	cmd := &cobra.Command{
		Use:           "lex <grammar> <file>",
		Short:         "Tokenize a file with an EBNF lexical grammar",
		Long:          "Tokenize a file with an EBNF lexical grammar. Productions with upper-case names are token kinds.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := lex.LoadGrammar(args[0])
			if err != nil {
				printErrors(cmd, err)
				return err
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}

			l := lex.New(grammar, data, lex.WithFile(args[1]), lex.WithSkipKinds(skip...))
			bad := 0
			for _, item := range l.Tokenize() {
				if item.Kind == lex.ERROR {
					bad++
				} else if errorsOnly {
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), item)
			}
			if bad > 0 {
				return fmt.Errorf("%s: %d unrecognized characters", args[1], bad)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&skip, "skip", nil, "token kinds to drop, such as WhiteSpace")
	cmd.Flags().BoolVar(&errorsOnly, "errors", false, "only print unrecognized characters")

	return cmd
}

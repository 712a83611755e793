package main

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dhamidi/comb/lex"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "grammar",
		Short:         "EBNF lexical grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newGrammarCheckCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check <file>",
		Short:         "Parse and verify an EBNF grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := lex.LoadGrammar(args[0])
			if err != nil {
				printErrors(cmd, err)
				return err
			}

			if startProduction != "" {
				if err := lex.Verify(grammar, startProduction); err != nil {
					printErrors(cmd, err)
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "token kinds: %s\n", strings.Join(lex.Kinds(grammar), ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

// printErrors prints each error of an error list on its own line.
func printErrors(cmd *cobra.Command, err error) {
	for err != nil {
		v := reflect.ValueOf(err)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(cmd.ErrOrStderr(), v.Index(i).Interface())
			}
			return
		}
		next, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = next.Unwrap()
	}
	fmt.Fprintln(cmd.ErrOrStderr(), err)
}

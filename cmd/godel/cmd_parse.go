package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kr-engine/godel/internal/kernel/ast"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <formula>",
		Short: "Parse a formula and print its canonical S-expression form",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			k := newKR()
			n, errs := k.Parse(args[0], "<cmdline>")
			if len(errs) > 0 {
				for _, r := range errs {
					fmt.Fprintln(os.Stderr, red(r.Code+":"), r.Message)
				}
				os.Exit(ExitUserError)
			}
			fmt.Println(ast.Print(n))
		},
	}
}

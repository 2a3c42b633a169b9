package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newTypecheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "typecheck <formula>",
		Short: "Parse a formula and validate its recorded types (C1 check/infer)",
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
			t, err := k.Infer(n)
			if err != nil {
				fmt.Fprintln(os.Stderr, red("Type error:"), err)
				os.Exit(ExitUserError)
			}
			fmt.Println(green("ok"), t.String())
		},
	}
}

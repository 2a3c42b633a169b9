package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	var axioms []string
	var out string

	cmd := &cobra.Command{
		Use:   "snapshot <file>",
		Short: "Write the current Knowledge Store and signature table to a snapshot file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			k := newKR()
			root := k.Store.RootID()

			for _, src := range axioms {
				n, errs := k.Parse(src, "<axiom>")
				if len(errs) > 0 {
					for _, r := range errs {
						fmt.Fprintln(os.Stderr, red(r.Code+":"), r.Message)
					}
					os.Exit(ExitUserError)
				}
				if _, err := k.Add(n, root, nil); err != nil {
					fmt.Fprintln(os.Stderr, red("Error adding axiom:"), err)
					os.Exit(ExitUserError)
				}
			}

			path := args[0]
			if out != "" {
				path = out
			}
			f, err := os.Create(path)
			if err != nil {
				fmt.Fprintln(os.Stderr, red("Error:"), err)
				os.Exit(ExitUserError)
			}
			defer f.Close()

			if err := k.WriteSnapshot(f); err != nil {
				fmt.Fprintln(os.Stderr, red("Error writing snapshot:"), err)
				os.Exit(ExitUserError)
			}
			fmt.Println(green("wrote"), path)
		},
	}
	cmd.Flags().StringArrayVar(&axioms, "axiom", nil, "formula to add to the root context before snapshotting (repeatable)")
	cmd.Flags().StringVar(&out, "out", "", "output path (defaults to the positional argument)")
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newQueryCmd() *cobra.Command {
	var contextID string

	cmd := &cobra.Command{
		Use:   "query <pattern>",
		Short: "Match pattern against one context's facts and depth-1 rule heads",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			k := newKR()
			root := k.Store.RootID()
			ctxID := contextID
			if ctxID == "" {
				ctxID = root
			}

			pattern, errs := k.Parse(args[0], "<pattern>")
			if len(errs) > 0 {
				for _, r := range errs {
					fmt.Fprintln(os.Stderr, red(r.Code+":"), r.Message)
				}
				os.Exit(ExitUserError)
			}

			it, err := k.Query(pattern, []string{ctxID}, nil)
			if err != nil {
				fmt.Fprintln(os.Stderr, red("Error:"), err)
				os.Exit(ExitUserError)
			}

			count := 0
			for {
				binding, ok := it.Next()
				if !ok {
					break
				}
				count++
				if len(binding) == 0 {
					fmt.Println(green("match"))
					continue
				}
				for v, n := range binding {
					fmt.Printf("%s = %s\n", v, n)
				}
			}
			if count == 0 {
				fmt.Println(yellow("no matches"))
				os.Exit(ExitLogicalFailure)
			}
		},
	}
	cmd.Flags().StringVar(&contextID, "context", "", "context id to query (defaults to root)")
	return cmd
}

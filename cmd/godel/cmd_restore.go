package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kr-engine/godel/internal/kr"
)

func newRestoreCmd() *cobra.Command {
	var goal string

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Rebuild a Knowledge Store from a snapshot file, optionally proving a goal against it",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			f, err := os.Open(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, red("Error:"), err)
				os.Exit(ExitUserError)
			}
			defer f.Close()

			k, err := kr.RestoreSnapshot(loadConfig(), zap.NewNop().Sugar(), f)
			if err != nil {
				if errors.Is(err, kr.ErrBadMagic) || errors.Is(err, kr.ErrBadVersion) {
					fmt.Fprintln(os.Stderr, red("Invariant violation:"), err)
					os.Exit(ExitInvariantViolation)
				}
				fmt.Fprintln(os.Stderr, red("Error restoring snapshot:"), err)
				os.Exit(ExitUserError)
			}

			contexts := k.Store.Contexts()
			fmt.Println(green("restored"), len(contexts), "context(s)")

			if goal == "" {
				return
			}
			n, errs := k.Parse(goal, "<goal>")
			if len(errs) > 0 {
				for _, r := range errs {
					fmt.Fprintln(os.Stderr, red(r.Code+":"), r.Message)
				}
				os.Exit(ExitUserError)
			}
			result, err := k.SubmitGoal(context.Background(), n, []string{k.Store.RootID()}, nil)
			if err != nil {
				fmt.Fprintln(os.Stderr, red("Error:"), err)
				os.Exit(ExitUserError)
			}
			printResult(result)
			os.Exit(exitCodeFor(result))
		},
	}
	cmd.Flags().StringVar(&goal, "prove", "", "goal to submit against the restored store")
	return cmd
}

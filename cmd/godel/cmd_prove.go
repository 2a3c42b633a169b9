package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kr-engine/godel/internal/kernel/proof"
)

func newProveCmd() *cobra.Command {
	var axioms []string

	cmd := &cobra.Command{
		Use:   "prove <goal>",
		Short: "Submit a goal to the Inference Coordinator and print its Proof Object status",
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

			goal, errs := k.Parse(args[0], "<goal>")
			if len(errs) > 0 {
				for _, r := range errs {
					fmt.Fprintln(os.Stderr, red(r.Code+":"), r.Message)
				}
				os.Exit(ExitUserError)
			}

			result, err := k.SubmitGoal(context.Background(), goal, []string{root}, nil)
			if err != nil {
				fmt.Fprintln(os.Stderr, red("Error:"), err)
				os.Exit(ExitUserError)
			}
			printResult(result)
			os.Exit(exitCodeFor(result))
		},
	}
	cmd.Flags().StringArrayVar(&axioms, "axiom", nil, "formula to add to the root context before proving (repeatable)")
	return cmd
}

func printResult(result *proof.Proof) {
	switch result.Status.Code {
	case proof.Proved:
		fmt.Println(green("Proved"), result.Conclusion)
	case proof.Disproved:
		fmt.Println(red("Disproved"), result.Conclusion)
	case proof.Contradiction:
		fmt.Println(red("Contradiction"), result.Conclusion)
	case proof.ResourceExhausted:
		fmt.Println(yellow("ResourceExhausted"), result.Status.Dimension)
	default:
		fmt.Println(yellow(result.Status.Code.String()))
	}
}

// exitCodeFor maps a Proof Object status to the CLI exit code spec §6
// requires: 0 success, 1 logical failure, 2 user error, 3 resource
// exhaustion, 4 internal invariant violation.
func exitCodeFor(result *proof.Proof) int {
	switch result.Status.Code {
	case proof.Proved:
		return ExitSuccess
	case proof.Disproved, proof.Unknown, proof.Contradiction:
		return ExitLogicalFailure
	case proof.ResourceExhausted:
		return ExitResourceExhausted
	case proof.StrategyFailed:
		return ExitInvariantViolation
	default:
		return ExitInvariantViolation
	}
}

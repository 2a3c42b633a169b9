package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

// newReplCmd builds an interactive session over one KR instance: add,
// query, and prove against the same root context without re-parsing a
// new command-line invocation per statement.
func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive add/query/prove session against an in-memory Knowledge Store",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runRepl()
		},
	}
}

func runRepl() {
	k := newKR()
	root := k.Store.RootID()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println("godel repl. commands: add <formula>, query <pattern>, prove <goal>, exit")
	for {
		input, err := line.Prompt("godel> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return
			}
			fmt.Fprintln(os.Stderr, red("Error:"), err)
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		cmd, rest, _ := strings.Cut(input, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "exit", "quit":
			return
		case "add":
			n, errs := k.Parse(rest, "<repl>")
			if len(errs) > 0 {
				for _, r := range errs {
					fmt.Println(red(r.Code+":"), r.Message)
				}
				continue
			}
			added, err := k.Add(n, root, nil)
			if err != nil {
				fmt.Println(red("Error:"), err)
				continue
			}
			if added {
				fmt.Println(green("added"))
			} else {
				fmt.Println(yellow("already present"))
			}
		case "query":
			n, errs := k.Parse(rest, "<repl>")
			if len(errs) > 0 {
				for _, r := range errs {
					fmt.Println(red(r.Code+":"), r.Message)
				}
				continue
			}
			it, err := k.Query(n, []string{root}, nil)
			if err != nil {
				fmt.Println(red("Error:"), err)
				continue
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
				for v, bn := range binding {
					fmt.Printf("%s = %s\n", v, bn)
				}
			}
			if count == 0 {
				fmt.Println(yellow("no matches"))
			}
		case "prove":
			n, errs := k.Parse(rest, "<repl>")
			if len(errs) > 0 {
				for _, r := range errs {
					fmt.Println(red(r.Code+":"), r.Message)
				}
				continue
			}
			result, err := k.SubmitGoal(context.Background(), n, []string{root}, nil)
			if err != nil {
				fmt.Println(red("Error:"), err)
				continue
			}
			printResult(result)
		default:
			fmt.Println(yellow("unknown command"), cmd)
		}
	}
}

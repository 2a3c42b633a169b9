// Command godel is the kernel's CLI: parse, typecheck, prove, query a
// running Knowledge Store, and snapshot/restore one to/from disk.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kr-engine/godel/internal/kernelconfig"
	"github.com/kr-engine/godel/internal/kr"
)

// Exit codes, spec §6: "0 success, 1 logical failure (unprovable /
// unsat), 2 user error, 3 resource exhaustion, 4 internal invariant
// violation."
const (
	ExitSuccess = iota
	ExitLogicalFailure
	ExitUserError
	ExitResourceExhausted
	ExitInvariantViolation
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()

	configPath string
)

func main() {
	root := &cobra.Command{
		Use:   "godel",
		Short: "Symbolic cognition kernel: parse, typecheck, and prove HOL goals",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a kernel config YAML file")

	root.AddCommand(newParseCmd())
	root.AddCommand(newTypecheckCmd())
	root.AddCommand(newProveCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newSnapshotCmd())
	root.AddCommand(newRestoreCmd())
	root.AddCommand(newReplCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("Error:"), err)
		os.Exit(ExitUserError)
	}
}

func loadConfig() kernelconfig.Config {
	if configPath == "" {
		return kernelconfig.Default()
	}
	cfg, err := kernelconfig.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, red("Error loading config:"), err)
		os.Exit(ExitUserError)
	}
	return cfg
}

func newKR() *kr.KR {
	return kr.New(loadConfig(), zap.NewNop().Sugar())
}

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kr-engine/godel/internal/kernel/proof"
)

func TestExitCodeForMapsEveryStatus(t *testing.T) {
	cases := []struct {
		code proof.StatusCode
		want int
	}{
		{proof.Proved, ExitSuccess},
		{proof.Disproved, ExitLogicalFailure},
		{proof.Unknown, ExitLogicalFailure},
		{proof.Contradiction, ExitLogicalFailure},
		{proof.ResourceExhausted, ExitResourceExhausted},
		{proof.StrategyFailed, ExitInvariantViolation},
	}
	for _, c := range cases {
		result := &proof.Proof{Status: proof.Status{Code: c.code}}
		require.Equal(t, c.want, exitCodeFor(result), "status %v", c.code)
	}
}

func TestLoadConfigDefaultsWhenNoConfigPathSet(t *testing.T) {
	configPath = ""
	cfg := loadConfig()
	require.NotZero(t, cfg)
}

package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-agent/internal/game"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlayCommand(t *testing.T) {
	out, err := run(t, "play", "--height", "5", "--width", "5", "--mines", "3", "--seed", "4", "--audit", "--show-board")
	require.NoError(t, err)
	assert.Contains(t, out, "|")
	assert.Regexp(t, `(won|lost) after \d+ moves`, out)
}

func TestPlayCommandJSON(t *testing.T) {
	out, err := run(t, "play", "--height", "6", "--width", "6", "--mines", "4", "--seed", "9", "--closure", "bounded", "--json")
	require.NoError(t, err)

	var res game.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, uint64(9), res.Seed)
	assert.Equal(t, "bounded", res.Closure)
	assert.NotEqual(t, res.Won, res.Lost)
}

func TestBenchCommand(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "solver.log")
	out, err := run(t, "bench", "-n", "6", "-w", "2", "--json", "--log-file", logFile)
	require.NoError(t, err)

	var summary game.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 6, summary.Games)
	assert.Equal(t, summary.Games, summary.Won+summary.Lost)
	assert.FileExists(t, logFile)
}

func TestInvalidFlags(t *testing.T) {
	_, err := run(t, "play", "--height", "2", "--width", "2", "--mines", "9")
	require.Error(t, err)

	_, err = run(t, "bench", "--closure", "greedy")
	require.Error(t, err)
}

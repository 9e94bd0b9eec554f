package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/samuelfneumann/spherenav/environment/envconfig"
	"github.com/samuelfneumann/spherenav/experiment/tracker"
)

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "returns_3.bin"),
		outputPath("out", "returns.bin", 3))
	assert.Equal(t, "lengths_0", outputPath("", "lengths", 0))
}

func TestRun(t *testing.T) {
	cfg, err := envconfig.Load("")
	require.NoError(t, err)

	cfg.Instances = 2
	cfg.Steps = 500
	cfg.EpisodeCutoff = 100
	cfg.Output.Dir = filepath.Join(t.TempDir(), "results")

	require.NoError(t, run(context.Background(), cfg, zaptest.NewLogger(t)))

	for i := 0; i < cfg.Instances; i++ {
		records, err := tracker.LoadOutcomes(
			outputPath(cfg.Output.Dir, cfg.Output.Outcomes, i))
		require.NoError(t, err)
		require.NotEmpty(t, records)

		lengths, err := tracker.LoadData[int](
			outputPath(cfg.Output.Dir, cfg.Output.Lengths, i))
		require.NoError(t, err)
		require.Len(t, lengths, len(records))
		for j, r := range records {
			assert.Equal(t, lengths[j], r.Steps)
			assert.LessOrEqual(t, r.Steps, 100)
		}
	}
}

func TestRunManual(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	require.NoError(t, os.WriteFile(input,
		[]byte("horizontal,vertical\n1,0\n1,0\n0,1\n"), 0o644))

	cfg, err := envconfig.Load("")
	require.NoError(t, err)
	cfg.Policy = envconfig.Manual
	cfg.ManualInput = input
	cfg.Steps = 20
	cfg.Output.Dir = filepath.Join(dir, "results")
	require.NoError(t, run(context.Background(), cfg, zaptest.NewLogger(t)))

	cfg.ManualInput = filepath.Join(dir, "missing.csv")
	assert.Error(t, run(context.Background(), cfg, zaptest.NewLogger(t)))
}

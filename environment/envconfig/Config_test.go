package envconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/spherenav/environment/box2d/plane"
	"github.com/samuelfneumann/spherenav/environment/navigation"
	"github.com/samuelfneumann/spherenav/placement"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaultsMatchPackageDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, navigation.DefaultConfig(), cfg.Config)
	assert.Equal(t, plane.DefaultConfig(), cfg.Physics)
	assert.Equal(t, Seek, cfg.Policy)
	assert.Equal(t, 1, cfg.Instances)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
seed: 7
instances: 3
obstacles:
  max_count: 6
  fallback: relax
reward:
  collision_penalty: -0.1
physics:
  walls: false
  fixed:
    - {position: {x: 5, z: 5}, half_size: 1, height: 1, speed: 1, distance: 2}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 3, cfg.Instances)
	assert.Equal(t, 6, cfg.Obstacles.MaxCount)
	assert.Equal(t, 2, cfg.Obstacles.MinCount)
	assert.Equal(t, placement.Relax, cfg.Obstacles.Fallback)
	assert.Equal(t, -0.1, cfg.Reward.CollisionPenalty)
	assert.Equal(t, 1.0, cfg.Reward.SuccessReward)
	assert.False(t, cfg.Physics.Walls)
	require.Len(t, cfg.Physics.Fixed, 1)
	assert.True(t, cfg.Physics.Fixed[0].Oscillates())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")

	_, err = Load(writeConfig(t, "obstacles: [1, 2"))
	assert.ErrorContains(t, err, "parsing config file")

	_, err = Load(writeConfig(t, "obstacles: {fallback: sometimes}"))
	assert.ErrorContains(t, err, "unknown fallback")

	_, err = Load(writeConfig(t, "policy: dance\ninstances: 0"))
	assert.ErrorContains(t, err, "unknown policy")
	assert.ErrorContains(t, err, "instances")

	_, err = Load(writeConfig(t, "policy: manual"))
	assert.ErrorContains(t, err, "manual_input")

	cfg, err := Load(writeConfig(t, "policy: manual\nmanual_input: in.csv"))
	require.NoError(t, err)
	assert.Equal(t, Manual, cfg.Policy)
}

func TestCreate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	env, world, step, err := cfg.Create(0, nil)
	require.NoError(t, err)
	assert.True(t, step.First())
	assert.Equal(t, navigation.CoreObservations+8*plane.FeaturesPerRay,
		step.Observation.Len())
	_, ok := world.Target()
	assert.True(t, ok)
	assert.NotEmpty(t, env.State().Obstacles())

	assert.NotEqual(t, cfg.InstanceSeed(0), cfg.InstanceSeed(1))
	assert.Equal(t, cfg.InstanceSeed(1), cfg.InstanceSeed(1))
}

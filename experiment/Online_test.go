package experiment

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/spherenav/environment"
	"github.com/samuelfneumann/spherenav/experiment/tracker"
	"github.com/samuelfneumann/spherenav/timestep"
)

// countdown is an environment whose episodes last a fixed number of
// steps, each rewarded with the first action component. Like every
// Environment it begins the next episode as soon as one ends.
type countdown struct {
	length  int
	current timestep.TimeStep
	resets  int
}

func newCountdown(length int) *countdown {
	c := &countdown{length: length}
	c.Reset()
	return c
}

func (c *countdown) Reset() timestep.TimeStep {
	c.resets++
	c.current = timestep.New(timestep.First, 0, 1, mat.NewVecDense(1, nil), 0)
	return c.current
}

func (c *countdown) Step(a *mat.VecDense) (timestep.TimeStep, bool) {
	n := c.current.Number + 1
	step := timestep.New(timestep.Mid, a.AtVec(0), 1,
		mat.NewVecDense(1, []float64{float64(n)}), n)
	if n == c.length {
		step.SetEnd(timestep.TimedOut)
		c.Reset()
	} else {
		c.current = step
	}
	return step, step.Last()
}

func (c *countdown) CurrentTimeStep() timestep.TimeStep { return c.current }

func (c *countdown) spec(t environment.SpecType) environment.Spec {
	return environment.NewSpec(mat.NewVecDense(1, nil), t,
		mat.NewVecDense(1, []float64{-1}), mat.NewVecDense(1, []float64{1}),
		environment.Continuous)
}

func (c *countdown) RewardSpec() environment.Spec      { return c.spec(environment.Reward) }
func (c *countdown) DiscountSpec() environment.Spec    { return c.spec(environment.Discount) }
func (c *countdown) ObservationSpec() environment.Spec { return c.spec(environment.Observation) }
func (c *countdown) ActionSpec() environment.Spec      { return c.spec(environment.Action) }

// constant always selects the same action and counts what it learns
type constant struct {
	value    float64
	firsts   int
	observed int
	updates  int
}

func (c *constant) SelectAction(timestep.TimeStep) *mat.VecDense {
	return mat.NewVecDense(1, []float64{c.value})
}

func (c *constant) ObserveFirst(timestep.TimeStep)        { c.firsts++ }
func (c *constant) Observe(mat.Vector, timestep.TimeStep) { c.observed++ }
func (c *constant) Step()                                 { c.updates++ }

func TestOnlineRun(t *testing.T) {
	dir := t.TempDir()
	returns := tracker.NewReturn(filepath.Join(dir, "returns.bin"))
	lengths := tracker.NewEpisodeLength(filepath.Join(dir, "lengths.bin"))
	outcomes := tracker.NewOutcomes("run", filepath.Join(dir, "outcomes.csv"))

	env := newCountdown(4)
	policy := &constant{value: 0.5}
	exp := NewOnline(env, policy, 10, nil, returns, lengths)
	exp.Register(outcomes)
	exp.Run()

	// 10 steps make two full episodes of 4 steps and part of a third
	assert.Equal(t, 2, exp.Episodes())
	assert.Equal(t, []float64{2, 2}, returns.Returns())
	assert.Equal(t, []int{4, 4}, lengths.Lengths())
	assert.Equal(t, 2, outcomes.Count(timestep.TimedOut))

	// The environment begins each episode itself
	assert.Equal(t, 3, env.resets)

	assert.Equal(t, 3, policy.firsts)
	assert.Equal(t, 10, policy.observed)
	assert.Equal(t, 10, policy.updates)

	require.NoError(t, exp.Save())
	loaded, err := tracker.LoadData[float64](filepath.Join(dir, "returns.bin"))
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2}, loaded)
}

func TestOnlineResetsMidEpisode(t *testing.T) {
	env := newCountdown(5)
	env.Step(mat.NewVecDense(1, []float64{0}))

	exp := NewOnline(env, &constant{value: 1}, 5, nil)
	assert.True(t, exp.RunEpisode())
	assert.Equal(t, 1, exp.Episodes())
	assert.Equal(t, 3, env.resets)
}

func TestOnlineSaveReportsErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing", "returns.bin")
	exp := NewOnline(newCountdown(2), &constant{}, 2, nil,
		tracker.NewReturn(missing))
	exp.Run()
	assert.Error(t, exp.Save())
}

package timestep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestSetEnd(t *testing.T) {
	step := New(Mid, -0.001, 0.99, mat.NewVecDense(5, nil), 3)
	assert.True(t, step.Mid())
	assert.Equal(t, Ongoing, step.Outcome())

	step.SetEnd(ReachedTarget)
	assert.True(t, step.Last())
	assert.Equal(t, ReachedTarget, step.Outcome())
	assert.Contains(t, step.String(), "ReachedTarget")
}

func TestSetEndRejectsOngoing(t *testing.T) {
	step := New(First, 0, 0.99, mat.NewVecDense(5, nil), 0)
	assert.Panics(t, func() { step.SetEnd(Ongoing) })
}

func TestOutcomeTerminal(t *testing.T) {
	assert.False(t, Ongoing.Terminal())
	for _, o := range []Outcome{ReachedTarget, HitObstacleOrWall,
		FellOutOfBounds, TimedOut} {
		assert.True(t, o.Terminal(), o.String())
	}
}

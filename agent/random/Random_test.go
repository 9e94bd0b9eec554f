package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/spherenav/environment"
	"github.com/samuelfneumann/spherenav/timestep"
)

func TestUniformStaysInBounds(t *testing.T) {
	spec := environment.NewSpec(mat.NewVecDense(2, nil), environment.Action,
		mat.NewVecDense(2, []float64{-1, 0}),
		mat.NewVecDense(2, []float64{1, 0.5}), environment.Continuous)
	u := NewUniform(spec, 3)

	for i := 0; i < 1000; i++ {
		action := u.SelectAction(timestep.TimeStep{})
		require.Equal(t, 2, action.Len())
		require.True(t, spec.Contains(action))
		require.GreaterOrEqual(t, action.AtVec(0), -1.0)
		require.LessOrEqual(t, action.AtVec(0), 1.0)
		require.GreaterOrEqual(t, action.AtVec(1), 0.0)
		require.LessOrEqual(t, action.AtVec(1), 0.5)
	}

	// Seeded policies are reproducible
	a := NewUniform(spec, 9).SelectAction(timestep.TimeStep{})
	b := NewUniform(spec, 9).SelectAction(timestep.TimeStep{})
	assert.Equal(t, a.RawVector().Data, b.RawVector().Data)
}

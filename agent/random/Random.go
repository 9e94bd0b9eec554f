// Package random implements a policy which selects actions uniformly at
// random
package random

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/spherenav/environment"
	"github.com/samuelfneumann/spherenav/timestep"
	"github.com/samuelfneumann/spherenav/utils/randutils"
)

// Uniform implements a policy which selects each action dimension
// uniformly at random within the bounds of an action specification
type Uniform struct {
	dims []distuv.Uniform
}

// NewUniform returns a new Uniform policy selecting actions within the
// bounds of spec
func NewUniform(spec environment.Spec, seed uint64) *Uniform {
	src := randutils.NewSource(seed, "policy.random")

	dims := make([]distuv.Uniform, spec.Shape.Len())
	for i := range dims {
		dims[i] = distuv.Uniform{
			Min: spec.LowerBound.AtVec(i),
			Max: spec.UpperBound.AtVec(i),
			Src: src,
		}
	}
	return &Uniform{dims}
}

// SelectAction selects a random action
func (u *Uniform) SelectAction(timestep.TimeStep) *mat.VecDense {
	action := mat.NewVecDense(len(u.dims), nil)
	for i, dim := range u.dims {
		action.SetVec(i, dim.Rand())
	}
	return action
}

// Package experiment implements functionality for running an experiment
package experiment

import (
	"github.com/samuelfneumann/spherenav/experiment/tracker"
	ts "github.com/samuelfneumann/spherenav/timestep"
)

// Experiment runs a policy in an environment and sends every TimeStep
// to its Trackers, which cache data in memory until Save writes it to
// disk. Trackers may be given to the constructor or added later with
// Register.
type Experiment interface {
	Run()
	RunEpisode() bool // Returns whether or not the step limit was reached

	// Tracks current timestep by sending it to Trackers
	track(ts.TimeStep)

	// Save all tracked data to disk
	Save() error

	// Adds a Tracker to a possibly running experiment
	Register(t tracker.Tracker)
}

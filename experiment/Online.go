package experiment

import (
	"errors"

	"go.uber.org/zap"

	"github.com/samuelfneumann/spherenav/agent"
	env "github.com/samuelfneumann/spherenav/environment"
	"github.com/samuelfneumann/spherenav/experiment/tracker"
	ts "github.com/samuelfneumann/spherenav/timestep"
)

// LogEvery is the number of episodes between progress log entries
const LogEvery int = 100

// Online is an Experiment that runs a policy online only. If the policy
// is also an agent.Learner, it observes every transition and is stepped
// after each one.
type Online struct {
	env.Environment
	agent.Policy
	learner agent.Learner

	maxSteps     int
	currentSteps int
	episodes     int
	trackers     []tracker.Tracker
	logger       *zap.Logger
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given policy. The steps parameter determines how
// many timesteps the experiment is run for, and the t parameter
// is a slice of tracker.Tracker which determine what data is saved.
func NewOnline(e env.Environment, p agent.Policy, steps int,
	logger *zap.Logger, t ...tracker.Tracker) *Online {
	if logger == nil {
		logger = zap.NewNop()
	}
	learner, _ := p.(agent.Learner)

	return &Online{
		Environment: e,
		Policy:      p,
		learner:     learner,
		maxSteps:    steps,
		trackers:    t,
		logger:      logger,
	}
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment. Environments
// begin their next episode as soon as one ends, so the episode run is
// the one the environment is currently in.
func (o *Online) RunEpisode() bool {
	step := o.Environment.CurrentTimeStep()
	if !step.First() {
		step = o.Environment.Reset()
	}
	if o.learner != nil {
		o.learner.ObserveFirst(step)
	}
	o.track(step)

	// Run the next timestep
	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		// Select action, step in environment
		action := o.Policy.SelectAction(step)
		step, _ = o.Environment.Step(action)

		// Cache the environment step in each Tracker
		o.track(step)

		// Observe the timestep and step the learner
		if o.learner != nil {
			o.learner.Observe(action, step)
			o.learner.Step()
		}
	}

	if step.Last() {
		o.episodes++
		if o.episodes%LogEvery == 0 {
			o.logger.Info("progress",
				zap.Int("episodes", o.episodes),
				zap.Int("steps", o.currentSteps),
				zap.Int("maxSteps", o.maxSteps),
			)
		}
	}

	// Return whether or not the max timestep limit has been reached
	return o.currentSteps >= o.maxSteps
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() {
	ended := false

	for !ended {
		ended = o.RunEpisode()
	}
}

// Episodes returns the number of episodes finished so far
func (o *Online) Episodes() int {
	return o.episodes
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	var errs []error
	for _, t := range o.trackers {
		errs = append(errs, t.Save())
	}
	return errors.Join(errs...)
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}

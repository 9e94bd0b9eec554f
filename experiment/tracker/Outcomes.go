package tracker

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/samuelfneumann/spherenav/timestep"
)

// OutcomeRecord is a single row of the outcomes CSV
type OutcomeRecord struct {
	Run     string  `csv:"run"`
	Episode int     `csv:"episode"`
	Outcome string  `csv:"outcome"`
	Steps   int     `csv:"steps"`
	Return  float64 `csv:"return"`
}

// Outcomes tracks how each episode of an experiment ended and saves one
// CSV row per finished episode. Every row is stamped with the run
// identifier so that the files of independent runs can be concatenated.
type Outcomes struct {
	run           string
	filename      string
	currentReturn float64
	records       []OutcomeRecord
	counts        map[timestep.Outcome]int
}

// NewOutcomes returns a new Outcomes Tracker for the run with the given
// identifier
func NewOutcomes(run, filename string) *Outcomes {
	return &Outcomes{
		run:      run,
		filename: filename,
		counts:   make(map[timestep.Outcome]int),
	}
}

// Track records the outcome of the episode if t is its last timestep
func (o *Outcomes) Track(t timestep.TimeStep) {
	o.currentReturn += t.Reward
	if !t.Last() {
		return
	}

	o.counts[t.Outcome()]++
	o.records = append(o.records, OutcomeRecord{
		Run:     o.run,
		Episode: len(o.records),
		Outcome: t.Outcome().String(),
		Steps:   t.Number,
		Return:  o.currentReturn,
	})
	o.currentReturn = 0
}

// Records returns the records of every episode finished so far
func (o *Outcomes) Records() []OutcomeRecord {
	return o.records
}

// Count returns the number of episodes which ended with outcome out
func (o *Outcomes) Count(out timestep.Outcome) int {
	return o.counts[out]
}

// Save writes the tracked records to disk as CSV with a header row
func (o *Outcomes) Save() error {
	file, err := os.Create(o.filename)
	if err != nil {
		return fmt.Errorf("save: creating %v: %w", o.filename, err)
	}

	if err := gocsv.Marshal(o.records, file); err != nil {
		file.Close()
		return fmt.Errorf("save: writing outcomes: %w", err)
	}
	return file.Close()
}

// LoadOutcomes reads the records saved by an Outcomes Tracker
func LoadOutcomes(filename string) ([]OutcomeRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadOutcomes: %w", err)
	}
	defer file.Close()

	var records []OutcomeRecord
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return nil, fmt.Errorf("loadOutcomes: %w", err)
	}
	return records, nil
}

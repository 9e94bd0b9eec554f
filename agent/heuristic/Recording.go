package heuristic

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// Frame is the manual input of a single step
type Frame struct {
	Horizontal float64 `csv:"horizontal"`
	Vertical   float64 `csv:"vertical"`
}

// Recording is a source of Axes which replays recorded manual input, one
// Frame per step. Once every frame has been replayed, both axes read 0.
type Recording struct {
	frames  []Frame
	next    int
	current Frame
}

// NewRecording returns a Recording which replays frames
func NewRecording(frames []Frame) *Recording {
	return &Recording{frames: frames}
}

// LoadRecording reads a Recording from a CSV file with a header row
// naming the horizontal and vertical columns
func LoadRecording(filename string) (*Recording, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadRecording: %w", err)
	}
	defer file.Close()

	var frames []Frame
	if err := gocsv.UnmarshalFile(file, &frames); err != nil {
		return nil, fmt.Errorf("loadRecording: %w", err)
	}
	return NewRecording(frames), nil
}

// Poll moves to the next frame
func (r *Recording) Poll() {
	if r.next >= len(r.frames) {
		r.current = Frame{}
		return
	}
	r.current = r.frames[r.next]
	r.next++
}

func (r *Recording) Horizontal() float64 {
	return r.current.Horizontal
}

func (r *Recording) Vertical() float64 {
	return r.current.Vertical
}

// Remaining returns the number of frames not yet replayed
func (r *Recording) Remaining() int {
	return len(r.frames) - r.next
}

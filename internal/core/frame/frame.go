// Package frame carries the per-frame timing the host loop hands to every
// update call.
package frame

import "time"

// Frame is one tick of the host update cadence.
type Frame struct {
	Index   uint64
	Elapsed time.Duration // since the previous frame
	Total   time.Duration // game time since the first frame
}

// Next derives the following frame after elapsed time.
func (f Frame) Next(elapsed time.Duration) Frame {
	return Frame{
		Index:   f.Index + 1,
		Elapsed: elapsed,
		Total:   f.Total + elapsed,
	}
}

// ElapsedMillis is the frame delta in milliseconds, the unit movement speeds
// are expressed in.
func (f Frame) ElapsedMillis() float64 {
	return float64(f.Elapsed) / float64(time.Millisecond)
}

// TotalSeconds is the game time in seconds.
func (f Frame) TotalSeconds() float64 {
	return f.Total.Seconds()
}

// Fixed returns the n-th frame of a fixed-step sequence, for tests and
// deterministic replays.
func Fixed(n uint64, step time.Duration) Frame {
	return Frame{Index: n, Elapsed: step, Total: time.Duration(n) * step}
}

package events

import "time"

// PassStart is emitted before a compiler pass runs.
type PassStart struct {
	Pass string
}

// PassFinish is emitted after a compiler pass returns.
// Violations counts the diagnostics the pass reported.
type PassFinish struct {
	Pass        string
	Definitions int
	Violations  int
	Err         error
	Duration    time.Duration
}

package events

import "time"

// CompileStart is emitted before the source packages are loaded.
type CompileStart struct {
	Dir      string
	Patterns []string
}

// CompileFinish is emitted after a compilation completes, successfully or not.
type CompileFinish struct {
	Dir         string
	Patterns    []string
	Definitions int
	Violations  int
	Err         error
	Duration    time.Duration
}

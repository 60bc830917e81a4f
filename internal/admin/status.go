package admin

import (
	"sync/atomic"
)

// Status tracks the run lifecycle for the readiness endpoint: the process
// is ready while the engine is consuming the input stream, and drops back
// to idle once the report is written.
type Status struct {
	processing atomic.Bool
}

func NewStatus() *Status {
	return &Status{}
}

func (s *Status) BeginRun() {
	s.processing.Store(true)
}

func (s *Status) EndRun() {
	s.processing.Store(false)
}

func (s *Status) Processing() bool {
	return s.processing.Load()
}

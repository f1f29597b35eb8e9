package task

// Counters is the increment-only boundary the task reports progress through.
// The production adapter feeds Prometheus; tests count in memory.
type Counters interface {
	IncFilesRead()
	AddBytesRead(n int64)
	IncSkipped()
	IncError(category string)
}

// NopCounters discards every increment.
type NopCounters struct{}

func (NopCounters) IncFilesRead()            {}
func (NopCounters) AddBytesRead(n int64)     {}
func (NopCounters) IncSkipped()              {}
func (NopCounters) IncError(category string) {}

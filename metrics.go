package oroboro

// Metrics tracks lightweight runtime counters for an Engine. The engine
// advances only virtual time on a single goroutine, so there is no
// wall-clock latency distribution to sample here: Metrics is plain
// counters. See DESIGN.md for the simplification rationale.
//
// Metrics is only populated when the Engine was constructed with
// WithMetrics(true); otherwise Engine.Metrics returns nil, and the
// engine's internal record calls on that nil *Metrics are no-ops.
type Metrics struct {
	// TasksSpawned counts every task handed to the scheduler via Spawn or
	// Start.
	TasksSpawned uint64

	// EventsPosted counts every posting (an internal inbox wake or a fired
	// PostAt) that woke at least one waiting task; a posting with no
	// waiters is not counted.
	EventsPosted uint64

	// MatchesEmitted counts every Match outcome delivered to onMatch by an
	// Always driver.
	MatchesEmitted uint64

	// FailuresEmitted counts every Failure outcome delivered to onFail by
	// an Always driver.
	FailuresEmitted uint64

	// ReadyQueueHighWater is the largest size the ready queue has reached.
	ReadyQueueHighWater int
}

// recordTaskSpawned increments TasksSpawned if metrics are enabled.
func (m *Metrics) recordTaskSpawned() {
	if m == nil {
		return
	}
	m.TasksSpawned++
}

// recordEventPosted increments EventsPosted if metrics are enabled.
func (m *Metrics) recordEventPosted() {
	if m == nil {
		return
	}
	m.EventsPosted++
}

// recordOutcome increments MatchesEmitted or FailuresEmitted if metrics
// are enabled.
func (m *Metrics) recordOutcome(matched bool) {
	if m == nil {
		return
	}
	if matched {
		m.MatchesEmitted++
	} else {
		m.FailuresEmitted++
	}
}

// recordReadyQueueDepth updates the ReadyQueueHighWater mark.
func (m *Metrics) recordReadyQueueDepth(depth int) {
	if m == nil {
		return
	}
	if depth > m.ReadyQueueHighWater {
		m.ReadyQueueHighWater = depth
	}
}

package agent

// Per-archetype startup latency, in ticks. Simulates how quickly each
// class of participant warms up and starts acting once the simulation
// begins.
const (
	MMTicksUntilActive    uint32 = 2
	LimitTicksUntilActive uint32 = 10
	DumbTicksUntilActive  uint32 = 15
	WhaleTicksUntilActive uint32 = 20
)

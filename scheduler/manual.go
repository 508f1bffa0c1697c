package scheduler

// Manual is a Scheduler driven explicitly by the caller, for deterministic tests.
// Nothing fires until Fire is called.
type Manual struct {
	clocks []*ManualClock
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) NewClock(callback func()) Clock {
	c := &ManualClock{callback: callback}
	m.clocks = append(m.clocks, c)
	return c
}

// Fire runs every pending clock once and reports whether any fired.
func (m *Manual) Fire() bool {
	fired := false
	for _, c := range m.clocks {
		if c.Fire() {
			fired = true
		}
	}
	return fired
}

// Pending reports whether any clock has a firing outstanding.
func (m *Manual) Pending() bool {
	for _, c := range m.clocks {
		if c.pending {
			return true
		}
	}
	return false
}

// Delays returns every delay requested so far, across all clocks, in order.
func (m *Manual) Delays() []int {
	var delays []int
	for _, c := range m.clocks {
		delays = append(delays, c.delays...)
	}
	return delays
}

type ManualClock struct {
	callback func()
	pending  bool
	delays   []int
}

func (c *ManualClock) Delay(units int) {
	c.pending = true
	c.delays = append(c.delays, units)
}

func (c *ManualClock) Unset() {
	c.pending = false
}

func (c *ManualClock) Pending() bool {
	return c.pending
}

// Fire runs the callback if a firing is pending.
func (c *ManualClock) Fire() bool {
	if !c.pending {
		return false
	}
	c.pending = false
	c.callback()
	return true
}

func (c *ManualClock) Delays() []int {
	return append([]int(nil), c.delays...)
}

package scheduler

// Clock is a reschedulable, cancelable delayed callback.
//
// A Clock never has more than one firing outstanding: Delay replaces any
// pending firing, and Unset discards it.
type Clock interface {
	// Delay schedules the callback to run after the given number of time units.
	Delay(units int)

	// Unset cancels the pending firing, if any.
	Unset()

	// Pending reports whether a firing is outstanding.
	Pending() bool
}

// Scheduler creates clocks bound to a callback.
type Scheduler interface {
	NewClock(callback func()) Clock
}

package effect

// autoOffCountdown is the timer armed when a sunrise completes. Only one
// countdown can be outstanding; re-arming replaces the due time. It fires
// at most once per arm.
type autoOffCountdown struct {
	armed bool
	due   uint64
}

func (c *autoOffCountdown) arm(due uint64) {
	c.armed = true
	c.due = due
}

func (c *autoOffCountdown) disarm() {
	c.armed = false
}

// poll reports whether the countdown has elapsed, disarming it on fire.
// The comparison is wrap-safe for a free-running millisecond counter.
func (c *autoOffCountdown) poll(now uint64) bool {
	if !c.armed {
		return false
	}
	if int64(now-c.due) < 0 {
		return false
	}
	c.armed = false
	return true
}

package wavegen

import "maps"

const (
	limitEscape   = "escape_time_limit"
	limitMaxSpawn = "max_spawn_time"
)

// budget holds the two spawn time ceilings in seconds. The escape limit
// is zero when the map record carries none; maxSpawn is only enforced when
// the pattern sets max_spawn_time, zero included.
type budget struct {
	escape   int
	maxSpawn int
	capped   bool
}

func newBudget(escape int, maxSpawn *int) budget {
	b := budget{escape: escape}
	if maxSpawn != nil {
		b.maxSpawn, b.capped = *maxSpawn, true
	}
	return b
}

// exceeded reports whether t meets or passes a ceiling, and which one.
func (b budget) exceeded(t int) (name string, limit int, over bool) {
	if b.escape > 0 && t >= b.escape {
		return limitEscape, b.escape, true
	}
	if b.capped && t >= b.maxSpawn {
		return limitMaxSpawn, b.maxSpawn, true
	}
	return "", 0, false
}

// roomFor reports whether a running clock at t can still fit a wave whose
// delay is at least minDelay.
func (b budget) roomFor(t, minDelay int) bool {
	if b.escape > 0 && t >= b.escape-minDelay {
		return false
	}
	if b.capped && t > b.maxSpawn-minDelay {
		return false
	}
	return true
}

// exhausted is the clock value that marks a zone as out of time.
func (b budget) exhausted() int {
	switch {
	case b.escape > 0 && b.capped:
		return min(b.escape, b.maxSpawn)
	case b.escape > 0:
		return b.escape
	default:
		return b.maxSpawn
	}
}

const sharedClock = "total"

// clock is the running spawn time of a category, kept per zone or shared.
type clock struct {
	perZone bool
	times   map[string]int
}

func newClock(perZone bool) *clock {
	return &clock{perZone: perZone, times: make(map[string]int)}
}

func (c *clock) key(zone string) string {
	if c.perZone {
		return zone
	}
	return sharedClock
}

// advance returns the spawn time of the next wave at zone and moves the
// clock forward. start seeds a clock on first use; delay is the sampled
// per-wave delay, or -1 for an instant wave.
func (c *clock) advance(zone string, start, delay int) int {
	k := c.key(zone)
	t, ok := c.times[k]
	if !ok {
		t = start
	}
	c.times[k] = t + max(delay, 0)
	return t + delayStep(delay)
}

// exhaust pins the clock of zone to v.
func (c *clock) exhaust(zone string, v int) {
	c.times[c.key(zone)] = v
}

// tracked is the number of clocks started so far.
func (c *clock) tracked() int {
	return len(c.times)
}

// anyRoom reports whether some started clock can still fit a wave.
func (c *clock) anyRoom(b budget, minDelay int) bool {
	for t := range maps.Values(c.times) {
		if b.roomFor(t, minDelay) {
			return true
		}
	}
	return false
}

// delayStep is the time a sampled delay adds to the running clock for the
// wave itself: non-positive delays spawn one second before the clock.
func delayStep(d int) int {
	if d > 0 {
		return d
	}
	return -1
}

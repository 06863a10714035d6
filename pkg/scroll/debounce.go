package scroll

import "time"

// debouncer holds the cooldown timer behind IsUserScrolling. It is not
// safe for concurrent use; the List calls it with its lock held. Each arm
// or stop bumps the token, so a callback already queued behind the lock
// for an older timer settles nothing.
type debouncer struct {
	clock    Clock
	cooldown time.Duration
	timer    Timer
	token    uint64
	pending  bool
}

func newDebouncer(clock Clock, cooldown time.Duration) *debouncer {
	return &debouncer{clock: clock, cooldown: cooldown}
}

// arm cancels any pending timer and schedules fire(token) after the cooldown
func (d *debouncer) arm(fire func(token uint64)) {
	d.stop()
	token := d.token
	d.pending = true
	d.timer = d.clock.AfterFunc(d.cooldown, func() { fire(token) })
}

// stop cancels the pending timer, if any
func (d *debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.token++
	d.pending = false
}

// settle reports whether token belongs to the live timer, consuming it
func (d *debouncer) settle(token uint64) bool {
	if !d.pending || token != d.token {
		return false
	}
	d.pending = false
	d.timer = nil
	return true
}

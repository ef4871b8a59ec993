package session

import "time"

// Item is one narrated step: its line is shown, Delay elapses, then Effect and After run.
type Item struct {
	Narration string
	Delay     time.Duration
	Effect    func()
	After     func()
}

// Queue drains items strictly one at a time as time is fed to it.
type Queue struct {
	items   []Item
	elapsed time.Duration
	shown   bool
	show    func(line string)
}

func NewQueue(show func(line string)) *Queue {
	return &Queue{show: show}
}

func (that *Queue) Enqueue(items ...Item) {
	that.items = append(that.items, items...)
}

func (that *Queue) Len() int {
	return len(that.items)
}

func (that *Queue) Idle() bool {
	return len(that.items) == 0
}

// Tick advances the queue by dt. Items whose delay is covered run in the same tick,
// and items enqueued by an After callback are picked up immediately.
func (that *Queue) Tick(dt time.Duration) {
	that.elapsed += dt

	for len(that.items) > 0 {
		head := that.items[0]

		if !that.shown {
			that.shown = true
			if head.Narration != "" && that.show != nil {
				that.show(head.Narration)
			}
		}

		if that.elapsed < head.Delay {
			return
		}

		that.elapsed -= head.Delay
		that.items = that.items[1:]
		that.shown = false

		if head.Effect != nil {
			head.Effect()
		}

		if head.After != nil {
			head.After()
		}
	}

	that.elapsed = 0
}

// Discard drops every pending item without running it.
func (that *Queue) Discard() {
	that.items = nil
	that.elapsed = 0
	that.shown = false
}

// pkg/transaction/milestone.go
package transaction

import (
	"context"
	"sync"

	"github.com/iotaledger/hive.go/ds/reactive"
)

// Callback observes a milestone. It receives the transaction that reached it.
type Callback func(tx *Transaction)

// event is the single-fire record of one milestone. Triggering it releases
// waiters at once and hands the subscribers, in attach order, to the
// transaction's delivery queue. Subscribers attached after the trigger are
// queued right away. Every subscriber runs at most once.
type event struct {
	reached reactive.Event
	queue   *deliveryQueue

	mu          sync.Mutex
	flushed     bool
	subscribers []func()
}

func newEvent(queue *deliveryQueue) *event {
	e := &event{reached: reactive.NewEvent(), queue: queue}
	e.reached.OnTrigger(e.flush)
	return e
}

func (e *event) flush() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.flushed = true
	for _, fn := range e.subscribers {
		e.queue.push(fn)
	}
	e.subscribers = nil
}

func (e *event) subscribe(tx *Transaction, fn Callback) {
	if fn == nil {
		return
	}
	deliver := func() { fn(tx) }

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.flushed {
		e.queue.push(deliver)
		return
	}
	e.subscribers = append(e.subscribers, deliver)
}

func (e *event) fire() {
	e.reached.Trigger()
}

func (e *event) hasOccurred() bool {
	return e.reached.WasTriggered()
}

// wait returns once the event fired or ctx is done.
func (e *event) wait(ctx context.Context) error {
	if e.hasOccurred() {
		return nil
	}

	done := make(chan struct{})
	e.reached.OnTrigger(func() { close(done) })

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// deliveryQueue runs callbacks one at a time in push order on its own
// goroutine, which exits whenever the queue drains.
type deliveryQueue struct {
	mu      sync.Mutex
	pending []func()
	running bool
}

func (q *deliveryQueue) push(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.mu.Unlock()

	go q.drain()
}

func (q *deliveryQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		fn := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		fn()
	}
}

// broadcaster fans each milestone out to its subscribers and waiters.
type broadcaster struct {
	queue  *deliveryQueue
	events map[Milestone]*event
}

func newBroadcaster() *broadcaster {
	b := &broadcaster{
		queue:  &deliveryQueue{},
		events: make(map[Milestone]*event, len(Milestones)),
	}
	for _, m := range Milestones {
		b.events[m] = newEvent(b.queue)
	}
	return b
}

func (b *broadcaster) event(m Milestone) *event {
	e, ok := b.events[m]
	if !ok {
		// Unknown milestones never fire.
		return newEvent(b.queue)
	}
	return e
}

func (b *broadcaster) subscribe(tx *Transaction, m Milestone, fn Callback) {
	b.event(m).subscribe(tx, fn)
}

func (b *broadcaster) fire(m Milestone) {
	b.event(m).fire()
}

// Callbacks groups one optional callback per milestone.
type Callbacks struct {
	Sent      Callback
	Confirmed Callback
	Ensured   Callback
	Failed    Callback
}

func (b *broadcaster) subscribeAll(tx *Transaction, cbs Callbacks) {
	b.subscribe(tx, MilestoneSent, cbs.Sent)
	b.subscribe(tx, MilestoneConfirmed, cbs.Confirmed)
	b.subscribe(tx, MilestoneEnsured, cbs.Ensured)
	b.subscribe(tx, MilestoneFailed, cbs.Failed)
}

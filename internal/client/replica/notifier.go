package replica

import (
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// Event tells subscribers that the stored set of one entity kind changed.
type Event struct {
	Kind models.EntityKind
	At   time.Time
}

type subscription struct {
	ch    chan Event
	kinds map[models.EntityKind]struct{}
}

// Notifier fans out change events to subscribers filtered by kind.
//
// A single loop goroutine owns the subscriber set; the public methods talk to
// it over channels. Delivery never blocks the publisher: each subscriber has
// a small buffer and events that do not fit are dropped, so a slow reader
// only sees that "something changed", which is all an Event says anyway.
type Notifier struct {
	subscribeCh   chan subscription
	unsubscribeCh chan (<-chan Event)
	publishCh     chan Event

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

func NewNotifier() *Notifier {
	n := &Notifier{
		subscribeCh:   make(chan subscription),
		unsubscribeCh: make(chan (<-chan Event)),
		publishCh:     make(chan Event, 64),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	go n.run()
	return n
}

func (n *Notifier) run() {
	defer close(n.stopped)

	subs := make(map[<-chan Event]subscription)

	for {
		select {
		case <-n.stopCh:
			for _, s := range subs {
				close(s.ch)
			}
			return

		case s := <-n.subscribeCh:
			subs[s.ch] = s

		case ch := <-n.unsubscribeCh:
			if s, ok := subs[ch]; ok {
				delete(subs, ch)
				close(s.ch)
			}

		case ev := <-n.publishCh:
			for _, s := range subs {
				if len(s.kinds) > 0 {
					if _, ok := s.kinds[ev.Kind]; !ok {
						continue
					}
				}
				select {
				case s.ch <- ev:
				default:
				}
			}
		}
	}
}

// Subscribe returns a channel receiving events for the given kinds, or for
// every kind when none are given. The channel is closed by Unsubscribe or Close.
func (n *Notifier) Subscribe(kinds ...models.EntityKind) <-chan Event {
	ch := make(chan Event, 8)
	if n.closed.Load() {
		close(ch)
		return ch
	}

	set := make(map[models.EntityKind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}

	select {
	case n.subscribeCh <- subscription{ch: ch, kinds: set}:
	case <-n.stopped:
		close(ch)
	}
	return ch
}

func (n *Notifier) Unsubscribe(ch <-chan Event) {
	if n.closed.Load() {
		return
	}
	select {
	case n.unsubscribeCh <- ch:
	case <-n.stopped:
	}
}

// Publish emits an event for kind stamped with the current time.
func (n *Notifier) Publish(kind models.EntityKind) {
	if n.closed.Load() {
		return
	}
	select {
	case n.publishCh <- Event{Kind: kind, At: time.Now().UTC()}:
	case <-n.stopped:
	}
}

// Close stops the loop and closes every subscriber channel.
func (n *Notifier) Close() {
	if n.closed.CompareAndSwap(false, true) {
		close(n.stopCh)
	}
	<-n.stopped
}

package feed

import (
	"sync"

	"github.com/jpalmerr/userboard"
)

// DefaultBuffer is the channel buffer size used when NewFeed is given a
// non-positive size.
const DefaultBuffer = 16

// Feed fans state snapshots out to any number of channel subscribers.
//
// Feed implements [userboard.Observer]; register it with
// [userboard.Store.Subscribe] and hand its channels to consumers.
type Feed struct {
	mu          sync.RWMutex
	subscribers map[chan []userboard.UserRecord]struct{}
	buffer      int
	closed      bool
}

var _ userboard.Observer = (*Feed)(nil)

// NewFeed creates a [Feed] whose subscriber channels hold up to buffer
// snapshots.
func NewFeed(buffer int) *Feed {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Feed{
		subscribers: make(map[chan []userboard.UserRecord]struct{}),
		buffer:      buffer,
	}
}

// OnStateChange forwards users to every subscriber without blocking.
//
// Each subscriber receives its own copy of the slice. If a subscriber's
// buffer is full the snapshot is dropped for that subscriber.
func (f *Feed) OnStateChange(users []userboard.UserRecord) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for ch := range f.subscribers {
		snapshot := append([]userboard.UserRecord{}, users...)
		select {
		case ch <- snapshot:
		default:
			// slow subscriber, drop the snapshot
		}
	}
}

// Subscribe returns a channel that receives every subsequent snapshot.
//
// Caller must call [Feed.Unsubscribe] when done. Subscribing to a closed
// feed returns an already closed channel.
func (f *Feed) Subscribe() <-chan []userboard.UserRecord {
	ch := make(chan []userboard.UserRecord, f.buffer)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		close(ch)
		return ch
	}
	f.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (f *Feed) Unsubscribe(ch <-chan []userboard.UserRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for subCh := range f.subscribers {
		if subCh == ch {
			delete(f.subscribers, subCh)
			close(subCh)
			return
		}
	}
}

// Len returns the number of active subscribers.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.subscribers)
}

// Close closes every subscriber channel. Later snapshots are discarded and
// later subscriptions receive a closed channel. Close is idempotent.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for ch := range f.subscribers {
		delete(f.subscribers, ch)
		close(ch)
	}
}

package notify

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Alert is a due notification popped off the queue.
type Alert struct {
	Handle  string
	At      time.Time
	Payload Payload
}

type alertHeap []Alert

func (h alertHeap) Len() int            { return len(h) }
func (h alertHeap) Less(i, j int) bool  { return h[i].At.Before(h[j].At) }
func (h alertHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *alertHeap) Push(x any)         { *h = append(*h, x.(Alert)) }
func (h *alertHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// Queue is a timer-driven alert queue: alerts wait on a min-heap keyed by
// trigger time and come out of C() once due. Cancellation is lazy, a
// cancelled handle is dropped when it reaches the top of the heap.
type Queue struct {
	mu        sync.Mutex
	heap      alertHeap
	cancelled map[string]struct{}
	out       chan Alert
	wakeup    chan struct{}
}

func NewQueue(buffer int) *Queue {
	if buffer <= 0 {
		buffer = 16
	}
	q := &Queue{
		cancelled: make(map[string]struct{}),
		out:       make(chan Alert, buffer),
		wakeup:    make(chan struct{}, 1),
	}
	heap.Init(&q.heap)
	return q
}

func (q *Queue) C() <-chan Alert {
	return q.out
}

// Add enqueues an alert under the given handle.
func (q *Queue) Add(handle string, at time.Time, payload Payload) {
	q.mu.Lock()
	heap.Push(&q.heap, Alert{Handle: handle, At: at, Payload: payload})
	delete(q.cancelled, handle)
	q.mu.Unlock()
	q.signalWakeup()
}

// Cancel marks a pending alert so it never fires. It reports false when the
// handle is unknown or already delivered.
func (q *Queue) Cancel(handle string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, a := range q.heap {
		if a.Handle == handle {
			if _, dup := q.cancelled[handle]; dup {
				return false
			}
			q.cancelled[handle] = struct{}{}
			return true
		}
	}
	return false
}

// Pending returns the number of alerts still waiting to fire.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap) - len(q.cancelled)
}

// Run blocks delivering due alerts until the context is cancelled.
func (q *Queue) Run(ctx context.Context) {
	var timer *time.Timer
	defer func() {
		stopTimer(timer)
		close(q.out)
	}()

	for {
		next, ok := q.peek()
		if !ok {
			select {
			case <-q.wakeup:
				continue
			case <-ctx.Done():
				return
			}
		}

		wait := time.Until(next.At)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, alert := range q.popDue(time.Now()) {
				select {
				case q.out <- alert:
				case <-ctx.Done():
					return
				}
			}
		case <-q.wakeup:
		case <-ctx.Done():
			return
		}
	}
}

func (q *Queue) signalWakeup() {
	select {
	case q.wakeup <- struct{}{}:
	default:
	}
}

// peek returns the earliest live alert, discarding cancelled ones on the way.
func (q *Queue) peek() (Alert, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.heap) > 0 {
		top := q.heap[0]
		if _, gone := q.cancelled[top.Handle]; !gone {
			return top, true
		}
		heap.Pop(&q.heap)
		delete(q.cancelled, top.Handle)
	}
	return Alert{}, false
}

func (q *Queue) popDue(now time.Time) []Alert {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []Alert
	for len(q.heap) > 0 {
		top := q.heap[0]
		if top.At.After(now) {
			break
		}
		heap.Pop(&q.heap)
		if _, gone := q.cancelled[top.Handle]; gone {
			delete(q.cancelled, top.Handle)
			continue
		}
		due = append(due, top)
	}
	return due
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}

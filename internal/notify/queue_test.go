package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitAlert(t *testing.T, ch <-chan Alert, timeout time.Duration) Alert {
	t.Helper()
	select {
	case alert := <-ch:
		return alert
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for alert")
		return Alert{}
	}
}

func TestQueueDeliversInTriggerOrder(t *testing.T) {
	q := NewQueue(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	now := time.Now()
	q.Add("later", now.Add(80*time.Millisecond), Payload{ReminderID: "rem-1"})
	q.Add("sooner", now.Add(20*time.Millisecond), Payload{ReminderID: "rem-1"})

	first := waitAlert(t, q.C(), time.Second)
	second := waitAlert(t, q.C(), time.Second)
	require.Equal(t, "sooner", first.Handle)
	require.Equal(t, "later", second.Handle)
}

func TestQueueCancelPreventsDelivery(t *testing.T) {
	q := NewQueue(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	now := time.Now()
	q.Add("dropped", now.Add(30*time.Millisecond), Payload{})
	q.Add("kept", now.Add(60*time.Millisecond), Payload{})

	require.True(t, q.Cancel("dropped"))

	alert := waitAlert(t, q.C(), time.Second)
	require.Equal(t, "kept", alert.Handle)
	require.Equal(t, 0, q.Pending())
}

func TestQueueCancelUnknownHandle(t *testing.T) {
	q := NewQueue(1)
	require.False(t, q.Cancel("never-scheduled"))
}

func TestQueueCancelTwice(t *testing.T) {
	q := NewQueue(1)
	q.Add("h", time.Now().Add(time.Hour), Payload{})
	require.True(t, q.Cancel("h"))
	require.False(t, q.Cancel("h"))
}

func TestQueuePastDueFiresImmediately(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	q.Add("overdue", time.Now().Add(-time.Minute), Payload{ReminderID: "rem-1"})

	alert := waitAlert(t, q.C(), time.Second)
	require.Equal(t, "overdue", alert.Handle)
}

func TestQueuePending(t *testing.T) {
	q := NewQueue(1)
	q.Add("a", time.Now().Add(time.Hour), Payload{})
	q.Add("b", time.Now().Add(2*time.Hour), Payload{})
	require.Equal(t, 2, q.Pending())

	q.Cancel("a")
	require.Equal(t, 1, q.Pending())
}

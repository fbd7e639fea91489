package scheduler

import "testing"

func TestEventQueueOrdersByDeadline(t *testing.T) {
	q := NewEventQueue(8)

	t0 := TimeSpec{Sec: 100, Nsec: 0}
	q.Push(NewEvent(t0.Add(30_000_000), 1, Rise))
	q.Push(NewEvent(t0.Add(10_000_000), 2, Rise))
	q.Push(NewEvent(t0.Add(20_000_000), 1, Rise))

	wantDeadlines := []int64{10_000_000, 20_000_000, 30_000_000}
	for i, want := range wantDeadlines {
		e := q.Pop()
		got := e.Deadline.Sub(t0)
		if got != want {
			t.Errorf("pop %d: deadline offset = %d, want %d", i, got, want)
		}
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue after draining, got len %d", q.Len())
	}
}

func TestEventQueueStableOnTies(t *testing.T) {
	q := NewEventQueue(8)
	deadline := TimeSpec{Sec: 1, Nsec: 0}

	for ch := ChannelId(0); ch < 5; ch++ {
		q.Push(NewEvent(deadline, ch, Rise))
	}

	for ch := ChannelId(0); ch < 5; ch++ {
		e := q.Pop()
		if e.Channel != ch {
			t.Errorf("expected FIFO order on tied deadlines: got channel %d, want %d", e.Channel, ch)
		}
	}
}

func TestEventQueuePeekLatest(t *testing.T) {
	q := NewEventQueue(8)
	if _, ok := q.PeekLatest(); ok {
		t.Fatal("expected PeekLatest on empty queue to report false")
	}

	base := TimeSpec{Sec: 5, Nsec: 0}
	q.Push(NewEvent(base.Add(5), 0, Rise))
	q.Push(NewEvent(base.Add(50), 1, Rise))
	q.Push(NewEvent(base.Add(20), 2, Rise))

	latest, ok := q.PeekLatest()
	if !ok {
		t.Fatal("expected PeekLatest to report true on nonempty queue")
	}
	if latest.Channel != 1 {
		t.Errorf("PeekLatest channel = %d, want 1", latest.Channel)
	}
	if q.Len() != 3 {
		t.Errorf("PeekLatest should not mutate the queue, len = %d", q.Len())
	}
}

func TestEventQueuePopPanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Pop on empty queue to panic")
		}
	}()
	NewEventQueue(1).Pop()
}

func TestEventQueueOutOfOrderInsertion(t *testing.T) {
	q := NewEventQueue(8)
	base := TimeSpec{Sec: 0, Nsec: 0}

	order := []int64{50, 10, 40, 20, 30}
	for _, offset := range order {
		q.Push(NewEvent(base.Add(offset*1_000_000), 0, Rise))
	}

	var prev int64 = -1
	for q.Len() > 0 {
		e := q.Pop()
		got := e.Deadline.Sub(base) / 1_000_000
		if got < prev {
			t.Fatalf("pop order not non-decreasing: got %d after %d", got, prev)
		}
		prev = got
	}
}

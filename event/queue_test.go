package event

import (
	"sync"
	"testing"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	q.Push(Collect())
	q.Push(BuyShopItem("Potion"))
	q.Push(Back())

	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}

	want := []Intent{Collect(), BuyShopItem("Potion"), Back()}
	for i, w := range want {
		got, ok := q.Pop()
		if !ok {
			t.Fatalf("pop %d: queue empty", i)
		}
		if got != w {
			t.Errorf("pop %d: got %v, want %v", i, got, w)
		}
	}

	if _, ok := q.Pop(); ok {
		t.Error("expected empty queue")
	}
}

func TestQueue_OverflowDropsOldest(t *testing.T) {
	q := NewQueue()
	for i := 0; i < QueueSize+5; i++ {
		q.Push(Intent{Type: IntentCollect, Key: string(rune('a' + i%26))})
	}

	if q.Len() != QueueSize {
		t.Fatalf("Len = %d, want %d", q.Len(), QueueSize)
	}

	got := q.Drain()
	if len(got) != QueueSize {
		t.Fatalf("drained %d, want %d", len(got), QueueSize)
	}
	// First survivor is the sixth push
	if got[0].Key != string(rune('a'+5)) {
		t.Errorf("oldest survivor key = %q, want %q", got[0].Key, string(rune('a'+5)))
	}
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := NewQueue()
	const producers, each = 4, 10

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				q.Push(Collect())
			}
		}()
	}
	wg.Wait()

	if got := len(q.Drain()); got != producers*each {
		t.Errorf("drained %d, want %d", got, producers*each)
	}
}

func TestIntent_String(t *testing.T) {
	if s := UseInventoryItem("Potion").String(); s != "UseInventoryItem(Potion)" {
		t.Errorf("got %q", s)
	}
	if s := Save().String(); s != "Save" {
		t.Errorf("got %q", s)
	}
	if s := IntentType(99).String(); s != "IntentType(99)" {
		t.Errorf("got %q", s)
	}
}

package status

import (
	"reflect"
	"sync"
	"testing"
)

func TestMetricMap_GetReturnsSamePointer(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get("engine.ticks")
	b := r.Ints.Get("engine.ticks")
	if a != b {
		t.Fatal("expected cached pointer")
	}
	a.Add(3)
	if b.Load() != 3 {
		t.Errorf("got %d, want 3", b.Load())
	}
}

func TestMetricMap_ConcurrentGet(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Ints.Get("intents.applied").Add(1)
		}()
	}
	wg.Wait()

	if got := r.Ints.Get("intents.applied").Load(); got != 8 {
		t.Errorf("got %d, want 8", got)
	}
	if r.TotalCount() != 1 {
		t.Errorf("TotalCount = %d, want 1", r.TotalCount())
	}
}

func TestRegistry_Lines(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get("b.count").Store(2)
	r.Ints.Get("a.count").Store(1)
	r.Bools.Get("combat.active").Store(true)
	r.Strings.Get("save.last").Store("ok")

	want := []string{"a.count=1", "b.count=2", "combat.active=true", "save.last=ok"}
	if got := r.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %v, want %v", got, want)
	}
}

func TestAtomicString_Truncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Error("zero value should be empty")
	}
	long := "0123456789012345678901234567890123456789"
	s.Store(long)
	if got := s.Load(); got != long[:MaxStringLen] {
		t.Errorf("got %q", got)
	}
}

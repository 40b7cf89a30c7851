package mailbox

import (
	"sync"
	"testing"
)

func TestMailbox_LatestWins(t *testing.T) {
	m := New[int]()
	m.Put(1)
	m.Put(2)
	m.Put(3)

	<-m.Ready()
	v, ok := m.TryTake()
	if !ok || v != 3 {
		t.Fatalf("got %d,%v want 3,true", v, ok)
	}
	if _, ok := m.TryTake(); ok {
		t.Error("slot should be empty after take")
	}
}

func TestMailbox_CloseKeepsPending(t *testing.T) {
	m := New[string]()
	m.Put("last")
	m.Close()
	m.Put("ignored")

	v, ok := m.TryTake()
	if !ok || v != "last" {
		t.Fatalf("got %q,%v want last,true", v, ok)
	}

	// Ready is closed: receives never block.
	for i := 0; i < 3; i++ {
		<-m.Ready()
	}
	m.Close()
}

func TestMailbox_ConcurrentProducer(t *testing.T) {
	m := New[int]()
	const n = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= n; i++ {
			m.Put(i)
		}
		m.Close()
	}()

	last := 0
	for range m.Ready() {
		if v, ok := m.TryTake(); ok {
			if v < last {
				t.Fatalf("value went backwards: %d after %d", v, last)
			}
			last = v
		}
	}
	if v, ok := m.TryTake(); ok {
		last = v
	}
	wg.Wait()

	if last != n {
		t.Errorf("final value %d, want %d", last, n)
	}
}

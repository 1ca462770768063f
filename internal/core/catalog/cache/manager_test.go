package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestManagerSetGet(t *testing.T) {
	m := NewManager(10, time.Minute, time.Minute)
	defer m.Close()

	m.Set("a", "payload")

	got, ok := m.Get("a")
	if !ok || got != "payload" {
		t.Fatalf("Get(a) = %q, %v", got, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Fatal("Get(missing) should miss")
	}
}

func TestManagerTTLExpiry(t *testing.T) {
	m := NewManager(10, 10*time.Millisecond, time.Minute)
	defer m.Close()

	m.Set("a", "payload")
	time.Sleep(30 * time.Millisecond)

	if _, ok := m.Get("a"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestManagerEvictsLRUWhenFull(t *testing.T) {
	m := NewManager(3, time.Minute, time.Minute)
	defer m.Close()

	m.Set("a", "1")
	time.Sleep(time.Millisecond)
	m.Set("b", "2")
	time.Sleep(time.Millisecond)
	m.Set("c", "3")
	time.Sleep(time.Millisecond)

	// Touch a and b so c becomes the least recently used.
	m.Get("a")
	m.Get("b")
	time.Sleep(time.Millisecond)

	m.Set("d", "4")

	if _, ok := m.Get("c"); ok {
		t.Fatal("c should have been evicted as least recently used")
	}
	for _, key := range []string{"a", "b", "d"} {
		if _, ok := m.Get(key); !ok {
			t.Fatalf("%s should still be cached", key)
		}
	}
}

func TestManagerStats(t *testing.T) {
	m := NewManager(10, time.Minute, time.Minute)
	defer m.Close()

	m.Set("a", "1")
	m.Get("a")
	m.Get("a")
	m.Get("nope")

	stats := m.Stats()
	if stats["hits"].(int64) != 2 {
		t.Errorf("hits = %v, want 2", stats["hits"])
	}
	if stats["misses"].(int64) != 1 {
		t.Errorf("misses = %v, want 1", stats["misses"])
	}
	if stats["size"].(int) != 1 {
		t.Errorf("size = %v, want 1", stats["size"])
	}
}

func TestManagerConcurrentAccess(t *testing.T) {
	m := NewManager(100, time.Minute, time.Minute)
	defer m.Close()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("key-%d", j%50)
				m.Set(key, "v")
				m.Get(key)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	if size := m.Stats()["size"].(int); size == 0 || size > 100 {
		t.Fatalf("size = %d after concurrent use, want 1..100", size)
	}
}

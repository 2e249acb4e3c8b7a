package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestTimed(t *testing.T) {
	c := NewTimed(5 * time.Minute)

	tstart := time.Now()

	c.set("GET /api/v1/report", []byte(`{"weather":{}}`), tstart)

	_, ok := c.get("GET /api/v1/report", tstart.Add(time.Minute))
	if !ok {
		t.Errorf("failed to get key that should not be expired")
	}

	_, ok = c.get("GET /api/v1/report", tstart.Add(10*time.Minute))
	if ok {
		t.Errorf("succeeded in getting expired key")
	}

	_, ok = c.get("GET /api/v1/report", tstart.Add(time.Minute))
	if ok {
		t.Errorf("succeeded in getting key that was previously evicted")
	}
	if c.Len() != 0 {
		t.Errorf("expired key was not evicted")
	}
}

func TestTimedConcurrent(t *testing.T) {
	c := NewTimed(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%4)
			c.Set(key, []byte(key))
			c.Get(key)
		}(i)
	}
	wg.Wait()

	if c.Len() != 4 {
		t.Errorf("got %d keys, wanted 4", c.Len())
	}
	if v, ok := c.Get("key-2"); !ok || string(v) != "key-2" {
		t.Errorf("got %q (ok=%t)", v, ok)
	}
}

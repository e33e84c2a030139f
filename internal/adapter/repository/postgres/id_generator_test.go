package postgres

import (
	"sync"
	"testing"
)

func TestULIDGeneratorUniqueUnderConcurrency(t *testing.T) {
	gen := NewULIDGenerator()

	const workers = 8
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := gen.Generate()

				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("expected %d unique IDs, got %d", workers*perWorker, len(seen))
	}

	for id := range seen {
		if len(id) != 26 {
			t.Fatalf("unexpected ULID length for %q", id)
		}
	}
}

package testsupport

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSequence_Increments(t *testing.T) {
	seq1 := NextSequence()
	seq2 := NextSequence()

	assert.Greater(t, seq2, seq1, "Sequence should increment")
	assert.Equal(t, seq1+1, seq2, "Should increment by 1")
}

func TestUniqueSymbol_GeneratesUnique(t *testing.T) {
	a := UniqueSymbol("BTC")
	b := UniqueSymbol("BTC")

	assert.NotEqual(t, a, b, "Symbols should be unique")
	assert.Contains(t, a, "BTC_", "Should contain prefix")
}

func TestNextSequence_Concurrent(t *testing.T) {
	const workers = 50
	seen := make(map[uint64]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq := NextSequence()
			mu.Lock()
			seen[seq] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers, "Every goroutine should get a distinct sequence")
	assert.NotEqual(t, UniqueString(), UniqueString())
}

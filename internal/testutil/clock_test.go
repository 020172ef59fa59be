package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceClock_Next(t *testing.T) {
	clock := NewSequenceClock(0)
	assert.Equal(t, int64(0), clock.Current())

	assert.Equal(t, int64(1), clock.Next())
	assert.Equal(t, int64(2), clock.Next())
	assert.Equal(t, int64(2), clock.Current())
}

func TestSequenceClock_Start(t *testing.T) {
	clock := NewSequenceClock(41)
	assert.Equal(t, int64(42), clock.Next())
}

func TestSequenceClock_ResetReturnsToStart(t *testing.T) {
	clock := NewSequenceClock(10)
	clock.Next()
	clock.Next()

	clock.Reset()
	assert.Equal(t, int64(10), clock.Current())
	assert.Equal(t, int64(11), clock.Next())
}

func TestSequenceClock_ThreadSafe(t *testing.T) {
	clock := NewSequenceClock(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				clock.Next()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), clock.Current())
}

package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_StartsClosed(t *testing.T) {
	b := New("hooks.example.com")

	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "hooks.example.com", b.Name())
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b := New("hooks.example.com", WithFailureThreshold(3))

	for i := 0; i < 2; i++ {
		useFallback, change := b.RecordFailure()
		assert.False(t, useFallback, "failure %d must not trip the breaker", i+1)
		assert.False(t, change.Opened)
	}

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
}

func TestBreaker_ClosesAfterConsecutiveSuccesses(t *testing.T) {
	b := New("hooks.example.com", WithFailureThreshold(1), WithSuccessThreshold(2))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)
	assert.True(t, b.IsOpen())

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreaker_SuccessResetsFailureRun(t *testing.T) {
	b := New("hooks.example.com", WithFailureThreshold(3))

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()

	// The run starts over after the success.
	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreaker_FailureResetsSuccessRun(t *testing.T) {
	b := New("hooks.example.com", WithFailureThreshold(1), WithSuccessThreshold(3))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.RecordSuccess()
	b.RecordSuccess()
	b.RecordFailure()

	// Three fresh successes are needed again.
	b.RecordSuccess()
	b.RecordSuccess()
	assert.True(t, b.IsOpen())
	b.RecordSuccess()
	assert.False(t, b.IsOpen())
}

func TestBreaker_OpenBreakerReportsNoFurtherTransition(t *testing.T) {
	b := New("hooks.example.com", WithFailureThreshold(1))

	_, change := b.RecordFailure()
	assert.True(t, change.Opened)

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened)
}

func TestBreaker_Reset(t *testing.T) {
	b := New("hooks.example.com", WithFailureThreshold(1))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_ConcurrentRecording(t *testing.T) {
	b := New("hooks.example.com", WithFailureThreshold(5))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(fail bool) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if fail {
					b.RecordFailure()
				} else {
					b.RecordSuccess()
				}
			}
		}(i%2 == 0)
	}
	wg.Wait()

	// State is whatever the interleaving produced; the breaker just must
	// still answer consistently.
	state := b.State()
	assert.Contains(t, []State{StateClosed, StateOpen}, state)
}

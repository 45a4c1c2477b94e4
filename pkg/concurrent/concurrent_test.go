package concurrent

import (
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zerodeaths/zerodeaths/pkg/sequence"
)

func TestParallelMapPreservesOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	out, err := ParallelMap(sequence.From([]int{3, 1, 2}), 2, func(v int) (string, error) {
		return strconv.Itoa(v * 10), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"30", "10", "20"}, out)
}

func TestParallelMapRespectsWorkerLimit(t *testing.T) {
	var running, peak atomic.Int32
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = ParallelMap(sequence.From(make([]int, 8)), 2, func(int) (int, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-release
			running.Add(-1)
			return 0, nil
		})
	}()

	require.Eventually(t, func() bool { return running.Load() == 2 }, time.Second, time.Millisecond)
	close(release)
	<-done
	assert.Equal(t, int32(2), peak.Load())
}

func TestParallelMapJoinsErrors(t *testing.T) {
	errOdd := errors.New("odd")

	out, err := ParallelMap(sequence.From([]int{1, 2, 3}), 0, func(v int) (int, error) {
		if v%2 == 1 {
			return v, errOdd
		}
		return v * 2, nil
	})
	require.ErrorIs(t, err, errOdd)
	assert.Equal(t, 4, out[1])
	assert.Len(t, err.(interface{ Unwrap() []error }).Unwrap(), 2)
}

func TestParallelMapEmpty(t *testing.T) {
	out, err := ParallelMap(sequence.From[int](nil), 4, func(v int) (int, error) { return v, nil })
	require.NoError(t, err)
	assert.Empty(t, out)
}

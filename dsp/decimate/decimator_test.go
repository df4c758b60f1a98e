package decimate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cwbudde/algo-iqdemod/dsp/iq"
)

type helperT interface {
	require.TestingT
	Helper()
}

func newTestDecimator(t helperT, ratio, length int) *Decimator {
	t.Helper()

	buf, err := NewReportBuffer(length)
	require.NoError(t, err)

	d, err := NewDecimator(ratio, buf, iq.EstimatorFast, iq.NewPhaseEstimator(iq.DefaultQuarterTurn))
	require.NoError(t, err)

	return d
}

func TestCounterCycles(t *testing.T) {
	c, err := NewCounter(6)
	require.NoError(t, err)

	for n := 1; n <= 60; n++ {
		kept := c.Tick()
		assert.Equal(t, n%6 == 0, kept, "sample %d", n)
		assert.Equal(t, n%6, c.Remainder())
		assert.Less(t, c.Remainder(), c.Ratio())
	}

	_, err = NewCounter(0)
	require.ErrorIs(t, err, ErrRatio)
	_, err = NewCounter(65)
	require.ErrorIs(t, err, ErrRatio)
}

func TestNewValidation(t *testing.T) {
	_, err := NewReportBuffer(100)
	require.ErrorIs(t, err, ErrLength)

	buf, err := NewReportBuffer(128)
	require.NoError(t, err)

	_, err = NewDecimator(6, nil, iq.EstimatorFast, iq.NewPhaseEstimator(0))
	require.Error(t, err)
	_, err = NewDecimator(6, buf, iq.Estimator(7), iq.NewPhaseEstimator(0))
	require.Error(t, err)
	_, err = NewDecimator(-1, buf, iq.EstimatorFast, iq.NewPhaseEstimator(0))
	require.ErrorIs(t, err, ErrRatio)
}

func TestWriteCountForRatioSix(t *testing.T) {
	d := newTestDecimator(t, 6, 128)

	written := 0
	for range 1000 {
		if d.Push(100, 100) {
			written++
		}
	}

	assert.Equal(t, 1000/6, written)
	assert.Equal(t, uint64(1000/6), d.Writes())
	assert.Equal(t, (1000/6)%128, d.WriteIndex())
	assert.Equal(t, 1000%6, d.Remainder())
}

func TestWriteIndexWraps(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ratio := rapid.IntRange(1, 16).Draw(t, "ratio")
		samples := rapid.IntRange(0, 3000).Draw(t, "samples")
		d := newTestDecimator(t, ratio, 64)

		for range samples {
			d.Push(1, 1)
			if d.WriteIndex() < 0 || d.WriteIndex() >= 64 {
				t.Fatalf("write index %d out of range", d.WriteIndex())
			}
		}

		writes := samples / ratio
		if int(d.Writes()) != writes || d.WriteIndex() != writes%64 {
			t.Fatalf("writes=%d index=%d, want %d/%d", d.Writes(), d.WriteIndex(), writes, writes%64)
		}
	})
}

func TestStoredValues(t *testing.T) {
	d := newTestDecimator(t, 1, 8)
	d.Push(1000, 1000)
	d.Push(0, -5)
	d.EndBlock()

	buf := d.Buffer()
	assert.Equal(t, int16(1343), buf.Magnitude(0))
	assert.Equal(t, int32(16543), buf.Phase(0))
	assert.Equal(t, int16(4), buf.Magnitude(1))
	assert.Equal(t, int32(-iq.DefaultQuarterTurn), buf.Phase(1))
	assert.Equal(t, 2, buf.Position())
}

func TestPositionIsBlockGranular(t *testing.T) {
	d := newTestDecimator(t, 2, 16)
	buf := d.Buffer()

	for range 10 {
		d.Push(1, 1)
	}
	assert.Equal(t, 0, buf.Position(), "nothing published before EndBlock")

	d.EndBlock()
	assert.Equal(t, 5, buf.Position())
}

func TestAvailabilityLatch(t *testing.T) {
	d := newTestDecimator(t, 1, 16)
	buf := d.Buffer()

	for n := range 7 {
		d.Push(1, 1)
		assert.False(t, buf.Available(), "after %d writes", n+1)
	}

	d.Push(1, 1)
	assert.True(t, buf.Available())

	// Wrapping past zero does not clear the latch.
	for range 100 {
		d.Push(1, 1)
		require.True(t, buf.Available())
	}
}

func TestEpochResetsReaderView(t *testing.T) {
	d := newTestDecimator(t, 1, 16)
	buf := d.Buffer()

	for range 12 {
		d.Push(1, 1)
	}
	d.EndBlock()
	require.True(t, buf.Available())
	require.Equal(t, 12, buf.Position())

	// A new epoch is visible to readers before the writer notices it.
	buf.SetEpoch(1)
	assert.False(t, buf.Available())
	assert.Equal(t, 0, buf.Position())

	// Writer still in the old epoch cannot resurrect the latch.
	d.Push(1, 1)
	d.EndBlock()
	assert.False(t, buf.Available())
	assert.Equal(t, 0, buf.Position())

	d.Reset(1)
	assert.Zero(t, d.WriteIndex())
	assert.Zero(t, d.Remainder())
	for range 8 {
		d.Push(1, 1)
	}
	d.EndBlock()
	assert.True(t, buf.Available())
	assert.Equal(t, 8, buf.Position())
}

func TestLatchMonotonicWithinEpoch(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ratio := rapid.IntRange(1, 8).Draw(t, "ratio")
		blocks := rapid.SliceOfN(rapid.IntRange(0, 200), 1, 40).Draw(t, "blocks")
		d := newTestDecimator(t, ratio, 32)
		buf := d.Buffer()

		seen := false
		for _, n := range blocks {
			for range n {
				d.Push(3, -4)
			}
			d.EndBlock()

			if seen && !buf.Available() {
				t.Fatal("availability cleared without an epoch change")
			}
			seen = buf.Available()
		}
	})
}

func TestRecentIsChronological(t *testing.T) {
	d := newTestDecimator(t, 1, 8)
	for v := int16(1); v <= 11; v++ {
		d.Push(v*32, 0)
	}
	d.EndBlock()

	mag := make([]int16, 4)
	phase := make([]int32, 4)
	n := d.Buffer().Recent(mag, phase)
	require.Equal(t, 4, n)

	// Fast of (v*32, 0) is v*31.
	assert.Equal(t, []int16{8 * 31, 9 * 31, 10 * 31, 11 * 31}, mag)
	assert.Equal(t, []int32{0, 0, 0, 0}, phase)

	all := make([]int16, 20)
	assert.Equal(t, 8, d.Buffer().Recent(all, nil))
}

func TestConcurrentReaderNeverSeesForeignValues(t *testing.T) {
	d := newTestDecimator(t, 1, 128)
	buf := d.Buffer()

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}

			pos := buf.Position()
			if pos < 0 || pos >= buf.Len() {
				t.Errorf("position %d out of range", pos)
				return
			}
			if m := buf.Magnitude(pos); m != 0 && m != 1343 {
				t.Errorf("torn magnitude %d", m)
				return
			}
		}
	}()

	for range 2000 {
		for range 128 {
			d.Push(1000, 1000)
		}
		d.EndBlock()
	}

	close(done)
	wg.Wait()
	assert.True(t, buf.Available())
}

func TestSetEpochOnlyMovesForward(t *testing.T) {
	buf, err := NewReportBuffer(4)
	require.NoError(t, err)

	buf.SetEpoch(5)
	buf.SetEpoch(3)
	assert.Equal(t, uint64(5), buf.Epoch())
}

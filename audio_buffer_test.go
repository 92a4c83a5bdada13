// audio_buffer_test.go - Double-buffer exchange and invariant tests

package main

import (
	"sync"
	"testing"
	"time"
)

func TestBufferManager_PeriodMatchesRate(t *testing.T) {
	bm := NewBufferManager(512, 22050)
	want := 512 * time.Second / 22050
	if bm.Period() != want {
		t.Errorf("Period() = %v, want %v", bm.Period(), want)
	}
	if bm.Frames() != 512 {
		t.Errorf("Frames() = %d, want 512", bm.Frames())
	}
}

func TestBufferManager_FramesDrainInCommitOrder(t *testing.T) {
	bm := NewBufferManager(4, SAMPLE_RATE)
	stop := make(chan struct{})

	// Fill two buffers with distinguishable values.
	for n := 0; n < 2; n++ {
		buf, idx, ok := bm.AcquireFill(stop)
		if !ok {
			t.Fatal("AcquireFill failed with both buffers free")
		}
		for i := range buf {
			buf[i] = StereoFrame{L: float32(n), R: float32(i)}
		}
		bm.CommitFill(idx, 0)
	}

	for n := 0; n < 2; n++ {
		for i := 0; i < 4; i++ {
			f := bm.NextFrame()
			if f.L != float32(n) || f.R != float32(i) {
				t.Fatalf("buffer %d frame %d: got %+v", n, i, f)
			}
		}
	}
}

func TestBufferManager_UnderrunOncePerEpisode(t *testing.T) {
	bm := NewBufferManager(4, SAMPLE_RATE)
	stop := make(chan struct{})

	// Nothing committed: every frame is silence, one underrun total.
	for i := 0; i < 100; i++ {
		if f := bm.NextFrame(); f.L != 0 || f.R != 0 {
			t.Fatalf("starved drain produced %+v", f)
		}
	}
	if got := bm.Underruns(); got != 1 {
		t.Fatalf("Underruns() = %d after one episode, want 1", got)
	}

	// Recover, drain the buffer, starve again: second episode.
	buf, idx, ok := bm.AcquireFill(stop)
	if !ok {
		t.Fatal("AcquireFill failed")
	}
	for i := range buf {
		buf[i] = StereoFrame{L: 0.5, R: 0.5}
	}
	bm.CommitFill(idx, 0)

	for i := 0; i < 4; i++ {
		if f := bm.NextFrame(); f.L != 0.5 {
			t.Fatalf("recovered frame %d: %+v", i, f)
		}
	}
	for i := 0; i < 100; i++ {
		bm.NextFrame()
	}
	if got := bm.Underruns(); got != 2 {
		t.Errorf("Underruns() = %d after two episodes, want 2", got)
	}
}

func TestBufferManager_DeadlineMissCounted(t *testing.T) {
	bm := NewBufferManager(64, SAMPLE_RATE)
	stop := make(chan struct{})

	_, idx, _ := bm.AcquireFill(stop)
	bm.CommitFill(idx, bm.Period()/2)
	if bm.DeadlineMisses() != 0 {
		t.Errorf("on-time fill counted as miss")
	}

	_, idx, _ = bm.AcquireFill(stop)
	bm.CommitFill(idx, bm.Period()*2)
	if bm.DeadlineMisses() != 1 {
		t.Errorf("DeadlineMisses() = %d, want 1", bm.DeadlineMisses())
	}
	if bm.BuffersFilled() != 2 {
		t.Errorf("BuffersFilled() = %d, want 2", bm.BuffersFilled())
	}
}

func TestBufferManager_AcquireFillStops(t *testing.T) {
	bm := NewBufferManager(4, SAMPLE_RATE)
	stop := make(chan struct{})

	// Exhaust both buffers, then verify a blocked acquire unblocks on
	// stop rather than hanging.
	for n := 0; n < 2; n++ {
		_, idx, ok := bm.AcquireFill(stop)
		if !ok {
			t.Fatal("AcquireFill failed")
		}
		bm.CommitFill(idx, 0)
	}

	done := make(chan bool)
	go func() {
		_, _, ok := bm.AcquireFill(stop)
		done <- ok
	}()
	close(stop)
	select {
	case ok := <-done:
		if ok {
			t.Error("AcquireFill returned a buffer after stop")
		}
	case <-time.After(time.Second):
		t.Fatal("AcquireFill did not honor stop")
	}
}

func TestBufferManager_ShutdownSilences(t *testing.T) {
	bm := NewBufferManager(4, SAMPLE_RATE)
	stop := make(chan struct{})

	buf, idx, _ := bm.AcquireFill(stop)
	for i := range buf {
		buf[i] = StereoFrame{L: 1, R: 1}
	}
	bm.CommitFill(idx, 0)
	bm.Shutdown()

	before := bm.Underruns()
	for i := 0; i < 100; i++ {
		if f := bm.NextFrame(); f.L != 0 || f.R != 0 {
			t.Fatalf("NextFrame after Shutdown produced %+v", f)
		}
	}
	if bm.Underruns() != before {
		t.Error("Shutdown drain counted underruns")
	}
}

// TestBufferManager_RoleExclusivity runs a producer and a consumer
// flat out and checks, from a third goroutine, that the fill side and
// the drain side never hold the same buffer. Run with -race.
func TestBufferManager_RoleExclusivity(t *testing.T) {
	bm := NewBufferManager(32, SAMPLE_RATE)
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			buf, idx, ok := bm.AcquireFill(stop)
			if !ok {
				return
			}
			for i := range buf {
				buf[i] = StereoFrame{L: 0.1, R: -0.1}
			}
			bm.CommitFill(idx, 0)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200000; i++ {
			bm.NextFrame()
		}
		close(stop)
	}()

	violations := 0
	checks := 0
	for {
		select {
		case <-stop:
			wg.Wait()
			if violations > 0 {
				t.Errorf("fill and drain held the same buffer %d/%d checks", violations, checks)
			}
			return
		default:
			fill := bm.fillIndex.Load()
			drain := bm.drainIndex.Load()
			if fill != -1 && fill == drain {
				violations++
			}
			checks++
		}
	}
}

func TestBufferManager_ReadFramesInterleaves(t *testing.T) {
	bm := NewBufferManager(4, SAMPLE_RATE)
	stop := make(chan struct{})

	buf, idx, _ := bm.AcquireFill(stop)
	for i := range buf {
		buf[i] = StereoFrame{L: float32(i), R: -float32(i)}
	}
	bm.CommitFill(idx, 0)

	dst := make([]float32, 8)
	bm.ReadFrames(dst)
	for i := 0; i < 4; i++ {
		if dst[2*i] != float32(i) || dst[2*i+1] != -float32(i) {
			t.Fatalf("interleave wrong at frame %d: L=%v R=%v", i, dst[2*i], dst[2*i+1])
		}
	}
}

// audio_buffer.go - Double-buffered output frame transport

package main

import (
	"sync/atomic"
	"time"
)

// StereoFrame is one output sample pair, clamped to [-1, 1] by the
// mixer before it ever reaches a buffer.
type StereoFrame struct {
	L float32
	R float32
}

// BufferManager owns the two output buffers and enforces the core
// exclusivity invariant: at any instant one buffer is being filled and
// the other drained, never the same one by both sides. Ownership moves
// between the fill goroutine and the drain consumer through the free
// and ready channels, so neither side can touch a buffer it has not
// been handed.
//
// The fill side blocks only on buffer availability, which is paced by
// output consumption. The drain side never blocks: when no filled
// buffer is ready it emits silence and records an underrun, which is
// the audible consequence of a missed fill deadline.
type BufferManager struct {
	buffers [2][]StereoFrame
	free    chan int
	ready   chan int
	period  time.Duration // Real-time deadline for one buffer fill

	// Instrumentation of the role invariant. -1 means the side holds
	// no buffer.
	fillIndex  atomic.Int32
	drainIndex atomic.Int32

	// Drain-side cursor, touched only by the single drain consumer.
	drainBuf int
	drainPos int
	draining bool
	starved  bool

	shutdown atomic.Bool

	buffersFilled  atomic.Uint64
	deadlineMisses atomic.Uint64
	underruns      atomic.Uint64
}

func NewBufferManager(frames, sampleRate int) *BufferManager {
	bm := &BufferManager{
		free:   make(chan int, 2),
		ready:  make(chan int, 2),
		period: time.Duration(frames) * time.Second / time.Duration(sampleRate),
	}
	for i := range bm.buffers {
		bm.buffers[i] = make([]StereoFrame, frames)
		bm.free <- i
	}
	bm.fillIndex.Store(-1)
	bm.drainIndex.Store(-1)
	return bm
}

// Frames returns the buffer length in stereo frames.
func (bm *BufferManager) Frames() int { return len(bm.buffers[0]) }

// Period returns the real-time duration one buffer covers.
func (bm *BufferManager) Period() time.Duration { return bm.period }

// AcquireFill hands the fill side an empty buffer, blocking until the
// drain side returns one or stop closes. Returns false on stop.
func (bm *BufferManager) AcquireFill(stop <-chan struct{}) ([]StereoFrame, int, bool) {
	select {
	case idx := <-bm.free:
		bm.fillIndex.Store(int32(idx))
		return bm.buffers[idx], idx, true
	case <-stop:
		return nil, 0, false
	}
}

// TryAcquireFill is the non-blocking variant, used while shutting down
// to flush a final silent buffer without risking a stall.
func (bm *BufferManager) TryAcquireFill() ([]StereoFrame, int, bool) {
	select {
	case idx := <-bm.free:
		bm.fillIndex.Store(int32(idx))
		return bm.buffers[idx], idx, true
	default:
		return nil, 0, false
	}
}

// CommitFill publishes a filled buffer to the drain side and records
// whether the fill met its real-time deadline. The buffer index must
// be one previously returned by AcquireFill.
func (bm *BufferManager) CommitFill(idx int, took time.Duration) {
	if took > bm.period {
		bm.deadlineMisses.Add(1)
	}
	bm.fillIndex.Store(-1)
	bm.buffersFilled.Add(1)
	bm.ready <- idx
}

// NextFrame pulls one frame for output. Buffers drain strictly in the
// order they were committed. When the fill side has fallen behind, the
// frame is silence and the starvation episode is counted once.
func (bm *BufferManager) NextFrame() StereoFrame {
	if bm.shutdown.Load() {
		return StereoFrame{}
	}

	if !bm.draining || bm.drainPos >= len(bm.buffers[bm.drainBuf]) {
		if bm.draining {
			bm.drainIndex.Store(-1)
			bm.draining = false
			bm.free <- bm.drainBuf
		}
		select {
		case idx := <-bm.ready:
			bm.drainBuf = idx
			bm.drainPos = 0
			bm.draining = true
			bm.starved = false
			bm.drainIndex.Store(int32(idx))
		default:
			if !bm.starved {
				bm.starved = true
				bm.underruns.Add(1)
			}
			return StereoFrame{}
		}
	}

	frame := bm.buffers[bm.drainBuf][bm.drainPos]
	bm.drainPos++
	return frame
}

// ReadFrames drains interleaved float32 stereo samples into dst, whose
// length must be even. This is the entry point the output backends
// call from their pull loops.
func (bm *BufferManager) ReadFrames(dst []float32) {
	for i := 0; i+1 < len(dst); i += 2 {
		f := bm.NextFrame()
		dst[i] = f.L
		dst[i+1] = f.R
	}
}

// Shutdown forces NextFrame to silence without counting underruns,
// so a stopping engine drains cleanly instead of popping.
func (bm *BufferManager) Shutdown() {
	bm.shutdown.Store(true)
}

func (bm *BufferManager) BuffersFilled() uint64  { return bm.buffersFilled.Load() }
func (bm *BufferManager) DeadlineMisses() uint64 { return bm.deadlineMisses.Load() }
func (bm *BufferManager) Underruns() uint64      { return bm.underruns.Load() }

//go:build !headless

// audio_backend_oto.go - OTO v3 audio output implementation

package main

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer drains the buffer manager through oto's pull model: oto
// calls Read from its own playback goroutine and the Read body stays
// lock-free, loading the manager through an atomic pointer.
type OtoPlayer struct {
	ctx       *oto.Context
	player    *oto.Player
	buffers   atomic.Pointer[BufferManager] // Atomic for lock-free Read()
	sampleBuf []float32                     // Pre-allocated sample buffer
	started   bool
	mutex     sync.Mutex // Only for setup/control operations
}

func NewOtoPlayer(sampleRate int, bm *BufferManager) (AudioOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bm.Period(),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, &AudioError{Operation: "init", Details: "oto context", Err: err}
	}
	<-ready

	player := &OtoPlayer{ctx: ctx}
	player.buffers.Store(bm)
	player.player = ctx.NewPlayer(player)
	// Two buffer periods' worth of interleaved samples covers any read
	// size oto asks for in practice.
	player.sampleBuf = make([]float32, 4*bm.Frames())
	return player, nil
}

func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	bm := op.buffers.Load()
	if bm == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	numSamples := len(p) / 4

	// Should not grow after construction; guard for odd read sizes.
	if len(op.sampleBuf) < numSamples {
		op.sampleBuf = make([]float32, numSamples)
	}
	samples := op.sampleBuf[:numSamples]

	bm.ReadFrames(samples)

	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:numSamples*4])
	return numSamples * 4, nil
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		op.player.Pause()
		op.started = false
	}
}

func (op *OtoPlayer) Close() {
	op.Stop()
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Close()
		op.player = nil
	}
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}

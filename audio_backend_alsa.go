//go:build alsa && !headless

// audio_backend_alsa.go - ALSA audio output implementation

package main

/*
#cgo LDFLAGS: -lasound
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* openPCM(const char* device, int* err) {
    snd_pcm_t* handle;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

static int setupPCM(snd_pcm_t* handle, unsigned int rate) {
    snd_pcm_hw_params_t* params;
    int err;

    snd_pcm_hw_params_alloca(&params);
    err = snd_pcm_hw_params_any(handle, params);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_access(handle, params, SND_PCM_ACCESS_RW_INTERLEAVED);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_format(handle, params, SND_PCM_FORMAT_FLOAT);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_channels(handle, params, 2);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_rate(handle, params, rate, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params(handle, params);
    if (err < 0) return err;

    return snd_pcm_prepare(handle);
}

static int writePCM(snd_pcm_t* handle, float* buffer, int frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static void closePCM(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drain(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"
)

// ALSAPlayer pushes interleaved stereo float frames into the default
// PCM device. Unlike the oto backend's pull model, a writer goroutine
// drains the buffer manager; pacing comes from snd_pcm_writei
// blocking until the device accepts the period.
type ALSAPlayer struct {
	handle  *C.snd_pcm_t
	buffers *BufferManager
	samples []float32
	started bool
	stop    chan struct{}
	done    chan struct{}
	mutex   sync.Mutex
}

func NewALSAPlayer(sampleRate int, bm *BufferManager) (AudioOutput, error) {
	var cerr C.int
	device := C.CString("default")
	defer C.free(unsafe.Pointer(device))

	handle := C.openPCM(device, &cerr)
	if cerr < 0 {
		return nil, &AudioError{
			Operation: "init",
			Details:   fmt.Sprintf("open PCM device: %s", C.GoString(C.snd_strerror(cerr))),
		}
	}

	if cerr = C.setupPCM(handle, C.uint(sampleRate)); cerr < 0 {
		C.closePCM(handle)
		return nil, &AudioError{
			Operation: "init",
			Details:   fmt.Sprintf("setup PCM: %s", C.GoString(C.snd_strerror(cerr))),
		}
	}

	return &ALSAPlayer{
		handle:  handle,
		buffers: bm,
		samples: make([]float32, 2*bm.Frames()),
	}, nil
}

func (ap *ALSAPlayer) writeLoop() {
	defer close(ap.done)
	frames := len(ap.samples) / 2
	for {
		select {
		case <-ap.stop:
			return
		default:
		}

		ap.buffers.ReadFrames(ap.samples)
		n := C.writePCM(ap.handle, (*C.float)(unsafe.Pointer(&ap.samples[0])), C.int(frames))
		if n < 0 {
			if n == -C.EPIPE {
				C.snd_pcm_prepare(ap.handle)
				continue
			}
			return
		}
	}
}

func (ap *ALSAPlayer) Start() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if !ap.started {
		ap.started = true
		ap.stop = make(chan struct{})
		ap.done = make(chan struct{})
		go ap.writeLoop()
	}
}

func (ap *ALSAPlayer) Stop() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.started {
		close(ap.stop)
		<-ap.done
		ap.started = false
	}
}

func (ap *ALSAPlayer) Close() {
	ap.Stop()
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.handle != nil {
		C.closePCM(ap.handle)
		ap.handle = nil
	}
}

func (ap *ALSAPlayer) IsStarted() bool {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	return ap.started
}

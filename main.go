// main.go - PWM Synth entry point

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"
)

func printBanner() {
	fmt.Println("\nPWM Synth - real-time stereo synthesizer")
	fmt.Println("https://github.com/picocalc/pwmsynth")
}

func main() {
	printBanner()

	var (
		presetPath  string
		backendName string
		displayName string
		watch       bool
		rate        int
		testNote    bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&presetPath, "preset", "preset.json", "Preset file (written with defaults if missing)")
	flagSet.StringVar(&backendName, "backend", "oto", "Audio backend: oto, alsa or none")
	flagSet.StringVar(&displayName, "display", "", "Display backend: tcell, ebiten or none (default: tcell on a terminal)")
	flagSet.BoolVar(&watch, "watch", false, "Reload the preset file when it changes")
	flagSet.IntVar(&rate, "rate", 0, "Override the preset sample rate")
	flagSet.BoolVar(&testNote, "test-note", true, "Play a short A4 on startup")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./pwmsynth [-preset preset.json] [-backend oto] [-display tcell] [-watch]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		flagSet.Usage()
		os.Exit(1)
	}

	backend, err := ParseAudioBackend(backendName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if displayName == "" {
		// A detached stdout (pipe, service) gets no terminal UI.
		if term.IsTerminal(int(os.Stdout.Fd())) {
			displayName = "tcell"
		} else {
			displayName = "none"
		}
	}
	display, err := ParseDisplayBackend(displayName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	preset, err := ReadPreset(presetPath)
	if err != nil {
		fmt.Printf("Error loading preset: %v\n", err)
		os.Exit(1)
	}
	if rate > 0 {
		preset.SampleRate = rate
	}

	engine := NewEngine(preset)
	engine.Start()
	defer engine.Stop()

	audio, err := NewAudioOutput(backend, preset.SampleRate, engine.Buffers())
	if err != nil {
		fmt.Printf("Failed to initialize audio: %v\n", err)
		os.Exit(1)
	}
	audio.Start()
	defer audio.Close()

	panel := NewPanel(engine, preset)

	if watch || preset.WatchPreset {
		done := make(chan struct{})
		defer close(done)
		presets := make(chan *Preset, 1)
		watchErrs := make(chan error, 1)
		if err := WatchPreset(presetPath, presets, watchErrs, done); err != nil {
			fmt.Printf("Failed to watch preset: %v\n", err)
			os.Exit(1)
		}
		go func() {
			for {
				select {
				case p := <-presets:
					if rate > 0 {
						p.SampleRate = rate
					}
					if err := panel.ApplyPreset(p); err != nil {
						fmt.Printf("Preset reload rejected: %v\n", err)
					}
				case err := <-watchErrs:
					fmt.Printf("Preset watch error: %v\n", err)
				case <-done:
					return
				}
			}
		}()
	}

	if testNote && backend != AUDIO_BACKEND_HEADLESS {
		if err := engine.NoteOn(NoteFrequency(9, REFERENCE_OCTAVE), DEFAULT_NOTE_GAIN); err == nil {
			time.AfterFunc(500*time.Millisecond, func() {
				engine.NoteOff(NoteFrequency(9, REFERENCE_OCTAVE))
			})
		}
	}

	out, err := NewDisplayOutput(display, panel, engine)
	if err != nil {
		fmt.Printf("Failed to initialize display: %v\n", err)
		os.Exit(1)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		panel.Silence()
		out.Stop()
	}()

	if err := out.Run(); err != nil {
		fmt.Printf("Display error: %v\n", err)
	}

	stats := engine.Stats()
	fmt.Printf("Session: %d buffers, %d deadline misses, %d underruns, %d clips\n",
		stats.BuffersFilled, stats.DeadlineMisses, stats.Underruns, stats.ClipEvents)
}

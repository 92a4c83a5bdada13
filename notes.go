// notes.go - Note table and note-to-frequency mapping

package main

// Base note frequencies for the middle octave (octave 4), matching the
// twelve-tone table the synthesizer keyboard steps through.
var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var baseNoteFreqs = []float32{262, 277, 294, 311, 330, 349, 370, 392, 415, 440, 466, 494}

const (
	MIN_OCTAVE       = 1
	MAX_OCTAVE       = 7
	REFERENCE_OCTAVE = 4
)

// NoteFrequency returns the frequency in Hz of the note at index
// (0=C .. 11=B) shifted to the given octave. Indices and octaves
// outside the valid range are clamped.
func NoteFrequency(index, octave int) float32 {
	if index < 0 {
		index = 0
	} else if index >= len(baseNoteFreqs) {
		index = len(baseNoteFreqs) - 1
	}
	if octave < MIN_OCTAVE {
		octave = MIN_OCTAVE
	} else if octave > MAX_OCTAVE {
		octave = MAX_OCTAVE
	}

	freq := baseNoteFreqs[index]
	shift := octave - REFERENCE_OCTAVE
	for shift > 0 {
		freq *= 2
		shift--
	}
	for shift < 0 {
		freq /= 2
		shift++
	}
	return freq
}

// NoteName returns the display name for a note index, e.g. "A".
func NoteName(index int) string {
	if index < 0 || index >= len(noteNames) {
		return "?"
	}
	return noteNames[index]
}

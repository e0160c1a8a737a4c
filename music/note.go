// Package music holds the melody data model: pitches, notes, tracks and
// the catalog cursor.
package music

import "fmt"

// Pitch is a tone frequency in Hz. Rest (0) means silence.
type Pitch uint16

// Rest is the silent pitch.
const Rest Pitch = 0

// Twelve-tone equal temperament, A4 = 440 Hz, rounded to whole Hz.
const (
	C3  Pitch = 131
	CS3 Pitch = 139
	D3  Pitch = 147
	DS3 Pitch = 156
	E3  Pitch = 165
	F3  Pitch = 175
	FS3 Pitch = 185
	G3  Pitch = 196
	GS3 Pitch = 208
	A3  Pitch = 220
	AS3 Pitch = 233
	B3  Pitch = 247

	C4  Pitch = 262 // middle C
	CS4 Pitch = 277
	D4  Pitch = 294
	DS4 Pitch = 311
	E4  Pitch = 330
	F4  Pitch = 349
	FS4 Pitch = 370
	G4  Pitch = 392
	GS4 Pitch = 415
	A4  Pitch = 440
	AS4 Pitch = 466
	B4  Pitch = 494

	C5  Pitch = 523
	CS5 Pitch = 554
	D5  Pitch = 587
	DS5 Pitch = 622
	E5  Pitch = 659
	F5  Pitch = 698
	FS5 Pitch = 740
	G5  Pitch = 784
	GS5 Pitch = 831
	A5  Pitch = 880
	AS5 Pitch = 932
	B5  Pitch = 988
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// names maps every tabled pitch back to its name.
var names = func() map[Pitch]string {
	table := [...]Pitch{
		C3, CS3, D3, DS3, E3, F3, FS3, G3, GS3, A3, AS3, B3,
		C4, CS4, D4, DS4, E4, F4, FS4, G4, GS4, A4, AS4, B4,
		C5, CS5, D5, DS5, E5, F5, FS5, G5, GS5, A5, AS5, B5,
	}
	m := make(map[Pitch]string, len(table))
	for i, p := range table {
		m[p] = fmt.Sprintf("%s%d", noteNames[i%12], 3+i/12)
	}
	return m
}()

// IsRest reports whether p is silence.
func (p Pitch) IsRest() bool {
	return p == Rest
}

// Hz returns the frequency for the tone timer.
func (p Pitch) Hz() uint32 {
	return uint32(p)
}

func (p Pitch) String() string {
	if p == Rest {
		return "rest"
	}
	if name, ok := names[p]; ok {
		return name
	}
	return fmt.Sprintf("%dHz", uint16(p))
}

// Note is a pitch held for Ms milliseconds.
type Note struct {
	Pitch Pitch
	Ms    uint16
}

// N is shorthand for building note tables.
func N(p Pitch, ms uint16) Note {
	return Note{Pitch: p, Ms: ms}
}

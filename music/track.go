package music

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyCatalog is returned when a catalog has no tracks.
var ErrEmptyCatalog = errors.New("catalog has no tracks")

// Track is a named melody. Tracks are immutable once built.
type Track struct {
	Name  string
	Notes []Note
}

// Length returns how long the track sounds, counting gap after every note.
func (t Track) Length(gap time.Duration) time.Duration {
	var d time.Duration
	for _, n := range t.Notes {
		d += time.Duration(n.Ms)*time.Millisecond + gap
	}
	return d
}

// Catalog is the fixed, ordered list of tracks on the board.
type Catalog []Track

// Len returns the number of tracks.
func (c Catalog) Len() int {
	return len(c)
}

// Track returns the track at i. i must be a valid index.
func (c Catalog) Track(i int) Track {
	return c[i]
}

// Validate checks that the catalog can be played.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCatalog
	}
	for ti, t := range c {
		for ni, n := range t.Notes {
			if n.Ms == 0 {
				return fmt.Errorf("track %d (%s) note %d: zero duration", ti, t.Name, ni)
			}
		}
	}
	return nil
}

// Cursor selects a track index and wraps around the catalog in both
// directions. It is always a valid index.
type Cursor struct {
	index int
	n     int
}

// NewCursor returns a cursor over n tracks at start (wrapped into range).
// n must be at least 1.
func NewCursor(n, start int) Cursor {
	if n < 1 {
		panic("music: cursor over empty catalog")
	}
	return Cursor{index: ((start % n) + n) % n, n: n}
}

// Index returns the current track index.
func (c Cursor) Index() int {
	return c.index
}

// Next moves forward one track.
func (c *Cursor) Next() {
	c.index = (c.index + 1) % c.n
}

// Previous moves back one track.
func (c *Cursor) Previous() {
	c.index = (c.index + c.n - 1) % c.n
}

package location

import (
	"sync"

	"github.com/ndmitriev/weathercast/internal/weather"
)

type outcome struct {
	coord weather.Coordinate
	ok    bool
}

// resolver bridges a callback-style lookup into a one-shot channel. Both
// resolve and reject are safe to call any number of times from any
// goroutine; only the first call wins.
type resolver struct {
	once sync.Once
	done chan outcome
}

func newResolver() *resolver {
	return &resolver{done: make(chan outcome, 1)}
}

func (r *resolver) resolve(coord weather.Coordinate) {
	r.once.Do(func() {
		r.done <- outcome{coord: coord, ok: true}
	})
}

func (r *resolver) reject() {
	r.once.Do(func() {
		r.done <- outcome{}
	})
}

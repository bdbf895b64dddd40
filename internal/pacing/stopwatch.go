package pacing

import "time"

// WordTiming is the reading time of one word.
type WordTiming struct {
	Word string
	Ms   int64
}

// Stopwatch measures how long each word stays on screen.
type Stopwatch struct {
	now     func() time.Time
	begin   time.Time
	timings []WordTiming
}

// NewStopwatch returns a stopwatch on the wall clock.
func NewStopwatch() *Stopwatch {
	return NewStopwatchWithClock(time.Now)
}

// NewStopwatchWithClock returns a stopwatch reading time from now.
func NewStopwatchWithClock(now func() time.Time) *Stopwatch {
	return &Stopwatch{now: now}
}

// Begin marks the moment a word is shown.
func (s *Stopwatch) Begin() {
	s.begin = s.now()
}

// End records the time since Begin under word and returns it in milliseconds.
// A repeated word overwrites its earlier timing. Without Begin it returns 0.
func (s *Stopwatch) End(word string) int64 {
	if s.begin.IsZero() {
		return 0
	}
	ms := s.now().Sub(s.begin).Milliseconds()
	s.begin = time.Time{}
	for i := range s.timings {
		if s.timings[i].Word == word {
			s.timings[i].Ms = ms
			return ms
		}
	}
	s.timings = append(s.timings, WordTiming{Word: word, Ms: ms})
	return ms
}

// Timings returns a copy of the recorded timings in first-seen order.
func (s *Stopwatch) Timings() []WordTiming {
	return append([]WordTiming(nil), s.timings...)
}

// Reset forgets the pending word and all timings.
func (s *Stopwatch) Reset() {
	s.begin = time.Time{}
	s.timings = nil
}

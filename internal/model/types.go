// Package model defines shared data structures.
package model

import "time"

// Config defines reading settings.
type Config struct {
	ContentPath string
	Mode        string
	Countdown   int
	Speech      bool
	SpeechCmd   string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	// Day is a 1-based day filter; 0 means all days.
	Day         int
	Since       *time.Time
	Last        int
	CurveWindow int
}

// BlockRun records one finished block for the history views.
type BlockRun struct {
	ID             string
	StartedAt      time.Time
	EndedAt        time.Time
	Day            int
	Block          int
	Mode           string
	ElapsedSeconds int
	Words          int
	ReplayCount    int
	DifficultCount int
}

// SecondsPerWord returns the run's reading pace.
func (r BlockRun) SecondsPerWord() float64 {
	if r.Words <= 0 {
		return 0
	}
	return float64(r.ElapsedSeconds) / float64(r.Words)
}

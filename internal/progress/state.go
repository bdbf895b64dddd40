package progress

import "github.com/verte-zerg/tuilees/internal/pacing"

// State is everything that survives a restart.
type State struct {
	Position Coordinate
	Mode     pacing.Mode
	// Days is keyed by zero-based day index.
	Days   map[int]DayStat
	Totals TotalStats
	Read   *CompletionSet
}

// NewState returns the first-run defaults.
func NewState() *State {
	return &State{
		Mode:   pacing.ModeTraining,
		Days:   map[int]DayStat{},
		Totals: TotalStats{CompletedDays: []int{}},
		Read:   NewCompletionSet(),
	}
}

// SetPosition overwrites the current coordinate without bounds checks.
func (s *State) SetPosition(day, block, row, word int) {
	s.Position = Coordinate{Day: day, Block: block, Row: row, Word: word}
}

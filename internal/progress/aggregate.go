package progress

import (
	"slices"

	"github.com/verte-zerg/tuilees/internal/curriculum"
)

// BlockStat is the record of one completed block.
type BlockStat struct {
	// BlockNumber is 1-based.
	BlockNumber    int         `json:"blockNumber"`
	ElapsedSeconds int         `json:"elapsedSeconds"`
	ReplayCount    int         `json:"replayCount"`
	DifficultWords []string    `json:"difficultWords"`
	WordDurations  WordTimings `json:"wordDurationsMs"`
}

// DayStat aggregates the completed blocks of one day.
type DayStat struct {
	TotalWords   int         `json:"totalWords"`
	TotalSeconds int         `json:"totalSeconds"`
	Blocks       []BlockStat `json:"blocks"`
}

// TotalStats aggregates across days.
type TotalStats struct {
	TotalWords    int   `json:"totalWords"`
	CompletedDays []int `json:"completedDays"`
	// AverageSpeed is seconds per word over all recorded blocks.
	AverageSpeed float64 `json:"averageSpeed"`
}

// RecordBlock upserts stat into the day's blocks by BlockNumber and
// recomputes the day and overall figures.
func (s *State) RecordBlock(day int, stat BlockStat) {
	stat.DifficultWords = append([]string(nil), stat.DifficultWords...)
	stat.WordDurations = append(WordTimings(nil), stat.WordDurations...)

	ds := s.Days[day]
	ds.Blocks = append([]BlockStat(nil), ds.Blocks...)
	idx := slices.IndexFunc(ds.Blocks, func(b BlockStat) bool {
		return b.BlockNumber == stat.BlockNumber
	})
	if idx >= 0 {
		ds.Blocks[idx] = stat
	} else {
		ds.Blocks = append(ds.Blocks, stat)
	}

	ds.TotalSeconds = 0
	for _, b := range ds.Blocks {
		ds.TotalSeconds += b.ElapsedSeconds
	}
	ds.TotalWords = len(ds.Blocks) * curriculum.WordsPerBlock
	s.Days[day] = ds
	s.recomputeAverageSpeed()
}

// CompleteDay adds day to the completed days once and recomputes the total words.
func (s *State) CompleteDay(day int) bool {
	if slices.Contains(s.Totals.CompletedDays, day) {
		return false
	}
	s.Totals.CompletedDays = append(s.Totals.CompletedDays, day)
	s.Totals.TotalWords = len(s.Totals.CompletedDays) * curriculum.WordsPerDay
	return true
}

// IsDayComplete reports whether day is in the completed days.
func (s *State) IsDayComplete(day int) bool {
	return slices.Contains(s.Totals.CompletedDays, day)
}

func (s *State) recomputeAverageSpeed() {
	words, seconds := 0, 0
	for _, ds := range s.Days {
		words += ds.TotalWords
		seconds += ds.TotalSeconds
	}
	if words == 0 {
		s.Totals.AverageSpeed = 0
		return
	}
	s.Totals.AverageSpeed = float64(seconds) / float64(words)
}

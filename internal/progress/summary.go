package progress

import (
	"github.com/verte-zerg/tuilees/internal/curriculum"
	"github.com/verte-zerg/tuilees/internal/pacing"
)

// BlockSummary is shown after a block is finished.
type BlockSummary struct {
	BlockNumber    int
	ElapsedSeconds int
	SecondsPerWord float64
	// HasTimings is false when no word was timed; Fastest and Slowest are then zero.
	HasTimings  bool
	Fastest     pacing.WordTiming
	Slowest     pacing.WordTiming
	ReplayCount int
	DayProgress DayProgress
}

// DayProgress is the day's position at the end of a block.
type DayProgress struct {
	WordsRead   int
	TotalWords  int
	BlocksDone  int
	TotalBlocks int
}

// DayCelebration is shown after the last block of a day.
type DayCelebration struct {
	DayNumber      int
	WordsRead      int
	ChallengeWords int
	ChallengeTotal int
	DaysDone       int
	TotalDays      int
	IsLastDay      bool
}

// FastestSlowest returns the minimum and maximum timing. Ties keep the first
// entry. ok is false for empty input.
func FastestSlowest(timings WordTimings) (fastest, slowest pacing.WordTiming, ok bool) {
	if len(timings) == 0 {
		return pacing.WordTiming{}, pacing.WordTiming{}, false
	}
	fastest, slowest = timings[0], timings[0]
	for _, wt := range timings[1:] {
		if wt.Ms < fastest.Ms {
			fastest = wt
		}
		if wt.Ms > slowest.Ms {
			slowest = wt
		}
	}
	return fastest, slowest, true
}

// Summarize builds the summary of block (zero-based) from its statistic.
// wordsInBlock is the block's word count in the curriculum; readElsewhere is
// the number of words of the day read outside this block.
func Summarize(stat BlockStat, block, wordsInBlock, readElsewhere int) BlockSummary {
	sum := BlockSummary{
		BlockNumber:    stat.BlockNumber,
		ElapsedSeconds: stat.ElapsedSeconds,
		ReplayCount:    stat.ReplayCount,
		DayProgress: DayProgress{
			WordsRead:   readElsewhere + wordsInBlock,
			TotalWords:  curriculum.WordsPerDay,
			BlocksDone:  block + 1,
			TotalBlocks: curriculum.BlocksPerDay,
		},
	}
	if wordsInBlock > 0 {
		sum.SecondsPerWord = float64(stat.ElapsedSeconds) / float64(wordsInBlock)
	}
	sum.Fastest, sum.Slowest, sum.HasTimings = FastestSlowest(stat.WordDurations)
	return sum
}

// Celebrate builds the celebration of day (zero-based) in a curriculum of dayCount days.
func Celebrate(day, dayCount int) DayCelebration {
	return DayCelebration{
		DayNumber:      day + 1,
		WordsRead:      curriculum.WordsPerDay,
		ChallengeWords: (day + 1) * curriculum.WordsPerDay,
		ChallengeTotal: dayCount * curriculum.WordsPerDay,
		DaysDone:       day + 1,
		TotalDays:      dayCount,
		IsLastDay:      day == dayCount-1,
	}
}

package progress

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuilees/internal/curriculum"
	"github.com/verte-zerg/tuilees/internal/pacing"
)

func testCurriculum(days int) *curriculum.Curriculum {
	c := &curriculum.Curriculum{}
	for d := 0; d < days; d++ {
		day := curriculum.Day{Number: d + 1}
		for b := 0; b < curriculum.BlocksPerDay; b++ {
			block := curriculum.Block{Number: b + 1}
			for r := 0; r < curriculum.RowsPerBlock; r++ {
				row := curriculum.Row{Number: r + 1}
				for w := 0; w < curriculum.WordsPerRow; w++ {
					row.Words = append(row.Words, fmt.Sprintf("w%d-%d-%d-%d", d, b, r, w))
				}
				block.Rows = append(block.Rows, row)
			}
			day.Blocks = append(day.Blocks, block)
		}
		c.Days = append(c.Days, day)
	}
	return c
}

func TestMarkReadIdempotent(t *testing.T) {
	set := NewCompletionSet()
	c := Coordinate{Day: 1, Block: 2, Row: 3, Word: 4}
	assert.True(t, set.MarkRead(c))
	assert.False(t, set.MarkRead(c))
	assert.Equal(t, 1, set.Len())
	assert.True(t, set.IsRead(c))
	assert.False(t, set.IsRead(Coordinate{Day: 1, Block: 2, Row: 3}))
	assert.Equal(t, []string{"1-2-3-4"}, set.Keys())
}

func TestCompletionCounts(t *testing.T) {
	set := NewCompletionSet()
	for r := 0; r < curriculum.RowsPerBlock; r++ {
		for w := 0; w < curriculum.WordsPerRow; w++ {
			set.MarkRead(Coordinate{Day: 0, Block: 3, Row: r, Word: w})
		}
	}
	set.MarkRead(Coordinate{Day: 0, Block: 4, Row: 0, Word: 0})
	set.MarkRead(Coordinate{Day: 1, Block: 0, Row: 0, Word: 0})
	// Outside the standard grid: never counted.
	set.MarkRead(Coordinate{Day: 0, Block: 4, Row: 0, Word: 7})
	set.MarkRead(Coordinate{Day: 0, Block: 11, Row: 0, Word: 0})

	assert.Equal(t, 20, set.CountInBlock(0, 3))
	assert.Equal(t, 1, set.CountInBlock(0, 4))
	assert.Equal(t, 21, set.CountInDay(0))
	assert.Equal(t, 1, set.CountInDay(1))
}

func TestCompletionSetKeepsInsertionOrder(t *testing.T) {
	set := NewCompletionSet("0-0-0-2", "0-0-0-1", "0-0-0-2")
	set.MarkRead(Coordinate{})
	assert.Equal(t, []string{"0-0-0-2", "0-0-0-1", "0-0-0-0"}, set.Keys())
}

func TestParseKey(t *testing.T) {
	c, err := ParseKey("2-9-3-4")
	require.NoError(t, err)
	assert.Equal(t, Coordinate{Day: 2, Block: 9, Row: 3, Word: 4}, c)
	assert.Equal(t, "2-9-3-4", c.Key())
	for _, bad := range []string{"", "1-2-3", "a-b-c-d", "1-2-3--4"} {
		_, err := ParseKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestCompleteDayIdempotent(t *testing.T) {
	s := NewState()
	assert.True(t, s.CompleteDay(2))
	assert.Equal(t, []int{2}, s.Totals.CompletedDays)
	assert.Equal(t, 200, s.Totals.TotalWords)

	assert.False(t, s.CompleteDay(2))
	assert.Equal(t, []int{2}, s.Totals.CompletedDays)
	assert.Equal(t, 200, s.Totals.TotalWords)

	s.CompleteDay(0)
	assert.Equal(t, []int{2, 0}, s.Totals.CompletedDays)
	assert.Equal(t, 400, s.Totals.TotalWords)
}

func TestRecordBlockUpsert(t *testing.T) {
	s := NewState()
	s.RecordBlock(0, BlockStat{BlockNumber: 3, ElapsedSeconds: 40})
	s.RecordBlock(0, BlockStat{BlockNumber: 3, ElapsedSeconds: 25})

	ds := s.Days[0]
	require.Len(t, ds.Blocks, 1)
	assert.Equal(t, 25, ds.Blocks[0].ElapsedSeconds)
	assert.Equal(t, 20, ds.TotalWords)
	assert.Equal(t, 25, ds.TotalSeconds)
}

func TestRecordBlockRecomputesDay(t *testing.T) {
	s := NewState()
	s.RecordBlock(1, BlockStat{BlockNumber: 1, ElapsedSeconds: 30})
	s.RecordBlock(1, BlockStat{BlockNumber: 2, ElapsedSeconds: 45})
	s.RecordBlock(1, BlockStat{BlockNumber: 3, ElapsedSeconds: 25})

	ds := s.Days[1]
	assert.Equal(t, 60, ds.TotalWords)
	assert.Equal(t, 100, ds.TotalSeconds)
	assert.Equal(t, []int{1, 2, 3}, []int{ds.Blocks[0].BlockNumber, ds.Blocks[1].BlockNumber, ds.Blocks[2].BlockNumber})
	assert.InDelta(t, 100.0/60.0, s.Totals.AverageSpeed, 1e-9)

	s.RecordBlock(2, BlockStat{BlockNumber: 1, ElapsedSeconds: 20})
	assert.InDelta(t, 120.0/80.0, s.Totals.AverageSpeed, 1e-9)
}

func TestRecordBlockCopiesInput(t *testing.T) {
	s := NewState()
	difficult := []string{"kat"}
	s.RecordBlock(0, BlockStat{BlockNumber: 1, DifficultWords: difficult})
	difficult[0] = "hond"
	assert.Equal(t, []string{"kat"}, s.Days[0].Blocks[0].DifficultWords)
}

func TestFastestSlowestTies(t *testing.T) {
	var timings WordTimings
	timings.Set("cat", 500)
	timings.Set("dog", 1200)
	timings.Set("bird", 500)

	fastest, slowest, ok := FastestSlowest(timings)
	require.True(t, ok)
	assert.Equal(t, pacing.WordTiming{Word: "cat", Ms: 500}, fastest)
	assert.Equal(t, pacing.WordTiming{Word: "dog", Ms: 1200}, slowest)
}

func TestFastestSlowestEmpty(t *testing.T) {
	fastest, slowest, ok := FastestSlowest(nil)
	assert.False(t, ok)
	assert.Zero(t, fastest)
	assert.Zero(t, slowest)

	sum := Summarize(BlockStat{BlockNumber: 1, ElapsedSeconds: 10}, 0, 0, 0)
	assert.False(t, sum.HasTimings)
	assert.Zero(t, sum.SecondsPerWord)
}

func TestSummarize(t *testing.T) {
	var timings WordTimings
	timings.Set("kat", 800)
	timings.Set("boom", 2400)
	stat := BlockStat{BlockNumber: 4, ElapsedSeconds: 50, ReplayCount: 2, WordDurations: timings}

	sum := Summarize(stat, 3, 20, 60)
	assert.Equal(t, 4, sum.BlockNumber)
	assert.InDelta(t, 2.5, sum.SecondsPerWord, 1e-9)
	assert.True(t, sum.HasTimings)
	assert.Equal(t, "kat", sum.Fastest.Word)
	assert.Equal(t, "boom", sum.Slowest.Word)
	assert.Equal(t, 2, sum.ReplayCount)
	assert.Equal(t, DayProgress{WordsRead: 80, TotalWords: 200, BlocksDone: 4, TotalBlocks: 10}, sum.DayProgress)
}

func TestCelebrate(t *testing.T) {
	c := Celebrate(4, 5)
	assert.Equal(t, DayCelebration{
		DayNumber:      5,
		WordsRead:      200,
		ChallengeWords: 1000,
		ChallengeTotal: 1000,
		DaysDone:       5,
		TotalDays:      5,
		IsLastDay:      true,
	}, c)
	assert.False(t, Celebrate(1, 5).IsLastDay)
}

func TestWordTimingsSetKeepsPosition(t *testing.T) {
	var timings WordTimings
	timings.Set("a", 1)
	timings.Set("b", 2)
	timings.Set("a", 3)
	assert.Equal(t, WordTimings{{Word: "a", Ms: 3}, {Word: "b", Ms: 2}}, timings)
	ms, ok := timings.Get("b")
	assert.True(t, ok)
	assert.Equal(t, int64(2), ms)
	_, ok = timings.Get("c")
	assert.False(t, ok)
}

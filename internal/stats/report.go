package stats

import (
	"context"
	"slices"
	"sort"

	"github.com/verte-zerg/tuilees/internal/model"
	"github.com/verte-zerg/tuilees/internal/progress"
)

const reportTopWords = 10

// HistorySource lists finished block runs.
type HistorySource interface {
	ListBlockRuns(ctx context.Context, cfg model.StatsConfig) ([]model.BlockRun, error)
}

// DayRow is one line of the per-day table.
type DayRow struct {
	// Day is 1-based.
	Day            int
	WordsRead      int
	BlocksDone     int
	TotalSeconds   int
	SecondsPerWord float64
	Completed      bool
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Totals    progress.TotalStats
	WordsRead int
	Days      []DayRow
	Runs      []model.BlockRun
	// Window is the tail of Runs used for the recent pace.
	Window    []model.BlockRun
	Difficult []WordCount
	Slowest   []WordPace
}

// BuildReport combines the saved progress with the block run history.
func BuildReport(ctx context.Context, src HistorySource, state *progress.State, cfg model.StatsConfig) (Report, error) {
	runs, err := src.ListBlockRuns(ctx, cfg)
	if err != nil {
		return Report{}, err
	}

	days := map[int]progress.DayStat{}
	for day, ds := range state.Days {
		if cfg.Day > 0 && day != cfg.Day-1 {
			continue
		}
		days[day] = ds
	}

	return Report{
		Totals:    state.Totals,
		WordsRead: state.Read.Len(),
		Days:      dayRows(state, cfg.Day),
		Runs:      runs,
		Window:    lastRuns(runs, cfg.CurveWindow),
		Difficult: TopDifficultWords(days, reportTopWords),
		Slowest:   SlowestWords(days, reportTopWords),
	}, nil
}

func dayRows(state *progress.State, dayFilter int) []DayRow {
	seen := map[int]struct{}{}
	for day := range state.Days {
		seen[day] = struct{}{}
	}
	for _, day := range state.Totals.CompletedDays {
		seen[day] = struct{}{}
	}
	indexes := make([]int, 0, len(seen))
	for day := range seen {
		if dayFilter > 0 && day != dayFilter-1 {
			continue
		}
		indexes = append(indexes, day)
	}
	sort.Ints(indexes)

	rows := make([]DayRow, 0, len(indexes))
	for _, day := range indexes {
		ds := state.Days[day]
		row := DayRow{
			Day:          day + 1,
			WordsRead:    state.Read.CountInDay(day),
			BlocksDone:   len(ds.Blocks),
			TotalSeconds: ds.TotalSeconds,
			Completed:    slices.Contains(state.Totals.CompletedDays, day),
		}
		if ds.TotalWords > 0 {
			row.SecondsPerWord = float64(ds.TotalSeconds) / float64(ds.TotalWords)
		}
		rows = append(rows, row)
	}
	return rows
}

func lastRuns(runs []model.BlockRun, window int) []model.BlockRun {
	if window <= 0 || len(runs) <= window {
		return runs
	}
	return runs[len(runs)-window:]
}

package stats

import (
	"sort"

	"github.com/verte-zerg/tuilees/internal/progress"
)

// WordPace is a word's mean reading time over every block it was timed in.
type WordPace struct {
	Word    string
	AvgMs   float64
	Samples int
}

// SlowestWords returns the n words with the highest mean reading time.
func SlowestWords(days map[int]progress.DayStat, n int) []WordPace {
	if n <= 0 || len(days) == 0 {
		return nil
	}
	type acc struct {
		sum   int64
		count int
	}
	totals := map[string]*acc{}
	for _, ds := range days {
		for _, b := range ds.Blocks {
			for _, wt := range b.WordDurations {
				a, ok := totals[wt.Word]
				if !ok {
					a = &acc{}
					totals[wt.Word] = a
				}
				a.sum += wt.Ms
				a.count++
			}
		}
	}
	items := make([]WordPace, 0, len(totals))
	for w, a := range totals {
		items = append(items, WordPace{Word: w, AvgMs: float64(a.sum) / float64(a.count), Samples: a.count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AvgMs == items[j].AvgMs {
			return items[i].Word < items[j].Word
		}
		return items[i].AvgMs > items[j].AvgMs
	})
	if n < len(items) {
		items = items[:n]
	}
	return items
}

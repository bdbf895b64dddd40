package stats

import (
	"sort"

	"github.com/verte-zerg/tuilees/internal/progress"
)

// WordCount is how often a word was marked difficult.
type WordCount struct {
	Word  string
	Count int
}

// TopDifficultWords returns the n words most often marked difficult.
func TopDifficultWords(days map[int]progress.DayStat, n int) []WordCount {
	if n <= 0 || len(days) == 0 {
		return nil
	}
	counts := map[string]int{}
	for _, ds := range days {
		for _, b := range ds.Blocks {
			for _, w := range b.DifficultWords {
				counts[w]++
			}
		}
	}
	items := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		items = append(items, WordCount{Word: w, Count: c})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Word < items[j].Word
		}
		return items[i].Count > items[j].Count
	})
	if n < len(items) {
		items = items[:n]
	}
	return items
}

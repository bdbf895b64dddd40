package stats

import (
	"testing"

	"github.com/verte-zerg/tuilees/internal/progress"
)

func wordDays() map[int]progress.DayStat {
	var first, second progress.WordTimings
	first.Set("boom", 1200)
	first.Set("kat", 400)
	second.Set("boom", 1800)
	second.Set("vis", 900)
	return map[int]progress.DayStat{
		0: {Blocks: []progress.BlockStat{
			{BlockNumber: 1, DifficultWords: []string{"boom", "vis"}, WordDurations: first},
			{BlockNumber: 2, DifficultWords: []string{"boom"}},
		}},
		1: {Blocks: []progress.BlockStat{
			{BlockNumber: 1, DifficultWords: []string{"aap"}, WordDurations: second},
		}},
	}
}

func TestTopDifficultWords(t *testing.T) {
	top := TopDifficultWords(wordDays(), 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 words, got %d", len(top))
	}
	if top[0] != (WordCount{Word: "boom", Count: 2}) || top[1] != (WordCount{Word: "aap", Count: 1}) {
		t.Fatalf("unexpected order: %v", top)
	}
	if TopDifficultWords(wordDays(), 0) != nil {
		t.Fatalf("expected nil for n=0")
	}
}

func TestSlowestWords(t *testing.T) {
	slow := SlowestWords(wordDays(), 5)
	if len(slow) != 3 {
		t.Fatalf("expected 3 words, got %d", len(slow))
	}
	if slow[0].Word != "boom" || slow[0].AvgMs != 1500 || slow[0].Samples != 2 {
		t.Fatalf("unexpected slowest word: %+v", slow[0])
	}
	if slow[1].Word != "vis" || slow[2].Word != "kat" {
		t.Fatalf("unexpected order: %v", slow)
	}
}

package curriculum

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const padWord = "leeg"

// Issue describes one deviation from the standard shape. Numbers are 1-based.
type Issue struct {
	Day   int
	Block int
	Row   int
	Got   int
	Want  int
}

func (i Issue) String() string {
	switch {
	case i.Row > 0:
		return fmt.Sprintf("Dag %d Blok %d Rij %d: %d words, want %d", i.Day, i.Block, i.Row, i.Got, i.Want)
	case i.Block > 0:
		return fmt.Sprintf("Dag %d Blok %d: %d rows, want %d", i.Day, i.Block, i.Got, i.Want)
	default:
		return fmt.Sprintf("Dag %d: %d blocks, want %d", i.Day, i.Got, i.Want)
	}
}

// Validate reports every day, block and row that deviates from the standard shape.
func (c *Curriculum) Validate() []Issue {
	var issues []Issue
	for di, d := range c.Days {
		if len(d.Blocks) != BlocksPerDay {
			issues = append(issues, Issue{Day: di + 1, Got: len(d.Blocks), Want: BlocksPerDay})
		}
		for bi, b := range d.Blocks {
			if len(b.Rows) != RowsPerBlock {
				issues = append(issues, Issue{Day: di + 1, Block: bi + 1, Got: len(b.Rows), Want: RowsPerBlock})
			}
			for ri, r := range b.Rows {
				if len(r.Words) != WordsPerRow {
					issues = append(issues, Issue{Day: di + 1, Block: bi + 1, Row: ri + 1, Got: len(r.Words), Want: WordsPerRow})
				}
			}
		}
	}
	return issues
}

// Normalize trims or pads every day to the standard shape and renumbers
// blocks and rows. Missing words are filled by cycling the day's own words,
// then the whole curriculum's words.
func (c *Curriculum) Normalize() {
	var global []string
	for _, d := range c.Days {
		global = append(global, dayWords(d)...)
	}
	for i := range c.Days {
		normalizeDay(&c.Days[i], global)
	}
}

func normalizeDay(d *Day, global []string) {
	pool := dayWords(*d)
	if len(pool) == 0 {
		pool = global
	}
	next := 0
	nextWord := func() string {
		if len(pool) == 0 {
			return padWord
		}
		w := pool[next%len(pool)]
		next++
		return w
	}

	if len(d.Blocks) > BlocksPerDay {
		d.Blocks = d.Blocks[:BlocksPerDay]
	}
	for len(d.Blocks) < BlocksPerDay {
		d.Blocks = append(d.Blocks, Block{})
	}
	for bi := range d.Blocks {
		b := &d.Blocks[bi]
		b.Number = bi + 1
		if len(b.Rows) > RowsPerBlock {
			b.Rows = b.Rows[:RowsPerBlock]
		}
		for len(b.Rows) < RowsPerBlock {
			b.Rows = append(b.Rows, Row{})
		}
		for ri := range b.Rows {
			r := &b.Rows[ri]
			r.Number = ri + 1
			if len(r.Words) > WordsPerRow {
				r.Words = r.Words[:WordsPerRow]
			}
			for len(r.Words) < WordsPerRow {
				r.Words = append(r.Words, nextWord())
			}
		}
	}
}

func dayWords(d Day) []string {
	var words []string
	for _, b := range d.Blocks {
		for _, r := range b.Rows {
			words = append(words, r.Words...)
		}
	}
	return words
}

// Write stores the curriculum at path as indented JSON, replacing the file atomically.
func (c *Curriculum) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create content dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "content-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp content: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode content: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush content: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close content: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

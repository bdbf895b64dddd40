// Package curriculum loads and inspects the reading curriculum.
package curriculum

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Standard curriculum shape. Aggregate statistics assume it.
const (
	BlocksPerDay  = 10
	RowsPerBlock  = 4
	WordsPerRow   = 5
	WordsPerBlock = RowsPerBlock * WordsPerRow
	WordsPerDay   = BlocksPerDay * WordsPerBlock
)

// ErrContentUnavailable reports that the curriculum could not be loaded.
var ErrContentUnavailable = errors.New("curriculum unavailable")

// Shape holds the cardinalities of one curriculum level below a day.
type Shape struct {
	Blocks int
	Rows   int
	Words  int
}

// StandardShape returns the fixed 10 blocks × 4 rows × 5 words shape.
func StandardShape() Shape {
	return Shape{Blocks: BlocksPerDay, Rows: RowsPerBlock, Words: WordsPerRow}
}

// Curriculum is the ordered list of reading days.
type Curriculum struct {
	Days []Day `json:"dagen"`
}

// Day is one day of reading.
type Day struct {
	Number int     `json:"dag"`
	Blocks []Block `json:"blokken"`
}

// Block is a group of rows read in one go.
type Block struct {
	Number int   `json:"blok"`
	Rows   []Row `json:"rijtjes"`
}

// Row is a line of words.
type Row struct {
	Number int      `json:"rijtje"`
	Words  []string `json:"woorden"`
}

// Load reads the curriculum file at path.
func Load(path string) (*Curriculum, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentUnavailable, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only content.
			_ = cerr
		}
	}()
	return Decode(file)
}

// Decode parses a curriculum from r. An empty curriculum is an error.
func Decode(r io.Reader) (*Curriculum, error) {
	var c Curriculum
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: failed to decode content: %v", ErrContentUnavailable, err)
	}
	if len(c.Days) == 0 {
		return nil, fmt.Errorf("%w: content has no days", ErrContentUnavailable)
	}
	return &c, nil
}

// DayCount returns the number of days.
func (c *Curriculum) DayCount() int {
	return len(c.Days)
}

// BlockCount returns the number of blocks in a day, 0 when out of range.
func (c *Curriculum) BlockCount(day int) int {
	d, ok := c.day(day)
	if !ok {
		return 0
	}
	return len(d.Blocks)
}

// RowCount returns the number of rows in a block, 0 when out of range.
func (c *Curriculum) RowCount(day, block int) int {
	b, ok := c.block(day, block)
	if !ok {
		return 0
	}
	return len(b.Rows)
}

// RowLen returns the number of words in a row, 0 when out of range.
func (c *Curriculum) RowLen(day, block, row int) int {
	b, ok := c.block(day, block)
	if !ok || row < 0 || row >= len(b.Rows) {
		return 0
	}
	return len(b.Rows[row].Words)
}

// Word returns the word text at the given position.
func (c *Curriculum) Word(day, block, row, word int) (string, bool) {
	b, ok := c.block(day, block)
	if !ok || row < 0 || row >= len(b.Rows) {
		return "", false
	}
	words := b.Rows[row].Words
	if word < 0 || word >= len(words) {
		return "", false
	}
	return words[word], true
}

// BlockWords returns every word of a block in reading order.
func (c *Curriculum) BlockWords(day, block int) []string {
	b, ok := c.block(day, block)
	if !ok {
		return nil
	}
	var out []string
	for _, r := range b.Rows {
		out = append(out, r.Words...)
	}
	return out
}

// BlockWordCount returns the number of words in a block.
func (c *Curriculum) BlockWordCount(day, block int) int {
	b, ok := c.block(day, block)
	if !ok {
		return 0
	}
	total := 0
	for _, r := range b.Rows {
		total += len(r.Words)
	}
	return total
}

// DayWordCount returns the number of words in a day.
func (c *Curriculum) DayWordCount(day int) int {
	total := 0
	for b := 0; b < c.BlockCount(day); b++ {
		total += c.BlockWordCount(day, b)
	}
	return total
}

// TotalWordCount returns the number of words in the whole curriculum.
func (c *Curriculum) TotalWordCount() int {
	total := 0
	for d := range c.Days {
		total += c.DayWordCount(d)
	}
	return total
}

// WordNumber returns the 1-based position of a word inside its block.
func (c *Curriculum) WordNumber(day, block, row, word int) int {
	b, ok := c.block(day, block)
	if !ok {
		return 0
	}
	n := 0
	for r := 0; r < row && r < len(b.Rows); r++ {
		n += len(b.Rows[r].Words)
	}
	return n + word + 1
}

func (c *Curriculum) day(day int) (*Day, bool) {
	if c == nil || day < 0 || day >= len(c.Days) {
		return nil, false
	}
	return &c.Days[day], true
}

func (c *Curriculum) block(day, block int) (*Block, bool) {
	d, ok := c.day(day)
	if !ok || block < 0 || block >= len(d.Blocks) {
		return nil, false
	}
	return &d.Blocks[block], true
}

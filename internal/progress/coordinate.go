// Package progress tracks a learner's reading position, read words and statistics.
package progress

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinate addresses one word: day, block, row and word index, all zero-based.
type Coordinate struct {
	Day   int
	Block int
	Row   int
	Word  int
}

// Key encodes the coordinate as "day-block-row-word".
func (c Coordinate) Key() string {
	return fmt.Sprintf("%d-%d-%d-%d", c.Day, c.Block, c.Row, c.Word)
}

// ParseKey decodes a "day-block-row-word" key.
func ParseKey(key string) (Coordinate, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 4 {
		return Coordinate{}, fmt.Errorf("invalid read marker %q", key)
	}
	var vals [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return Coordinate{}, fmt.Errorf("invalid read marker %q", key)
		}
		vals[i] = v
	}
	return Coordinate{Day: vals[0], Block: vals[1], Row: vals[2], Word: vals[3]}, nil
}

package progress

import "github.com/verte-zerg/tuilees/internal/curriculum"

// CompletionSet holds the read markers in insertion order.
type CompletionSet struct {
	keys  []string
	index map[string]struct{}
}

// NewCompletionSet builds a set from encoded keys, dropping duplicates.
func NewCompletionSet(keys ...string) *CompletionSet {
	s := &CompletionSet{
		keys:  make([]string, 0, len(keys)),
		index: make(map[string]struct{}, len(keys)),
	}
	for _, k := range keys {
		s.add(k)
	}
	return s
}

// MarkRead records c as read. It reports whether c was new.
func (s *CompletionSet) MarkRead(c Coordinate) bool {
	return s.add(c.Key())
}

func (s *CompletionSet) add(key string) bool {
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.keys = append(s.keys, key)
	return true
}

// IsRead reports whether c was marked read.
func (s *CompletionSet) IsRead(c Coordinate) bool {
	_, ok := s.index[c.Key()]
	return ok
}

// Len returns the number of read markers.
func (s *CompletionSet) Len() int {
	return len(s.keys)
}

// Keys returns the encoded markers in insertion order.
func (s *CompletionSet) Keys() []string {
	return append(make([]string, 0, len(s.keys)), s.keys...)
}

// CountInBlock counts read words of a block over the standard rows × words grid.
func (s *CompletionSet) CountInBlock(day, block int) int {
	shape := curriculum.StandardShape()
	count := 0
	for r := 0; r < shape.Rows; r++ {
		for w := 0; w < shape.Words; w++ {
			if s.IsRead(Coordinate{Day: day, Block: block, Row: r, Word: w}) {
				count++
			}
		}
	}
	return count
}

// CountInDay sums CountInBlock over the standard number of blocks.
func (s *CompletionSet) CountInDay(day int) int {
	count := 0
	for b := 0; b < curriculum.BlocksPerDay; b++ {
		count += s.CountInBlock(day, b)
	}
	return count
}

package progress

import "errors"

var (
	// ErrOutOfRange reports a position outside the curriculum.
	ErrOutOfRange = errors.New("position out of range")
	// ErrBlockIncomplete reports a block move before the block was finished.
	ErrBlockIncomplete = errors.New("block not complete")
	// ErrDayIncomplete reports a day move before the day was completed.
	ErrDayIncomplete = errors.New("day not complete")
)

// Step is the outcome of a tracker move.
type Step int

const (
	StepNone Step = iota
	// StepWord moved to the next word in the row.
	StepWord
	// StepRow moved to the first word of the next row.
	StepRow
	// StepBlockComplete means the block's last word was read. The position stays.
	StepBlockComplete
	// StepBlock moved to the first word of the next block.
	StepBlock
	// StepDayComplete means the day's last block was finished. The position stays.
	StepDayComplete
	// StepDay moved to the first word of the next day.
	StepDay
)

// Bounds exposes the curriculum shape at a point.
type Bounds interface {
	DayCount() int
	BlockCount(day int) int
	RowCount(day, block int) int
	RowLen(day, block, row int) int
}

// Tracker moves the position through the curriculum. Blocks and days are
// strictly sequential: leaving a block needs an explicit NextBlock after the
// block was finished, and Previous never crosses a block boundary.
type Tracker struct {
	state  *State
	bounds Bounds
	// finished is the block whose last word was read, if any.
	finished *Coordinate
}

// NewTracker returns a tracker over state within bounds.
func NewTracker(state *State, bounds Bounds) *Tracker {
	return &Tracker{state: state, bounds: bounds}
}

// Position returns the current coordinate.
func (t *Tracker) Position() Coordinate {
	return t.state.Position
}

// SetPosition overwrites the position without bounds checks.
func (t *Tracker) SetPosition(day, block, row, word int) {
	t.state.SetPosition(day, block, row, word)
	t.finished = nil
}

// Advance moves one word forward inside the block.
func (t *Tracker) Advance() (Step, error) {
	p := t.state.Position
	rowLen := t.bounds.RowLen(p.Day, p.Block, p.Row)
	if p.Word < 0 || p.Word >= rowLen {
		return StepNone, ErrOutOfRange
	}
	if p.Word+1 < rowLen {
		t.state.Position.Word++
		return StepWord, nil
	}
	if p.Row+1 < t.bounds.RowCount(p.Day, p.Block) {
		t.state.Position.Row++
		t.state.Position.Word = 0
		return StepRow, nil
	}
	done := Coordinate{Day: p.Day, Block: p.Block}
	t.finished = &done
	return StepBlockComplete, nil
}

// Previous moves one word back inside the block. It reports whether it moved.
func (t *Tracker) Previous() bool {
	p := t.state.Position
	switch {
	case p.Word > 0:
		t.state.Position.Word--
	case p.Row > 0:
		t.state.Position.Row--
		last := t.bounds.RowLen(p.Day, p.Block, p.Row-1) - 1
		if last < 0 {
			last = 0
		}
		t.state.Position.Word = last
	default:
		return false
	}
	t.finished = nil
	return true
}

// BlockFinished reports whether the current block may be left.
func (t *Tracker) BlockFinished() bool {
	p := t.state.Position
	if t.finished != nil && t.finished.Day == p.Day && t.finished.Block == p.Block {
		return true
	}
	return t.allRead(p.Day, p.Block)
}

func (t *Tracker) allRead(day, block int) bool {
	rows := t.bounds.RowCount(day, block)
	if rows == 0 {
		return false
	}
	for r := 0; r < rows; r++ {
		for w := 0; w < t.bounds.RowLen(day, block, r); w++ {
			if !t.state.Read.IsRead(Coordinate{Day: day, Block: block, Row: r, Word: w}) {
				return false
			}
		}
	}
	return true
}

// NextBlock leaves a finished block. It returns StepBlock after moving to the
// next block, or StepDayComplete when the day has no more blocks.
func (t *Tracker) NextBlock() (Step, error) {
	if !t.BlockFinished() {
		return StepNone, ErrBlockIncomplete
	}
	p := t.state.Position
	if p.Block+1 >= t.bounds.BlockCount(p.Day) {
		return StepDayComplete, nil
	}
	t.SetPosition(p.Day, p.Block+1, 0, 0)
	return StepBlock, nil
}

// NextDay moves to the next day once the current day is complete.
// It returns StepNone at the end of the curriculum.
func (t *Tracker) NextDay() (Step, error) {
	p := t.state.Position
	if !t.state.IsDayComplete(p.Day) {
		return StepNone, ErrDayIncomplete
	}
	if p.Day+1 >= t.bounds.DayCount() {
		return StepNone, nil
	}
	t.SetPosition(p.Day+1, 0, 0, 0)
	return StepDay, nil
}

// ResumeDay moves to the first unread word of day, or to its start when
// everything was read.
func (t *Tracker) ResumeDay(day int) {
	for b := 0; b < t.bounds.BlockCount(day); b++ {
		for r := 0; r < t.bounds.RowCount(day, b); r++ {
			for w := 0; w < t.bounds.RowLen(day, b, r); w++ {
				if !t.state.Read.IsRead(Coordinate{Day: day, Block: b, Row: r, Word: w}) {
					t.SetPosition(day, b, r, w)
					return
				}
			}
		}
	}
	t.SetPosition(day, 0, 0, 0)
}

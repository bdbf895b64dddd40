package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuilees/internal/curriculum"
	"github.com/verte-zerg/tuilees/internal/model"
	"github.com/verte-zerg/tuilees/internal/pacing"
)

// History receives a record of every finished block.
type History interface {
	InsertBlockRun(ctx context.Context, run model.BlockRun) error
	ClearBlockRuns(ctx context.Context) error
}

// Session applies learner actions to the state and writes every change
// through to the backend before returning.
type Session struct {
	state   *State
	tracker *Tracker
	content *curriculum.Curriculum
	backend Backend
	history History
	logger  *slog.Logger
}

// NewSession binds state to content and storage. history may be nil.
func NewSession(state *State, content *curriculum.Curriculum, backend Backend, history History, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		state:   state,
		tracker: NewTracker(state, content),
		content: content,
		backend: backend,
		history: history,
		logger:  logger,
	}
}

// State returns the live state. Callers must not mutate it.
func (s *Session) State() *State { return s.state }

// Content returns the curriculum.
func (s *Session) Content() *curriculum.Curriculum { return s.content }

// Position returns the current coordinate.
func (s *Session) Position() Coordinate { return s.state.Position }

// CurrentWord returns the word at the current position.
func (s *Session) CurrentWord() (string, bool) {
	p := s.state.Position
	return s.content.Word(p.Day, p.Block, p.Row, p.Word)
}

// BlockFinished reports whether NextBlock is allowed.
func (s *Session) BlockFinished() bool { return s.tracker.BlockFinished() }

// SetMode stores the timer mode.
func (s *Session) SetMode(ctx context.Context, mode pacing.Mode) error {
	s.state.Mode = mode
	return s.save(ctx)
}

// SelectDay positions on the first unread word of day.
func (s *Session) SelectDay(ctx context.Context, day int) error {
	if day < 0 || day >= s.content.DayCount() {
		return fmt.Errorf("day %d: %w", day+1, ErrOutOfRange)
	}
	s.tracker.ResumeDay(day)
	return s.save(ctx)
}

// Advance marks the current word read and moves to the next one.
func (s *Session) Advance(ctx context.Context) (Step, error) {
	p := s.state.Position
	if _, ok := s.content.Word(p.Day, p.Block, p.Row, p.Word); !ok {
		return StepNone, ErrOutOfRange
	}
	s.state.Read.MarkRead(p)
	step, err := s.tracker.Advance()
	if err != nil {
		return StepNone, err
	}
	return step, s.save(ctx)
}

// Previous moves one word back inside the block.
func (s *Session) Previous(ctx context.Context) (bool, error) {
	if !s.tracker.Previous() {
		return false, nil
	}
	return true, s.save(ctx)
}

// FinishBlock records the statistic of the current block and returns its summary.
func (s *Session) FinishBlock(ctx context.Context, stat BlockStat, startedAt, endedAt time.Time) (BlockSummary, error) {
	p := s.state.Position
	if !s.tracker.BlockFinished() {
		return BlockSummary{}, ErrBlockIncomplete
	}
	stat.BlockNumber = p.Block + 1
	s.state.RecordBlock(p.Day, stat)
	if err := s.save(ctx); err != nil {
		return BlockSummary{}, err
	}
	if s.history != nil {
		run := model.BlockRun{
			ID:             uuid.NewString(),
			StartedAt:      startedAt,
			EndedAt:        endedAt,
			Day:            p.Day,
			Block:          p.Block,
			Mode:           string(s.state.Mode),
			ElapsedSeconds: stat.ElapsedSeconds,
			Words:          s.content.BlockWordCount(p.Day, p.Block),
			ReplayCount:    stat.ReplayCount,
			DifficultCount: len(stat.DifficultWords),
		}
		if err := s.history.InsertBlockRun(ctx, run); err != nil {
			s.logger.Warn("failed to record block run", "day", p.Day, "block", p.Block, "err", err)
		}
	}
	elsewhere := s.state.Read.CountInDay(p.Day) - s.state.Read.CountInBlock(p.Day, p.Block)
	return Summarize(stat, p.Block, s.content.BlockWordCount(p.Day, p.Block), elsewhere), nil
}

// NextBlock leaves the finished block. StepDayComplete means the day has no more blocks.
func (s *Session) NextBlock(ctx context.Context) (Step, error) {
	step, err := s.tracker.NextBlock()
	if err != nil || step != StepBlock {
		return step, err
	}
	return step, s.save(ctx)
}

// CompleteDay marks the current day complete and returns its celebration.
// The position must be on the day's finished last block.
func (s *Session) CompleteDay(ctx context.Context) (DayCelebration, error) {
	p := s.state.Position
	day := p.Day
	if p.Block+1 < s.content.BlockCount(day) || !s.tracker.BlockFinished() {
		return DayCelebration{}, ErrBlockIncomplete
	}
	if s.state.CompleteDay(day) {
		if err := s.save(ctx); err != nil {
			return DayCelebration{}, err
		}
	}
	return Celebrate(day, s.content.DayCount()), nil
}

// NextDay moves to the next day. StepNone means the curriculum is finished.
func (s *Session) NextDay(ctx context.Context) (Step, error) {
	step, err := s.tracker.NextDay()
	if err != nil || step != StepDay {
		return step, err
	}
	return step, s.save(ctx)
}

// Reset clears all progress, history included.
func (s *Session) Reset(ctx context.Context) error {
	fresh, err := Reset(ctx, s.backend)
	if err != nil {
		return err
	}
	*s.state = *fresh
	s.tracker = NewTracker(s.state, s.content)
	if s.history != nil {
		if err := s.history.ClearBlockRuns(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
	}
	s.logger.Info("progress reset")
	return nil
}

func (s *Session) save(ctx context.Context) error {
	if err := Save(ctx, s.backend, s.state); err != nil {
		s.logger.Error("failed to persist progress", "err", err)
		return err
	}
	return nil
}

package progress

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/verte-zerg/tuilees/internal/pacing"
)

// snapshot is the persisted form of State.
type snapshot struct {
	CurrentDay      int             `json:"currentDay"`
	CurrentBlock    int             `json:"currentBlock"`
	CurrentRow      int             `json:"currentRow"`
	CurrentWord     int             `json:"currentWord"`
	Mode            string          `json:"mode"`
	DayStatistics   map[int]DayStat `json:"dayStatistics"`
	TotalStatistics TotalStats      `json:"totalStatistics"`
	ReadMarkers     []string        `json:"readMarkers"`
}

// snapshotV0 stored completedDays as a count of days.
type snapshotV0 struct {
	snapshot
	TotalStatistics struct {
		TotalWords    int     `json:"totalWords"`
		CompletedDays int     `json:"completedDays"`
		AverageSpeed  float64 `json:"averageSpeed"`
	} `json:"totalStatistics"`
}

type legacyDecoder struct {
	name   string
	decode func([]byte) (snapshot, error)
}

var legacyDecoders = []legacyDecoder{
	{name: "v0 completed-day count", decode: decodeV0},
}

// Encode serializes the state to its snapshot form.
func Encode(s *State) ([]byte, error) {
	snap := snapshot{
		CurrentDay:      s.Position.Day,
		CurrentBlock:    s.Position.Block,
		CurrentRow:      s.Position.Row,
		CurrentWord:     s.Position.Word,
		Mode:            string(s.Mode),
		DayStatistics:   s.Days,
		TotalStatistics: s.Totals,
		ReadMarkers:     s.Read.Keys(),
	}
	if snap.TotalStatistics.CompletedDays == nil {
		snap.TotalStatistics.CompletedDays = []int{}
	}
	return json.Marshal(snap)
}

// Decode parses a snapshot, falling back to the known legacy shapes in order.
func Decode(data []byte) (*State, error) {
	var snap snapshot
	err := strictUnmarshal(data, &snap)
	if err == nil {
		return fromSnapshot(snap), nil
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	errs := []error{fmt.Errorf("current: %w", err)}
	for _, ld := range legacyDecoders {
		snap, lerr := ld.decode(data)
		if lerr == nil {
			return fromSnapshot(snap), nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", ld.name, lerr))
	}
	return nil, fmt.Errorf("failed to decode snapshot: %w", errors.Join(errs...))
}

func decodeV0(data []byte) (snapshot, error) {
	var old snapshotV0
	if err := strictUnmarshal(data, &old); err != nil {
		return snapshot{}, err
	}
	if old.TotalStatistics.CompletedDays < 0 {
		return snapshot{}, fmt.Errorf("negative completed-day count %d", old.TotalStatistics.CompletedDays)
	}
	snap := old.snapshot
	days := make([]int, 0, old.TotalStatistics.CompletedDays)
	for i := 0; i < old.TotalStatistics.CompletedDays; i++ {
		days = append(days, i)
	}
	snap.TotalStatistics = TotalStats{
		TotalWords:    old.TotalStatistics.TotalWords,
		CompletedDays: days,
		AverageSpeed:  old.TotalStatistics.AverageSpeed,
	}
	return snap, nil
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after snapshot")
	}
	return nil
}

func fromSnapshot(snap snapshot) *State {
	s := NewState()
	s.SetPosition(snap.CurrentDay, snap.CurrentBlock, snap.CurrentRow, snap.CurrentWord)
	if mode, ok := pacing.ParseMode(snap.Mode); ok {
		s.Mode = mode
	}
	for day, ds := range snap.DayStatistics {
		s.Days[day] = ds
	}
	s.Totals = snap.TotalStatistics
	if s.Totals.CompletedDays == nil {
		s.Totals.CompletedDays = []int{}
	}
	s.Read = NewCompletionSet(snap.ReadMarkers...)
	return s
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuilees/internal/curriculum"
	"github.com/verte-zerg/tuilees/internal/model"
	"github.com/verte-zerg/tuilees/internal/pacing"
	"github.com/verte-zerg/tuilees/internal/progress"
	"github.com/verte-zerg/tuilees/internal/speech"
	"github.com/verte-zerg/tuilees/internal/store"
)

type spoken struct {
	text string
	rate float64
}

type fakeSpeaker struct {
	available bool
	said      []spoken
	stops     int
}

func (f *fakeSpeaker) Speak(text string, rate float64) error {
	if !f.available {
		return speech.ErrUnavailable
	}
	f.said = append(f.said, spoken{text: text, rate: rate})
	return nil
}

func (f *fakeSpeaker) Stop()                       { f.stops++ }
func (f *fakeSpeaker) Available() bool             { return f.available }
func (f *fakeSpeaker) Events() <-chan speech.Event { return nil }

func testContent(days int) *curriculum.Curriculum {
	c := &curriculum.Curriculum{}
	for d := 0; d < days; d++ {
		day := curriculum.Day{Number: d + 1}
		for b := 0; b < curriculum.BlocksPerDay; b++ {
			block := curriculum.Block{Number: b + 1}
			for r := 0; r < curriculum.RowsPerBlock; r++ {
				row := curriculum.Row{Number: r + 1}
				for w := 0; w < curriculum.WordsPerRow; w++ {
					row.Words = append(row.Words, fmt.Sprintf("w%d-%d-%d-%d", d, b, r, w))
				}
				block.Rows = append(block.Rows, row)
			}
			day.Blocks = append(day.Blocks, block)
		}
		c.Days = append(c.Days, day)
	}
	return c
}

type testEnv struct {
	store   *store.Memory
	speaker *fakeSpeaker
	copied  string
}

func newTestModel(t *testing.T) (*Model, *testEnv, *curriculum.Curriculum) {
	t.Helper()
	return newTestModelWithState(t, progress.NewState(), testContent(2))
}

func newTestModelWithState(t *testing.T, state *progress.State, content *curriculum.Curriculum) (*Model, *testEnv, *curriculum.Curriculum) {
	t.Helper()
	env := &testEnv{store: store.NewMemory(), speaker: &fakeSpeaker{available: true}}
	m := NewModel(state, Options{
		Load:      func() (*curriculum.Curriculum, error) { return content, nil },
		Backend:   env.store,
		History:   env.store,
		Speaker:   env.speaker,
		Countdown: 60,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clipboard: func(s string) error {
			env.copied = s
			return nil
		},
	})
	m.Update(contentMsg{content: content})
	return m, env, content
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(m *Model, k string) tea.Cmd {
	_, cmd := m.Update(keyMsg(k))
	return cmd
}

func readWords(m *Model, n int) {
	for i := 0; i < n; i++ {
		press(m, " ")
	}
}

func TestContentLoadShowsSelector(t *testing.T) {
	m, _, _ := newTestModel(t)
	if m.view != viewSelector {
		t.Fatalf("expected selector, got %d", m.view)
	}
}

func TestContentErrorRetry(t *testing.T) {
	m := NewModel(progress.NewState(), Options{
		Load:   func() (*curriculum.Curriculum, error) { return nil, curriculum.ErrContentUnavailable },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	m.Update(contentMsg{err: curriculum.ErrContentUnavailable})
	if m.view != viewContentError {
		t.Fatalf("expected content error view, got %d", m.view)
	}
	if !strings.Contains(m.View(), "Could not load the word list.") {
		t.Fatalf("expected error message in view")
	}
	cmd := press(m, "r")
	if m.view != viewLoading {
		t.Fatalf("expected loading view after retry, got %d", m.view)
	}
	if cmd == nil {
		t.Fatalf("expected a load command")
	}
	msg, ok := cmd().(contentMsg)
	if !ok || !errors.Is(msg.err, curriculum.ErrContentUnavailable) {
		t.Fatalf("expected content error from loader, got %#v", msg)
	}
}

func TestReadBlockShowsSummary(t *testing.T) {
	m, env, _ := newTestModel(t)
	press(m, "enter")
	if m.view != viewReading {
		t.Fatalf("expected reading view, got %d", m.view)
	}
	if !m.timer.Running() {
		t.Fatalf("expected training timer to start on entry")
	}
	readWords(m, curriculum.WordsPerBlock)
	if m.view != viewSummary {
		t.Fatalf("expected summary view, got %d", m.view)
	}
	if m.timer.Running() {
		t.Fatalf("expected timer paused after block")
	}
	if m.summary.BlockNumber != 1 || m.summary.DayProgress.WordsRead != 20 {
		t.Fatalf("unexpected summary: %+v", m.summary)
	}
	if got := len(m.state.Days[0].Blocks); got != 1 {
		t.Fatalf("expected 1 recorded block, got %d", got)
	}
	runs, err := env.store.ListBlockRuns(context.Background(), model.StatsConfig{})
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected 1 block run, got %d (%v)", len(runs), err)
	}

	press(m, "enter")
	if m.view != viewReading {
		t.Fatalf("expected reading view for next block, got %d", m.view)
	}
	if p := m.state.Position; p.Block != 1 || p.Row != 0 || p.Word != 0 {
		t.Fatalf("expected start of block 2, got %+v", p)
	}
}

func TestPreviousStaysInBlock(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, "enter")
	press(m, "left")
	if p := m.state.Position; p.Word != 0 {
		t.Fatalf("expected to stay on first word, got %+v", p)
	}
	readWords(m, 2)
	press(m, "left")
	if p := m.state.Position; p.Word != 1 {
		t.Fatalf("expected word 1, got %+v", p)
	}
}

func TestFirstNextStartsCountdown(t *testing.T) {
	state := progress.NewState()
	state.Mode = pacing.ModeCountdown
	m, _, _ := newTestModelWithState(t, state, testContent(1))
	press(m, "enter")
	if m.timer.Started() {
		t.Fatalf("expected countdown to wait for the first word")
	}
	press(m, " ")
	if !m.timer.Running() {
		t.Fatalf("expected countdown to start on first next")
	}
}

func TestDayCelebrationAndNextDay(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, "enter")
	for b := 0; b < curriculum.BlocksPerDay; b++ {
		readWords(m, curriculum.WordsPerBlock)
		if m.view != viewSummary {
			t.Fatalf("block %d: expected summary, got %d", b+1, m.view)
		}
		press(m, "enter")
	}
	if m.view != viewCelebration {
		t.Fatalf("expected celebration, got %d", m.view)
	}
	if m.celebration.DayNumber != 1 || m.celebration.IsLastDay {
		t.Fatalf("unexpected celebration: %+v", m.celebration)
	}
	if !m.state.IsDayComplete(0) {
		t.Fatalf("expected day 1 complete")
	}
	press(m, "enter")
	if m.view != viewReading || m.state.Position.Day != 1 {
		t.Fatalf("expected reading day 2, got view %d at %+v", m.view, m.state.Position)
	}
}

func TestSpeakCountsReplays(t *testing.T) {
	m, env, _ := newTestModel(t)
	press(m, "enter")
	press(m, "s")
	press(m, "s")
	if m.replays != 2 || len(env.speaker.said) != 2 {
		t.Fatalf("expected 2 replays, got %d (%d spoken)", m.replays, len(env.speaker.said))
	}
	if got := env.speaker.said[0]; got.text != "w0-0-0-0" || got.rate != speech.RateWord {
		t.Fatalf("unexpected utterance %+v", got)
	}
}

func TestSpeechUnavailableNotice(t *testing.T) {
	m, env, _ := newTestModel(t)
	env.speaker.available = false
	press(m, "enter")
	press(m, "s")
	if m.notice != "Speech unavailable" {
		t.Fatalf("expected unavailable notice, got %q", m.notice)
	}
}

func TestDifficultShowsSyllables(t *testing.T) {
	content := testContent(1)
	content.Days[0].Blocks[0].Rows[0].Words[0] = "banaan"
	m, env, _ := newTestModelWithState(t, progress.NewState(), content)
	press(m, "enter")
	press(m, "d")
	press(m, "d")
	if !m.showSyllables {
		t.Fatalf("expected syllables shown")
	}
	if len(m.difficult) != 1 || m.difficult[0] != "banaan" {
		t.Fatalf("expected banaan once, got %v", m.difficult)
	}
	if got := env.speaker.said[0]; got.text != "ba naan" || got.rate != speech.RateSyllable {
		t.Fatalf("unexpected utterance %+v", got)
	}
	readWords(m, 1)
	if m.showSyllables {
		t.Fatalf("expected syllables hidden on the next word")
	}
}

func TestDifficultWordsRecordedInBlock(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, "enter")
	press(m, "d")
	readWords(m, curriculum.WordsPerBlock)
	got := m.state.Days[0].Blocks[0].DifficultWords
	if len(got) != 1 || got[0] != "w0-0-0-0" {
		t.Fatalf("expected one difficult word, got %v", got)
	}
}

func TestLetterMode(t *testing.T) {
	content := testContent(1)
	content.Days[0].Blocks[0].Rows[0].Words[0] = "schoen"
	m, env, _ := newTestModelWithState(t, progress.NewState(), content)
	press(m, "enter")
	press(m, "l")
	if !m.letterMode || len(m.spans) != 3 {
		t.Fatalf("expected letter mode with 3 sounds, got %v %d", m.letterMode, len(m.spans))
	}
	press(m, "right")
	press(m, "enter")
	if got := env.speaker.said[0]; got.text != "oe" || got.rate != speech.RateSound {
		t.Fatalf("unexpected utterance %+v", got)
	}
	if m.state.Position.Word != 0 {
		t.Fatalf("letter mode must not advance")
	}
	press(m, "esc")
	if m.letterMode || m.view != viewReading {
		t.Fatalf("expected to leave letter mode only")
	}
}

func TestModeSwitchAndCountdown(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, "enter")
	press(m, "m")
	if m.state.Mode != pacing.ModeCountdown || m.timer.Mode() != pacing.ModeCountdown {
		t.Fatalf("expected countdown mode")
	}
	press(m, "+")
	if m.timer.Initial() != 70 {
		t.Fatalf("expected 70s countdown, got %d", m.timer.Initial())
	}
	press(m, "-")
	press(m, "-")
	if m.timer.Initial() != 50 {
		t.Fatalf("expected 50s countdown, got %d", m.timer.Initial())
	}
	press(m, "m")
	if m.state.Mode != pacing.ModeTraining || !m.timer.Running() {
		t.Fatalf("expected running training timer")
	}
}

func TestPauseToggle(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, "enter")
	press(m, "p")
	if m.timer.Running() {
		t.Fatalf("expected paused timer")
	}
	if _, cmd := m.Update(tickMsg{seq: m.tickSeq}); cmd != nil {
		t.Fatalf("expected paused timer to stop ticking")
	}
	if m.timer.Value() != 0 {
		t.Fatalf("expected paused timer to ignore ticks")
	}
	if cmd := press(m, "p"); cmd == nil {
		t.Fatalf("expected resume to schedule a tick")
	}
	if _, cmd := m.Update(tickMsg{seq: m.tickSeq}); cmd == nil {
		t.Fatalf("expected running timer to keep ticking")
	}
	if m.timer.Value() != 1 {
		t.Fatalf("expected one second, got %d", m.timer.Value())
	}
}

func TestTickIgnoredOutsideReading(t *testing.T) {
	m, _, _ := newTestModel(t)
	if _, cmd := m.Update(tickMsg{seq: m.tickSeq}); cmd != nil {
		t.Fatalf("expected no tick in selector")
	}
	press(m, "enter")
	press(m, "esc")
	if m.view != viewSelector {
		t.Fatalf("expected selector, got %d", m.view)
	}
	if _, cmd := m.Update(tickMsg{seq: m.tickSeq}); cmd != nil {
		t.Fatalf("expected tick chain to end after leaving reading")
	}
	if m.timer.Value() != 0 {
		t.Fatalf("expected no time counted, got %d", m.timer.Value())
	}
}

func TestStaleTickDropped(t *testing.T) {
	m, _, _ := newTestModel(t)
	if cmd := press(m, "enter"); cmd == nil {
		t.Fatalf("expected training start to schedule a tick")
	}
	stale := m.tickSeq
	press(m, "p")
	press(m, "p")
	if _, cmd := m.Update(tickMsg{seq: stale}); cmd != nil {
		t.Fatalf("expected stale tick to be dropped")
	}
	if m.timer.Value() != 0 {
		t.Fatalf("expected stale tick not counted, got %d", m.timer.Value())
	}
	m.Update(tickMsg{seq: m.tickSeq})
	if m.timer.Value() != 1 {
		t.Fatalf("expected one second, got %d", m.timer.Value())
	}
}

func TestNextResumesPausedTimer(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, "enter")
	press(m, " ")
	press(m, "p")
	if m.timer.Running() {
		t.Fatalf("expected paused timer")
	}
	if cmd := press(m, " "); cmd == nil {
		t.Fatalf("expected resume to schedule a tick")
	}
	if !m.timer.Running() {
		t.Fatalf("expected next to resume the timer")
	}
}

func TestCopyWord(t *testing.T) {
	m, env, _ := newTestModel(t)
	press(m, "enter")
	press(m, "y")
	if env.copied != "w0-0-0-0" {
		t.Fatalf("expected current word copied, got %q", env.copied)
	}
}

func TestResetConfirm(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, "enter")
	readWords(m, 3)
	press(m, "esc")
	if m.view != viewSelector {
		t.Fatalf("expected selector, got %d", m.view)
	}
	press(m, "R")
	if m.view != viewResetConfirm {
		t.Fatalf("expected reset confirmation, got %d", m.view)
	}
	press(m, "n")
	if m.view != viewSelector || m.state.Read.Len() != 3 {
		t.Fatalf("expected cancel to keep progress")
	}
	press(m, "R")
	press(m, "y")
	if m.view != viewSelector || m.state.Read.Len() != 0 {
		t.Fatalf("expected progress cleared, read=%d", m.state.Read.Len())
	}
}

func TestSelectorResumesDay(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, "enter")
	readWords(m, 7)
	press(m, "esc")
	press(m, "enter")
	if p := m.state.Position; p.Row != 1 || p.Word != 2 {
		t.Fatalf("expected resume at row 2 word 3, got %+v", p)
	}
}

func TestSpeechEventsIgnoreSuperseded(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.onSpeech(speech.Event{ID: 1, Kind: speech.Started})
	m.onSpeech(speech.Event{ID: 2, Kind: speech.Started})
	m.onSpeech(speech.Event{ID: 1, Kind: speech.Finished})
	if !m.speaking {
		t.Fatalf("expected the newer utterance to keep speaking")
	}
	m.onSpeech(speech.Event{ID: 2, Kind: speech.Finished})
	if m.speaking {
		t.Fatalf("expected speaking to stop")
	}
}

func TestReadingViewRenders(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	press(m, "enter")
	out := m.View()
	if !containsAll(out, []string{"Block 1/10", "w0-0-0-0", "[training]"}) {
		t.Fatalf("reading view missing segments:\n%s", out)
	}
}

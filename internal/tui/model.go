// Package tui provides the Bubble Tea reading interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuilees/internal/curriculum"
	"github.com/verte-zerg/tuilees/internal/pacing"
	"github.com/verte-zerg/tuilees/internal/progress"
	"github.com/verte-zerg/tuilees/internal/speech"
	"github.com/verte-zerg/tuilees/internal/syllable"
)

type view int

const (
	viewLoading view = iota
	viewContentError
	viewSelector
	viewReading
	viewSummary
	viewCelebration
	viewResetConfirm
)

const countdownStep = 10

var (
	readStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true).Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warningStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	bigWordStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Padding(0, 2).
				Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	soundStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1E1E1E")).Background(lipgloss.Color("#C89A3A"))

	syllableStyles = map[syllable.Color]lipgloss.Style{
		syllable.Green: lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true),
		syllable.Red:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true),
		syllable.Gold:  lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true),
	}
)

// Loader reads the curriculum. It is called again on retry.
type Loader func() (*curriculum.Curriculum, error)

// Options wires the model to its collaborators.
type Options struct {
	Load      Loader
	Backend   progress.Backend
	History   progress.History
	Speaker   speech.Speaker
	Countdown int
	Logger    *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

type contentMsg struct {
	content *curriculum.Curriculum
	err     error
}

// tickMsg belongs to the timer run numbered seq; ticks from an earlier run
// are dropped.
type tickMsg struct {
	seq int
}

type speechMsg speech.Event

type soundSpan struct {
	start int
	size  int
	sound string
}

// Model implements the Bubble Tea reading UI.
type Model struct {
	ctx     context.Context
	opts    Options
	logger  *slog.Logger
	keys    keyMap
	help    help.Model
	state   *progress.State
	session *progress.Session

	view   view
	width  int
	height int

	loadErr error
	notice  string
	cursor  int

	timer      *pacing.Timer
	stopwatch  *pacing.Stopwatch
	blockStart time.Time
	replays    int
	difficult  []string
	tickSeq    int
	tickArmed  bool

	showSyllables bool
	letterMode    bool
	spans         []soundSpan
	spanIndex     int

	speakingID uint64
	speaking   bool

	summary     progress.BlockSummary
	celebration progress.DayCelebration
}

// NewModel constructs a reading TUI over the loaded progress state.
func NewModel(state *progress.State, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Speaker == nil {
		opts.Speaker = speech.Nop{}
	}
	return &Model{
		ctx:       context.Background(),
		opts:      opts,
		logger:    opts.Logger,
		keys:      defaultKeyMap(),
		help:      help.New(),
		state:     state,
		timer:     pacing.NewTimer(state.Mode, opts.Countdown),
		stopwatch: pacing.NewStopwatchWithClock(opts.Now),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadContent()}
	if m.opts.Speaker.Available() {
		cmds = append(cmds, listenSpeech(m.opts.Speaker.Events()))
	}
	return tea.Batch(cmds...)
}

func (m *Model) loadContent() tea.Cmd {
	load := m.opts.Load
	return func() tea.Msg {
		c, err := load()
		return contentMsg{content: c, err: err}
	}
}

func tick(seq int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}

// startTimer starts or resumes the timer as a new run so the next tick is
// scheduled a full second after this call.
func (m *Model) startTimer() {
	m.timer.Start()
	m.tickSeq++
	m.tickArmed = false
}

// armTick schedules the first tick of a run that has none in flight.
func (m *Model) armTick(cmd tea.Cmd) tea.Cmd {
	if !m.timer.Running() || m.tickArmed {
		return cmd
	}
	m.tickArmed = true
	if cmd == nil {
		return tick(m.tickSeq)
	}
	return tea.Batch(cmd, tick(m.tickSeq))
}

func listenSpeech(events <-chan speech.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return speechMsg(ev)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case contentMsg:
		m.onContent(msg)
		return m, nil
	case tickMsg:
		if msg.seq != m.tickSeq {
			return m, nil
		}
		if !m.timer.Running() {
			m.tickArmed = false
			return m, nil
		}
		m.timer.Tick()
		return m, tick(m.tickSeq)
	case speechMsg:
		m.onSpeech(speech.Event(msg))
		return m, listenSpeech(m.opts.Speaker.Events())
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, m.quit()
		}
		model, cmd := m.onKey(msg)
		return model, m.armTick(cmd)
	}
	return m, nil
}

func (m *Model) quit() tea.Cmd {
	m.opts.Speaker.Stop()
	return tea.Quit
}

func (m *Model) onContent(msg contentMsg) {
	if msg.err == nil && msg.content.DayCount() == 0 {
		msg.err = fmt.Errorf("%w: no days", curriculum.ErrContentUnavailable)
	}
	if msg.err != nil {
		m.logger.Error("failed to load curriculum", "err", msg.err)
		m.loadErr = msg.err
		m.view = viewContentError
		return
	}
	m.loadErr = nil
	m.session = progress.NewSession(m.state, msg.content, m.opts.Backend, m.opts.History, m.logger)
	m.cursor = min(m.state.Position.Day, msg.content.DayCount()-1)
	m.view = viewSelector
}

func (m *Model) onSpeech(ev speech.Event) {
	switch ev.Kind {
	case speech.Started:
		m.speakingID = ev.ID
		m.speaking = true
	case speech.Finished, speech.Failed:
		if ev.ID != m.speakingID {
			return
		}
		m.speaking = false
		if ev.Kind == speech.Failed {
			m.notice = "Speech failed"
		}
	}
}

func (m *Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view != viewResetConfirm && key.Matches(msg, m.keys.Quit) {
		return m, m.quit()
	}
	switch m.view {
	case viewContentError:
		if key.Matches(msg, m.keys.Retry) {
			m.view = viewLoading
			return m, m.loadContent()
		}
	case viewSelector:
		m.onSelectorKey(msg)
	case viewReading:
		if m.letterMode {
			m.onLetterKey(msg)
		} else {
			m.onReadingKey(msg)
		}
	case viewSummary:
		if key.Matches(msg, m.keys.Select) {
			m.leaveSummary()
		}
	case viewCelebration:
		switch {
		case key.Matches(msg, m.keys.Select):
			m.leaveCelebration()
		case key.Matches(msg, m.keys.Back):
			m.toSelector()
		}
	case viewResetConfirm:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			if err := m.session.Reset(m.ctx); err != nil {
				m.notice = "Reset failed: " + err.Error()
			} else {
				m.notice = "Progress cleared"
				m.cursor = 0
			}
			m.view = viewSelector
		case key.Matches(msg, m.keys.Cancel):
			m.view = viewSelector
		}
	}
	return m, nil
}

func (m *Model) onSelectorKey(msg tea.KeyMsg) {
	days := m.session.Content().DayCount()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, days-1)
	case key.Matches(msg, m.keys.Select):
		if err := m.session.SelectDay(m.ctx, m.cursor); err != nil && errors.Is(err, progress.ErrOutOfRange) {
			return
		}
		m.enterReading()
	case key.Matches(msg, m.keys.Reset):
		m.view = viewResetConfirm
	}
}

func (m *Model) onReadingKey(msg tea.KeyMsg) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Next):
		m.advance()
	case key.Matches(msg, m.keys.Prev):
		if moved, err := m.session.Previous(m.ctx); err != nil {
			m.notice = "Could not save progress"
		} else if moved {
			m.wordChanged()
		}
	case key.Matches(msg, m.keys.Speak):
		if word, ok := m.session.CurrentWord(); ok {
			m.replays++
			m.speak(word, speech.RateWord)
		}
	case key.Matches(msg, m.keys.Difficult):
		m.markDifficult()
	case key.Matches(msg, m.keys.Letters):
		m.enterLetterMode()
	case key.Matches(msg, m.keys.Mode):
		m.switchMode()
	case key.Matches(msg, m.keys.Pause):
		if m.timer.Running() {
			m.timer.Pause()
		} else {
			m.startTimer()
		}
	case key.Matches(msg, m.keys.Longer):
		m.timer.SetInitialDuration(m.timer.Initial() + countdownStep)
	case key.Matches(msg, m.keys.Shorter):
		m.timer.SetInitialDuration(max(m.timer.Initial()-countdownStep, countdownStep))
	case key.Matches(msg, m.keys.Copy):
		m.copyWord()
	case key.Matches(msg, m.keys.Back):
		m.toSelector()
	}
}

func (m *Model) onLetterKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.SoundLeft):
		m.spanIndex = max(m.spanIndex-1, 0)
	case key.Matches(msg, m.keys.SoundRight):
		m.spanIndex = min(m.spanIndex+1, len(m.spans)-1)
	case key.Matches(msg, m.keys.SoundSay):
		if m.spanIndex < len(m.spans) {
			m.speak(m.spans[m.spanIndex].sound, speech.RateSound)
		}
	case key.Matches(msg, m.keys.Letters), key.Matches(msg, m.keys.Back):
		m.letterMode = false
	}
}

func (m *Model) enterReading() {
	m.view = viewReading
	m.notice = ""
	m.timer.Reset()
	m.stopwatch.Reset()
	m.blockStart = m.opts.Now()
	m.replays = 0
	m.difficult = nil
	if m.timer.Mode() == pacing.ModeTraining {
		m.startTimer()
	}
	m.wordChanged()
}

func (m *Model) toSelector() {
	m.timer.Pause()
	m.opts.Speaker.Stop()
	m.letterMode = false
	m.cursor = m.session.Position().Day
	m.view = viewSelector
}

// wordChanged restarts per-word state after the position moved.
func (m *Model) wordChanged() {
	m.showSyllables = false
	m.letterMode = false
	m.stopwatch.Begin()
}

func (m *Model) advance() {
	word, ok := m.session.CurrentWord()
	if !ok {
		return
	}
	if !m.timer.Running() {
		m.startTimer()
	}
	m.stopwatch.End(word)
	step, err := m.session.Advance(m.ctx)
	if err != nil {
		if errors.Is(err, progress.ErrOutOfRange) {
			return
		}
		m.notice = "Could not save progress"
	}
	if step == progress.StepBlockComplete {
		m.finishBlock()
		return
	}
	m.wordChanged()
}

func (m *Model) finishBlock() {
	m.timer.Pause()
	m.opts.Speaker.Stop()
	stat := progress.BlockStat{
		ElapsedSeconds: m.timer.Elapsed(),
		ReplayCount:    m.replays,
		DifficultWords: append([]string{}, m.difficult...),
		WordDurations:  progress.WordTimings(m.stopwatch.Timings()),
	}
	summary, err := m.session.FinishBlock(m.ctx, stat, m.blockStart, m.opts.Now())
	if err != nil {
		m.logger.Error("failed to finish block", "err", err)
		m.notice = "Could not save the block"
		return
	}
	m.summary = summary
	m.view = viewSummary
}

func (m *Model) leaveSummary() {
	step, err := m.session.NextBlock(m.ctx)
	if err != nil && !errors.Is(err, progress.ErrBlockIncomplete) {
		m.notice = "Could not save progress"
	}
	switch step {
	case progress.StepBlock:
		m.enterReading()
	case progress.StepDayComplete:
		cel, err := m.session.CompleteDay(m.ctx)
		if err != nil {
			m.logger.Error("failed to complete day", "err", err)
			m.notice = "Could not save the day"
			return
		}
		m.celebration = cel
		m.view = viewCelebration
	}
}

func (m *Model) leaveCelebration() {
	step, err := m.session.NextDay(m.ctx)
	if err != nil {
		m.logger.Error("failed to move to the next day", "err", err)
	}
	if step == progress.StepDay {
		m.enterReading()
		return
	}
	m.toSelector()
}

func (m *Model) markDifficult() {
	word, ok := m.session.CurrentWord()
	if !ok {
		return
	}
	if !slices.Contains(m.difficult, word) {
		m.difficult = append(m.difficult, word)
	}
	m.showSyllables = true
	m.speak(strings.Join(syllable.Split(word), " "), speech.RateSyllable)
}

func (m *Model) enterLetterMode() {
	word, ok := m.session.CurrentWord()
	if !ok {
		return
	}
	m.spans = soundSpans(word)
	m.spanIndex = 0
	m.letterMode = len(m.spans) > 0
}

func soundSpans(word string) []soundSpan {
	n := len([]rune(word))
	var out []soundSpan
	for pos := 0; pos < n; {
		sound, size := syllable.SoundAt(word, pos)
		if size == 0 {
			break
		}
		out = append(out, soundSpan{start: pos, size: size, sound: sound})
		pos += size
	}
	return out
}

func (m *Model) switchMode() {
	next := pacing.ModeCountdown
	if m.timer.Mode() == pacing.ModeCountdown {
		next = pacing.ModeTraining
	}
	m.timer.SetMode(next)
	if err := m.session.SetMode(m.ctx, next); err != nil {
		m.notice = "Could not save progress"
	}
	if next == pacing.ModeTraining {
		m.startTimer()
	}
}

func (m *Model) copyWord() {
	word, ok := m.session.CurrentWord()
	if !ok {
		return
	}
	if err := m.opts.Clipboard(word); err != nil {
		m.logger.Warn("failed to copy word", "err", err)
		m.notice = "Clipboard unavailable"
		return
	}
	m.notice = "Copied " + word
}

func (m *Model) speak(text string, rate float64) {
	if err := m.opts.Speaker.Speak(text, rate); err != nil {
		if errors.Is(err, speech.ErrUnavailable) {
			m.notice = "Speech unavailable"
			return
		}
		m.logger.Warn("failed to speak", "text", text, "err", err)
		m.notice = "Speech failed"
	}
}

// Package speech reads words and sounds aloud through an external TTS command.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// Speaking rates relative to normal speech.
const (
	RateWord     = 0.7
	RateSyllable = 0.6
	RateSound    = 0.5
)

// BaseWPM is the words per minute of rate 1.0.
const BaseWPM = 175

// ErrUnavailable is returned by Speak when no TTS command can be run.
var ErrUnavailable = errors.New("speech unavailable")

// EventKind describes an utterance lifecycle step.
type EventKind int

const (
	Started EventKind = iota
	Finished
	Failed
)

func (k EventKind) String() string {
	switch k {
	case Started:
		return "started"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event reports progress of utterance ID.
type Event struct {
	ID   uint64
	Kind EventKind
	Text string
	Err  error
}

// Speaker speaks text. A new Speak interrupts the current utterance.
type Speaker interface {
	Speak(text string, rate float64) error
	Stop()
	Available() bool
	Events() <-chan Event
}

// WPM converts a relative rate to words per minute.
func WPM(rate float64) int {
	if rate <= 0 {
		rate = 1
	}
	return int(math.Round(BaseWPM * rate))
}

// DefaultCommand returns the TTS command line for the current platform.
// "{wpm}" is replaced by the speaking rate; the text is appended.
func DefaultCommand() string {
	if runtime.GOOS == "darwin" {
		return "say -r {wpm}"
	}
	return "espeak-ng -v nl -s {wpm}"
}

// Runner runs one utterance and blocks until it ends or ctx is cancelled.
type Runner func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Option configures an Exec speaker.
type Option func(*Exec)

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(e *Exec) { e.run = r }
}

// WithLookPath replaces the executable lookup.
func WithLookPath(f func(string) (string, error)) Option {
	return func(e *Exec) { e.lookPath = f }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exec) { e.logger = l }
}

// Exec speaks by running a command line such as "espeak-ng -v nl -s {wpm}".
type Exec struct {
	name     string
	args     []string
	run      Runner
	lookPath func(string) (string, error)
	logger   *slog.Logger
	events   chan Event

	mu        sync.Mutex
	cancel    context.CancelFunc
	seq       uint64
	available *bool
	wg        sync.WaitGroup
}

// NewExec builds a speaker for command. An empty command uses DefaultCommand.
func NewExec(command string, opts ...Option) *Exec {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand()
	}
	fields := strings.Fields(command)
	e := &Exec{
		name:     fields[0],
		args:     fields[1:],
		run:      runCommand,
		lookPath: exec.LookPath,
		logger:   slog.Default(),
		events:   make(chan Event, 32),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Available reports whether the command is installed. The lookup is done once.
func (e *Exec) Available() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.available == nil {
		_, err := e.lookPath(e.name)
		ok := err == nil
		e.available = &ok
		if !ok {
			e.logger.Info("speech command not found", "cmd", e.name, "err", err)
		}
	}
	return *e.available
}

// Events delivers utterance events. Events are dropped when nobody reads.
func (e *Exec) Events() <-chan Event {
	return e.events
}

// Speak starts saying text at rate and returns immediately.
func (e *Exec) Speak(text string, rate float64) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if !e.Available() {
		e.logger.Debug("speech skipped", "text", text)
		return ErrUnavailable
	}

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.seq++
	id := e.seq
	args := e.argsFor(text, rate)
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		defer cancel()
		if !e.begin(id, text) {
			return
		}
		err := e.run(ctx, e.name, args...)
		switch {
		case err == nil, ctx.Err() != nil:
			e.emit(Event{ID: id, Kind: Finished, Text: text})
		default:
			e.logger.Warn("speech command failed", "cmd", e.name, "err", err)
			e.emit(Event{ID: id, Kind: Failed, Text: text, Err: fmt.Errorf("failed to speak %q: %w", text, err)})
		}
	}()
	return nil
}

func (e *Exec) argsFor(text string, rate float64) []string {
	wpm := strconv.Itoa(WPM(rate))
	args := make([]string, 0, len(e.args)+1)
	for _, a := range e.args {
		args = append(args, strings.ReplaceAll(a, "{wpm}", wpm))
	}
	return append(args, text)
}

// begin reports Started for id unless a newer Speak has already replaced it.
func (e *Exec) begin(id uint64, text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id != e.seq {
		return false
	}
	e.emit(Event{ID: id, Kind: Started, Text: text})
	return true
}

func (e *Exec) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		e.logger.Debug("speech event dropped", "id", ev.ID, "kind", ev.Kind.String())
	}
}

// Stop interrupts the current utterance, if any.
func (e *Exec) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// Close stops speaking and waits for running commands to exit.
func (e *Exec) Close() {
	e.Stop()
	e.wg.Wait()
}

// Nop never speaks.
type Nop struct{}

func (Nop) Speak(string, float64) error { return ErrUnavailable }
func (Nop) Stop()                       {}
func (Nop) Available() bool             { return false }
func (Nop) Events() <-chan Event        { return nil }

package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu      sync.Mutex
	calls   [][]string
	release chan struct{}
	err     error
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) error {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()
	if f.release == nil {
		return f.err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.release:
		return f.err
	}
}

func (f *fakeRunner) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

func found(string) (string, error) { return "/usr/bin/tts", nil }

func next(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for speech event")
		return Event{}
	}
}

func TestWPM(t *testing.T) {
	assert.InDelta(t, 122.5, float64(WPM(RateWord)), 0.5)
	assert.Equal(t, 105, WPM(RateSyllable))
	assert.Equal(t, 88, WPM(RateSound))
	assert.Equal(t, BaseWPM, WPM(0))
}

func TestSpeakRunsCommand(t *testing.T) {
	runner := &fakeRunner{}
	sp := NewExec("espeak-ng -v nl -s {wpm}", WithRunner(runner.run), WithLookPath(found))
	defer sp.Close()

	require.NoError(t, sp.Speak(" boom ", RateSound))
	started := next(t, sp.Events())
	assert.Equal(t, Started, started.Kind)
	assert.Equal(t, "boom", started.Text)
	finished := next(t, sp.Events())
	assert.Equal(t, Finished, finished.Kind)
	assert.Equal(t, started.ID, finished.ID)

	assert.Equal(t, [][]string{{"espeak-ng", "-v", "nl", "-s", "88", "boom"}}, runner.Calls())
}

func TestSpeakInterruptsPrevious(t *testing.T) {
	runner := &fakeRunner{release: make(chan struct{})}
	sp := NewExec("say -r {wpm}", WithRunner(runner.run), WithLookPath(found))

	require.NoError(t, sp.Speak("een", RateWord))
	first := next(t, sp.Events())
	require.Equal(t, Started, first.Kind)

	require.NoError(t, sp.Speak("twee", RateSound))
	seen := map[uint64][]EventKind{}
	for i := 0; i < 2; i++ {
		ev := next(t, sp.Events())
		seen[ev.ID] = append(seen[ev.ID], ev.Kind)
	}
	assert.Equal(t, []EventKind{Finished}, seen[first.ID])
	assert.Equal(t, []EventKind{Started}, seen[first.ID+1])

	close(runner.release)
	last := next(t, sp.Events())
	assert.Equal(t, first.ID+1, last.ID)
	assert.Equal(t, Finished, last.Kind)
	sp.Close()
}

func TestSupersededUtteranceNeverStarts(t *testing.T) {
	sp := NewExec("", WithRunner((&fakeRunner{}).run), WithLookPath(found))
	sp.seq = 2
	assert.False(t, sp.begin(1, "een"))
	assert.Empty(t, sp.Events())
	assert.True(t, sp.begin(2, "twee"))
	assert.Equal(t, Event{ID: 2, Kind: Started, Text: "twee"}, next(t, sp.Events()))
}

func TestRapidSpeakStartsInOrder(t *testing.T) {
	runner := &fakeRunner{release: make(chan struct{})}
	sp := NewExec("", WithRunner(runner.run), WithLookPath(found))
	for _, word := range []string{"een", "twee", "drie", "vier", "vijf"} {
		require.NoError(t, sp.Speak(word, RateWord))
	}

	var lastStarted uint64
	for {
		ev := next(t, sp.Events())
		if ev.Kind == Started {
			assert.Greater(t, ev.ID, lastStarted)
			lastStarted = ev.ID
			if ev.ID == 5 {
				close(runner.release)
			}
		}
		if ev.ID == 5 && ev.Kind == Finished {
			break
		}
	}
	assert.Equal(t, uint64(5), lastStarted)
	sp.Close()
}

func TestStopCancels(t *testing.T) {
	runner := &fakeRunner{release: make(chan struct{})}
	sp := NewExec("", WithRunner(runner.run), WithLookPath(found))
	require.NoError(t, sp.Speak("kat", RateWord))
	next(t, sp.Events())
	sp.Stop()
	assert.Equal(t, Finished, next(t, sp.Events()).Kind)
	sp.Close()
}

func TestSpeakFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	sp := NewExec("tts", WithRunner(runner.run), WithLookPath(found))
	defer sp.Close()
	require.NoError(t, sp.Speak("vis", RateWord))
	next(t, sp.Events())
	ev := next(t, sp.Events())
	assert.Equal(t, Failed, ev.Kind)
	assert.ErrorContains(t, ev.Err, "exit status 1")
}

func TestUnavailable(t *testing.T) {
	runner := &fakeRunner{}
	lookups := 0
	sp := NewExec("missing-tts", WithRunner(runner.run), WithLookPath(func(string) (string, error) {
		lookups++
		return "", errors.New("not found")
	}))
	assert.False(t, sp.Available())
	assert.ErrorIs(t, sp.Speak("kat", RateWord), ErrUnavailable)
	assert.Equal(t, 1, lookups)
	assert.Empty(t, runner.Calls())

	assert.False(t, Nop{}.Available())
	assert.ErrorIs(t, Nop{}.Speak("kat", RateWord), ErrUnavailable)
}

func TestEmptyTextIsIgnored(t *testing.T) {
	runner := &fakeRunner{}
	sp := NewExec("tts", WithRunner(runner.run), WithLookPath(found))
	assert.NoError(t, sp.Speak("  ", RateWord))
	assert.Empty(t, runner.Calls())
}

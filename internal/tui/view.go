package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuilees/internal/curriculum"
	"github.com/verte-zerg/tuilees/internal/pacing"
	"github.com/verte-zerg/tuilees/internal/progress"
	"github.com/verte-zerg/tuilees/internal/syllable"
)

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.view {
	case viewLoading:
		content = "Loading words..."
	case viewContentError:
		content = m.renderContentError()
	case viewSelector:
		content = m.renderSelector()
	case viewReading:
		content = m.renderReading()
	case viewSummary:
		content = m.renderSummary()
	case viewCelebration:
		content = m.renderCelebration()
	case viewResetConfirm:
		content = m.renderResetConfirm()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(int(float64(m.width)*0.70), 1)
}

func (m *Model) renderFooter() string {
	var segments []string
	if m.view == viewReading && m.session != nil {
		p := m.session.Position()
		content := m.session.Content()
		readInBlock := m.state.Read.CountInBlock(p.Day, p.Block)
		segments = append(segments,
			fmt.Sprintf("Block %d/%d", readInBlock, content.BlockWordCount(p.Day, p.Block)),
			fmt.Sprintf("Day %d/%d", m.state.Read.CountInDay(p.Day), curriculum.WordsPerDay),
		)
	}
	if m.notice != "" {
		segments = append(segments, m.notice)
	}
	segments = append(segments, m.help.ShortHelpView(m.keys.bindings(m.view, m.letterMode)))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderContentError() string {
	lines := []string{
		errorStyle.Render("Could not load the word list."),
		"",
		m.loadErr.Error(),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSelector() string {
	content := m.session.Content()
	days := content.DayCount()
	lines := []string{
		titleStyle.Render("Choose a day"),
		fmt.Sprintf("Words read: %d   Days done: %d/%d", m.state.Read.Len(), len(m.state.Totals.CompletedDays), days),
		"",
	}
	visible := days
	if m.height > 0 {
		visible = max(m.height-len(lines)-3, 1)
	}
	start := max(min(m.cursor-visible/2, days-visible), 0)
	end := min(start+visible, days)
	current := m.state.Position.Day
	for d := start; d < end; d++ {
		pointer := "  "
		if d == m.cursor {
			pointer = "› "
		}
		done := " "
		if m.state.IsDayComplete(d) {
			done = "✓"
		}
		here := ""
		if d == current {
			here = " ●"
		}
		line := fmt.Sprintf("%sDay %3d  %3d/%d %s%s", pointer, d+1, m.state.Read.CountInDay(d), curriculum.WordsPerDay, done, here)
		if d == m.cursor {
			line = titleStyle.Render(line)
		} else {
			line = pendingStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderReading() string {
	p := m.session.Position()
	content := m.session.Content()
	header := fmt.Sprintf("Day %d · Block %d/%d · %s  %s",
		p.Day+1, p.Block+1, content.BlockCount(p.Day), m.renderTimer(), m.modeLabel())

	width := m.contentWidth()
	rows := make([]string, 0, content.RowCount(p.Day, p.Block))
	for r := 0; r < content.RowCount(p.Day, p.Block); r++ {
		n := content.RowLen(p.Day, p.Block, r)
		words := make([]string, n)
		states := make([]wordState, n)
		for w := 0; w < n; w++ {
			words[w], _ = content.Word(p.Day, p.Block, r, w)
			switch c := (progress.Coordinate{Day: p.Day, Block: p.Block, Row: r, Word: w}); {
			case c == p:
				states[w] = wordCurrent
			case m.state.Read.IsRead(c):
				states[w] = wordRead
			}
		}
		rows = append(rows, wrapStyledRunes(buildStyledRunes(words, states), width))
	}

	parts := []string{header, "", strings.Join(rows, "\n\n"), ""}
	if word, ok := m.session.CurrentWord(); ok {
		parts = append(parts, bigWordStyle.Render(m.renderWord(word)))
	}
	out := strings.Join(parts, "\n")
	if width > 0 {
		out = lipgloss.NewStyle().Width(width).Render(out)
	}
	return out
}

func (m *Model) renderWord(word string) string {
	switch {
	case m.letterMode:
		runes := []rune(word)
		var b strings.Builder
		for i, span := range m.spans {
			text := string(runes[span.start : span.start+span.size])
			if i == m.spanIndex {
				b.WriteString(soundStyle.Render(text))
			} else {
				b.WriteString(text)
			}
		}
		return b.String()
	case m.showSyllables:
		parts := syllable.Colored(word)
		out := make([]string, len(parts))
		for i, s := range parts {
			out[i] = syllableStyles[s.Color].Render(s.Text)
		}
		return strings.Join(out, pendingStyle.Render("·"))
	default:
		if m.speaking {
			return word + " ♪"
		}
		return word
	}
}

func (m *Model) renderTimer() string {
	label := pacing.Format(m.timer.Value())
	if !m.timer.Running() && m.timer.Started() {
		label += " (paused)"
	}
	switch {
	case m.timer.IsExpired():
		return errorStyle.Render(label)
	case m.timer.IsWarning():
		return warningStyle.Render(label)
	default:
		return label
	}
}

func (m *Model) modeLabel() string {
	if m.timer.Mode() == pacing.ModeCountdown {
		return fmt.Sprintf("[timer %ds]", m.timer.Initial())
	}
	return "[training]"
}

func (m *Model) renderSummary() string {
	s := m.summary
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Block %d done", s.BlockNumber)),
		"",
		fmt.Sprintf("Time: %s  (%.2f s/word)", pacing.Format(s.ElapsedSeconds), s.SecondsPerWord),
	}
	if s.HasTimings {
		lines = append(lines,
			fmt.Sprintf("Fastest: %s (%.1f s)", s.Fastest.Word, float64(s.Fastest.Ms)/1000),
			fmt.Sprintf("Slowest: %s (%.1f s)", s.Slowest.Word, float64(s.Slowest.Ms)/1000),
		)
	}
	lines = append(lines,
		fmt.Sprintf("Replays: %d", s.ReplayCount),
		fmt.Sprintf("Today: %d/%d words · %d/%d blocks",
			s.DayProgress.WordsRead, s.DayProgress.TotalWords, s.DayProgress.BlocksDone, s.DayProgress.TotalBlocks),
	)
	return strings.Join(lines, "\n")
}

func (m *Model) renderCelebration() string {
	c := m.celebration
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Day %d complete!", c.DayNumber)),
		"",
		fmt.Sprintf("Words today: %d", c.WordsRead),
		fmt.Sprintf("Challenge: %d/%d words", c.ChallengeWords, c.ChallengeTotal),
		fmt.Sprintf("Days: %d/%d", c.DaysDone, c.TotalDays),
	}
	if c.IsLastDay {
		lines = append(lines, "", warningStyle.Render("You finished the whole challenge!"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderResetConfirm() string {
	return strings.Join([]string{
		errorStyle.Render("Reset all progress?"),
		"",
		"Read words, statistics and block history will be removed.",
	}, "\n")
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

type wordState int

const (
	wordPending wordState = iota
	wordRead
	wordCurrent
)

func styleFor(state wordState) lipgloss.Style {
	switch state {
	case wordRead:
		return readStyle
	case wordCurrent:
		return currentWordStyle
	default:
		return pendingStyle
	}
}

// buildStyledRunes lays out a row of words separated by single spaces.
func buildStyledRunes(words []string, states []wordState) []styledRune {
	out := make([]styledRune, 0, len(words)*6)
	for i, word := range words {
		if i > 0 {
			out = append(out, styledRune{s: " ", width: 1, isSpace: true})
		}
		state := wordPending
		if i < len(states) {
			state = states[i]
		}
		style := styleFor(state)
		for _, r := range word {
			out = append(out, styledRune{
				s:     style.Render(string(r)),
				width: runewidth.RuneWidth(r),
			})
		}
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks at spaces so a word is never split unless it is
// wider than the line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tuilees/internal/curriculum"
	"github.com/verte-zerg/tuilees/internal/model"
	"github.com/verte-zerg/tuilees/internal/pacing"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Paces returns seconds per word for each run.
func Paces(runs []model.BlockRun) []float64 {
	out := make([]float64, len(runs))
	for i, r := range runs {
		out[i] = r.SecondsPerWord()
	}
	return out
}

// MeanPace returns the seconds per word over all runs together.
func MeanPace(runs []model.BlockRun) float64 {
	var seconds, words int
	for _, r := range runs {
		seconds += r.ElapsedSeconds
		words += r.Words
	}
	if words == 0 {
		return 0
	}
	return float64(seconds) / float64(words)
}

// FormatDuration renders whole seconds as MM:SS.
func FormatDuration(seconds int) string {
	return pacing.Format(seconds)
}

// RenderSummary prints the overall totals.
func RenderSummary(w io.Writer, r Report) error {
	lines := []string{
		"Summary",
		fmt.Sprintf("Words read: %d", r.WordsRead),
		fmt.Sprintf("Challenge words: %d", r.Totals.TotalWords),
		fmt.Sprintf("Days completed: %d", len(r.Totals.CompletedDays)),
		fmt.Sprintf("Avg pace: %.2f s/word", r.Totals.AverageSpeed),
		fmt.Sprintf("Blocks in history: %d", len(r.Runs)),
	}
	if len(r.Runs) > 0 {
		best := r.Runs[0]
		for _, run := range r.Runs[1:] {
			if run.SecondsPerWord() < best.SecondsPerWord() {
				best = run
			}
		}
		lines = append(lines, fmt.Sprintf("Best block: day %d block %d, %.2f s/word", best.Day+1, best.Block+1, best.SecondsPerWord()))
		lines = append(lines, fmt.Sprintf("Recent pace: %.2f s/word over %d blocks", MeanPace(r.Window), len(r.Window)))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderDayTable prints one row per day with recorded progress.
func RenderDayTable(w io.Writer, r Report) error {
	if len(r.Days) == 0 {
		_, err := fmt.Fprintln(w, "No days started.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Days"); err != nil {
		return err
	}
	headers := []string{"Day", "Words", "Blocks", "Time", "s/word", "Done"}
	rows := make([][]string, 0, len(r.Days))
	for _, d := range r.Days {
		done := ""
		if d.Completed {
			done = "✓"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", d.Day),
			fmt.Sprintf("%d/%d", d.WordsRead, curriculum.WordsPerDay),
			fmt.Sprintf("%d/%d", d.BlocksDone, curriculum.BlocksPerDay),
			FormatDuration(d.TotalSeconds),
			fmt.Sprintf("%.2f", d.SecondsPerWord),
			done,
		})
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderWordTables prints the most difficult and the slowest words.
func RenderWordTables(w io.Writer, r Report) error {
	if len(r.Difficult) > 0 {
		rows := make([][]string, 0, len(r.Difficult))
		for _, wc := range r.Difficult {
			rows = append(rows, []string{wc.Word, fmt.Sprintf("%d", wc.Count)})
		}
		if err := writeTable(w, "Difficult words", []string{"Word", "Marked"}, rows, map[int]bool{1: true}); err != nil {
			return err
		}
	}
	if len(r.Slowest) > 0 {
		rows := make([][]string, 0, len(r.Slowest))
		for _, wp := range r.Slowest {
			rows = append(rows, []string{wp.Word, fmt.Sprintf("%.0f", wp.AvgMs), fmt.Sprintf("%d", wp.Samples)})
		}
		if err := writeTable(w, "Slowest words", []string{"Word", "Avg ms", "Reads"}, rows, map[int]bool{1: true, 2: true}); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, title string, headers []string, rows [][]string, rightAlign map[int]bool) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurve prints the reading pace per block with its moving average.
func RenderCurve(w io.Writer, runs []model.BlockRun, window int) error {
	return RenderCurveWithSize(w, runs, window, 0, defaultPlotHeight, false)
}

// RenderCurveWithSize prints the pace curve sized to a given total width.
func RenderCurveWithSize(w io.Writer, runs []model.BlockRun, window, totalWidth, height int, useColor bool) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No finished blocks yet.")
		return err
	}
	paces := Paces(runs)
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	if _, err := fmt.Fprintf(w, "Trend: %s\n", Sparkline(paces)); err != nil {
		return err
	}
	return PlotSeries(w, "Pace (s/word)", []Series{
		{Name: "Block", Values: paces},
		{Name: fmt.Sprintf("Avg %d", max(window, 1)), Values: MovingAverage(paces, window)},
	}, width, height, useColor)
}

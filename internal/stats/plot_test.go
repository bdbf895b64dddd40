package stats

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 12, 4, false)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	if !strings.Contains(out, "   4.0 │ ") || !strings.Contains(out, "   1.0 │ ") {
		t.Fatalf("expected shared scale labels, got:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1+4+1 {
		t.Fatalf("expected 6 lines of output, got %d", len(lines))
	}
	for _, line := range lines[1:5] {
		if got := utf8.RuneCountInString(line); got != axisLabelWidth+utf8.RuneCountInString(axisSeparator)+12 {
			t.Fatalf("unexpected row width %d: %q", got, line)
		}
	}
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", []Series{{Name: "A"}}, 10, 4, false); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	axisWidth := axisLabelWidth + utf8.RuneCountInString(axisSeparator)
	if got := PlotWidthFor(80); got != 80-axisWidth {
		t.Fatalf("expected width %d, got %d", 80-axisWidth, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(12); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestResampleSeries(t *testing.T) {
	down := resampleSeries([]float64{1, 3, 5, 7}, 2)
	if down[0] != 2 || down[1] != 6 {
		t.Fatalf("unexpected downsample: %v", down)
	}
	up := resampleSeries([]float64{0, 10}, 3)
	if up[0] != 0 || up[1] != 5 || up[2] != 10 {
		t.Fatalf("unexpected upsample: %v", up)
	}
}

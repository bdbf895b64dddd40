package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 6
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "dotted", period: 4, on: 1},
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
}

var colorCodes = []string{"\x1b[36m", "\x1b[33m", "\x1b[35m"}

// PlotSeries renders the series as a braille chart. All series share one
// y scale, labelled in their unit on the left axis.
func PlotSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	series = filterSeries(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	scaled := make([]Series, len(series))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, s := range series {
		scaled[i] = Series{Name: s.Name, Values: resampleSeries(s.Values, width)}
		for _, v := range scaled[i].Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1e-9 {
		lo, hi = lo-1, hi+1
	}

	dotRows := height * 4
	layers := make([][][]uint8, len(scaled))
	for si, s := range scaled {
		layers[si] = makeCells(height, width)
		style := lineStyles[si%len(lineStyles)]
		prevX, prevY := -1, -1
		for x, v := range s.Values {
			px, py := x*2, valueToRow(v, lo, hi, dotRows)
			if prevX < 0 {
				if style.shouldPlot(px) {
					setBrailleDot(layers[si], px, py)
				}
			} else {
				drawLine(prevX, prevY, px, py, func(dx, dy int) {
					if style.shouldPlot(dx) {
						setBrailleDot(layers[si], dx, dy)
					}
				})
			}
			prevX, prevY = px, py
		}
	}

	useColor := shouldUseColor(w, forceColor)
	var out strings.Builder
	if title != "" {
		out.WriteString(title + "\n")
	}
	for y := 0; y < height; y++ {
		out.WriteString(axisLabel(y, height, lo, hi))
		out.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, layer := composeCell(layers, x, y)
			ch := rune(0x2800 + int(mask))
			if useColor && layer >= 0 {
				out.WriteString(colorCodes[layer%len(colorCodes)])
				out.WriteRune(ch)
				out.WriteString(colorReset)
				continue
			}
			out.WriteRune(ch)
		}
		out.WriteByte('\n')
	}
	out.WriteString(renderLegend(scaled, useColor) + "\n\n")
	_, err := io.WriteString(w, out.String())
	return err
}

func axisLabel(y, height int, lo, hi float64) string {
	var v float64
	switch {
	case y == 0:
		v = hi
	case y == height-1:
		v = lo
	case height > 2 && y == height/2:
		v = (lo + hi) / 2
	default:
		return strings.Repeat(" ", axisLabelWidth)
	}
	return fmt.Sprintf("%*.1f", axisLabelWidth, v)
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisLabelWidth-utf8.RuneCountInString(axisSeparator), minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

// composeCell merges the layers at a cell; the first non-empty layer picks the colour.
func composeCell(layers [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	first := -1
	for i, cells := range layers {
		m := cells[y][x]
		if m == 0 {
			continue
		}
		if first < 0 {
			first = i
		}
		mask |= m
	}
	return mask, first
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

// resampleSeries averages buckets when shrinking and interpolates when stretching.
func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case len(values) == width:
		copy(out, values)
	case len(values) > width:
		for i := range out {
			start := i * len(values) / width
			end := max((i+1)*len(values)/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(len(values)-1) / float64(width-1)
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func valueToRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return max(0, min(row, rows-1))
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("⠁ %s (%s)", s.Name, lineStyles[i%len(lineStyles)].name)
		if useColor {
			label = colorCodes[i%len(colorCodes)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// drawLine walks a Bresenham line between two dot coordinates.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Braille dot bits by column (0, 1) and row (0-3) within a cell.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/4, x/2
	if cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= brailleBits[x%2][y%4]
}

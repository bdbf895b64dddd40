package curriculum

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardCurriculum(days int) *Curriculum {
	c := &Curriculum{}
	for d := 0; d < days; d++ {
		day := Day{Number: d + 1}
		for b := 0; b < BlocksPerDay; b++ {
			block := Block{Number: b + 1}
			for r := 0; r < RowsPerBlock; r++ {
				row := Row{Number: r + 1}
				for w := 0; w < WordsPerRow; w++ {
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

func TestDecodeContentFile(t *testing.T) {
	content := `{"dagen":[{"dag":1,"blokken":[{"blok":1,"rijtjes":[{"rijtje":1,"woorden":["kat","vis","boom"]}]}]}]}`
	c, err := Decode(strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, 1, c.DayCount())
	assert.Equal(t, 1, c.BlockCount(0))
	assert.Equal(t, 1, c.RowCount(0, 0))
	assert.Equal(t, 3, c.RowLen(0, 0, 0))
	word, ok := c.Word(0, 0, 0, 2)
	assert.True(t, ok)
	assert.Equal(t, "boom", word)
	_, ok = c.Word(0, 0, 0, 3)
	assert.False(t, ok)
}

func TestDecodeRejectsBrokenContent(t *testing.T) {
	for _, content := range []string{`{"dagen":`, `{"dagen":[]}`, `[]`} {
		_, err := Decode(strings.NewReader(content))
		require.Error(t, err, content)
		assert.True(t, errors.Is(err, ErrContentUnavailable), content)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContentUnavailable)
}

func TestWordCounts(t *testing.T) {
	c := standardCurriculum(2)
	assert.Equal(t, WordsPerBlock, c.BlockWordCount(1, 9))
	assert.Equal(t, WordsPerDay, c.DayWordCount(0))
	assert.Equal(t, 2*WordsPerDay, c.TotalWordCount())
	assert.Equal(t, 0, c.BlockWordCount(2, 0))
	assert.Len(t, c.BlockWords(0, 3), WordsPerBlock)
	assert.Equal(t, 1, c.WordNumber(0, 0, 0, 0))
	assert.Equal(t, 8, c.WordNumber(0, 0, 1, 2))
	assert.Equal(t, 20, c.WordNumber(0, 0, 3, 4))
}

func TestValidateReportsDeviations(t *testing.T) {
	c := standardCurriculum(1)
	c.Days[0].Blocks[2].Rows[1].Words = c.Days[0].Blocks[2].Rows[1].Words[:3]
	c.Days[0].Blocks[4].Rows = c.Days[0].Blocks[4].Rows[:3]

	issues := c.Validate()
	require.Len(t, issues, 2)
	assert.Equal(t, "Dag 1 Blok 3 Rij 2: 3 words, want 5", issues[0].String())
	assert.Equal(t, "Dag 1 Blok 5: 3 rows, want 4", issues[1].String())
	assert.Empty(t, standardCurriculum(1).Validate())
}

func TestNormalizePadsAndTrims(t *testing.T) {
	c := &Curriculum{Days: []Day{{
		Number: 1,
		Blocks: []Block{{
			Number: 7,
			Rows: []Row{
				{Number: 3, Words: []string{"a", "b", "c", "d", "e", "f"}},
				{Number: 9, Words: []string{"g"}},
			},
		}},
	}}}
	c.Normalize()

	assert.Empty(t, c.Validate())
	assert.Equal(t, 1, c.Days[0].Blocks[0].Number)
	assert.Equal(t, 2, c.Days[0].Blocks[0].Rows[1].Number)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, c.Days[0].Blocks[0].Rows[0].Words)
	assert.Equal(t, []string{"g", "a", "b", "c", "d"}, c.Days[0].Blocks[0].Rows[1].Words)
}

func TestNormalizeEmptyDayUsesGlobalPool(t *testing.T) {
	c := &Curriculum{Days: []Day{
		{Number: 1, Blocks: []Block{{Rows: []Row{{Words: []string{"zon"}}}}}},
		{Number: 2},
	}}
	c.Normalize()
	assert.Equal(t, []string{"zon", "zon", "zon", "zon", "zon"}, c.Days[1].Blocks[0].Rows[0].Words)

	empty := &Curriculum{Days: []Day{{Number: 1}}}
	empty.Normalize()
	assert.Equal(t, padWord, empty.Days[0].Blocks[9].Rows[3].Words[4])
}

func TestWriteRoundTrip(t *testing.T) {
	c := standardCurriculum(1)
	path := filepath.Join(t.TempDir(), "content", "woordenlijst.json")
	require.NoError(t, c.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

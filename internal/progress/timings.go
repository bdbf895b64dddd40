package progress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/verte-zerg/tuilees/internal/pacing"
)

// WordTimings maps words to reading milliseconds, keeping first-seen order.
// It encodes as a JSON object whose keys follow that order.
type WordTimings []pacing.WordTiming

// Set stores ms for word. An existing word keeps its position.
func (t *WordTimings) Set(word string, ms int64) {
	for i := range *t {
		if (*t)[i].Word == word {
			(*t)[i].Ms = ms
			return
		}
	}
	*t = append(*t, pacing.WordTiming{Word: word, Ms: ms})
}

// Get returns the milliseconds stored for word.
func (t WordTimings) Get(word string) (int64, bool) {
	for _, wt := range t {
		if wt.Word == word {
			return wt.Ms, true
		}
	}
	return 0, false
}

// MarshalJSON implements json.Marshaler.
func (t WordTimings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, wt := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(wt.Word)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(wt.Ms, 10))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler and keeps the document's key order.
func (t *WordTimings) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*t = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("word timings: expected object, got %v", tok)
	}
	var out WordTimings
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("word timings: unexpected key %v", keyTok)
		}
		var ms float64
		if err := dec.Decode(&ms); err != nil {
			return fmt.Errorf("word timings: value for %q: %w", key, err)
		}
		out.Set(key, int64(math.Round(ms)))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = out
	return nil
}

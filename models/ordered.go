// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/danielhkuo/exam-intake/scoring"
)

// Count is one labelled tally.
type Count struct {
	Key   string
	Count int
}

// OrderedCounts is a JSON object of label -> count that keeps the order
// its keys were encountered in.
type OrderedCounts []Count

// Get returns the count stored under key, or 0.
func (o OrderedCounts) Get(key string) int {
	for _, c := range o {
		if c.Key == key {
			return c.Count
		}
	}
	return 0
}

// Sum returns the total of all counts.
func (o OrderedCounts) Sum() int {
	total := 0
	for _, c := range o {
		total += c.Count
	}
	return total
}

func (o OrderedCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", c.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object token by token so the key order survives.
// Values that are not numbers count as 0; a later duplicate key overwrites
// the earlier value in place.
func (o *OrderedCounts) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("counts: expected object, got %v", tok)
	}

	counts := OrderedCounts{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("counts: expected key, got %v", tok)
		}
		var value Cell
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("counts: value for %q: %w", key, err)
		}
		n := int(math.Round(scoring.ParseScore(string(value))))
		if i, seen := index[key]; seen {
			counts[i].Count = n
			continue
		}
		index[key] = len(counts)
		counts = append(counts, Count{Key: key, Count: n})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*o = counts
	return nil
}

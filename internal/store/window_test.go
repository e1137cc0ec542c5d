package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(s Snapshot) []string {
	out := make([]string, 0, len(s))
	for _, e := range s {
		out = append(out, e.ID)
	}
	return out
}

func TestWindowOrdersAscendingAndKeepsTail(t *testing.T) {
	entries := []Entry{
		{ID: "c", Fields: Record{"timestamp": int64(300)}},
		{ID: "a", Fields: Record{"timestamp": float64(100)}},
		{ID: "b", Fields: Record{"timestamp": json.Number("200")}},
		{ID: "d", Fields: Record{"timestamp": "400"}},
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(Window(entries, "timestamp", 10)))
	assert.Equal(t, []string{"c", "d"}, ids(Window(entries, "timestamp", 2)))
}

func TestWindowTiesAndMissingKeys(t *testing.T) {
	entries := []Entry{
		{ID: "y", Fields: Record{"timestamp": int64(5)}},
		{ID: "x", Fields: Record{"timestamp": int64(5)}},
		{ID: "z", Fields: Record{}},
	}

	assert.Equal(t, []string{"z", "x", "y"}, ids(Window(entries, "timestamp", 10)))
}

func TestWindowDoesNotMutateInput(t *testing.T) {
	entries := []Entry{
		{ID: "b", Fields: Record{"timestamp": int64(2)}},
		{ID: "a", Fields: Record{"timestamp": int64(1)}},
	}
	Window(entries, "timestamp", 10)
	assert.Equal(t, "b", entries[0].ID)
}

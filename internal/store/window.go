package store

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// OrderValue reads the numeric sort key of a record. Records without a usable
// value sort first.
func OrderValue(rec Record, key string) float64 {
	switch v := rec[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err == nil {
			return f
		}
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return math.Inf(-1)
}

// Window sorts entries ascending by the order key (ties broken by id) and
// keeps the last limit of them.
func Window(entries []Entry, orderBy string, limit int) Snapshot {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := OrderValue(sorted[i].Fields, orderBy), OrderValue(sorted[j].Fields, orderBy)
		if a != b {
			return a < b
		}
		return sorted[i].ID < sorted[j].ID
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[len(sorted)-limit:]
	}
	return Snapshot(sorted)
}

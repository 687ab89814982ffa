package metrics

import (
	"io"

	json "github.com/goccy/go-json"
)

// Report is the JSON document written by WriteJSON.
type Report struct {
	Enabled  bool             `json:"enabled"`
	Timings  []TimingStats    `json:"timings"`
	Counters map[string]int64 `json:"counters,omitempty"`
}

// Snapshot collects the metrics that have data.
func Snapshot() Report {
	return Report{Enabled: Enabled(), Timings: AllTimingStats(), Counters: CounterValues()}
}

// WriteJSON writes Snapshot as indented JSON.
func WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Snapshot())
}

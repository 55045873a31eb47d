package domain

import "time"

// SourceFailure records a connected data source whose import did not succeed.
type SourceFailure struct {
	Source AssetRef `json:"source"`
	Error  string   `json:"error"`
}

// ImportReport summarizes one "import connected data sources" delegation.
type ImportReport struct {
	Repository AssetRef        `json:"repository"`
	Processed  int             `json:"processed"`
	Succeeded  []AssetRef      `json:"succeeded"`
	Failed     []SourceFailure `json:"failed"`
}

// OK reports whether every processed source imported cleanly.
func (r ImportReport) OK() bool {
	return len(r.Failed) == 0
}

// ImportRun is the persisted record of a single gate invocation.
type ImportRun struct {
	// Invocation matches the "invocation" attribute on the run's log records.
	Invocation string       `json:"invocation,omitempty"`
	Repository AssetRef     `json:"repository"`
	StartedAt  time.Time    `json:"started_at"`
	EndedAt    time.Time    `json:"ended_at"`
	Report     ImportReport `json:"report"`
	Error      string       `json:"error,omitempty"`
}

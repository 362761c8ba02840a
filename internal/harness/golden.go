package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the path-independent part of a scenario run: the verdict
// of every case without messages, which embed file paths.
type Snapshot struct {
	ScenarioName string          `json:"scenario_name"`
	Cases        []SnapshotEntry `json:"cases"`
}

// SnapshotEntry is the verdict of one case.
type SnapshotEntry struct {
	Case          string `json:"case"`
	Status        string `json:"status"`
	Kind          string `json:"kind,omitempty"`
	Artifact      string `json:"artifact,omitempty"`
	Field         string `json:"field,omitempty"`
	RecordedError string `json:"recorded_error,omitempty"`
}

// NewSnapshot builds the snapshot of a result.
func NewSnapshot(name string, result *Result) Snapshot {
	s := Snapshot{ScenarioName: name, Cases: make([]SnapshotEntry, len(result.Outcomes))}
	for i, out := range result.Outcomes {
		e := SnapshotEntry{
			Case:          out.Case,
			Status:        string(out.Status),
			RecordedError: out.RecordedError,
		}
		if v := out.Violation; v != nil {
			e.Kind = string(v.Kind)
			e.Artifact = v.Artifact
			e.Field = v.Field
		}
		s.Cases[i] = e
	}
	return s
}

// Marshal renders the snapshot as two-space indented JSON with a
// trailing newline.
func (s Snapshot) Marshal() ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// AssertGolden compares the snapshot of result against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	data, err := NewSnapshot(name, result).Marshal()
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}

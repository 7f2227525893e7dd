package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/body"
	"github.com/pthm-cable/soma/vitals"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete body state at one tick.
type Snapshot struct {
	Version int   `json:"version"`
	Tick    int64 `json:"tick"`

	Resources map[string]float64 `json:"resources"`

	Systems []SystemState `json:"systems"`
}

// SystemState holds one subsystem's nodes.
type SystemState struct {
	Kind  string      `json:"kind"`
	Name  string      `json:"name"`
	Nodes []NodeState `json:"nodes"`
}

// NodeState holds one node's status and gauges.
type NodeState struct {
	Part    string       `json:"part"`
	Status  string       `json:"status"`
	Faulted bool         `json:"faulted,omitempty"`
	Gauges  []GaugeState `json:"gauges"`
}

// GaugeState holds one gauge's readings.
type GaugeState struct {
	Kind    string  `json:"kind"`
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
	Regen   float64 `json:"regen"`
}

// TakeSnapshot captures the full state of a body.
func TakeSnapshot(b *body.Body) *Snapshot {
	snap := &Snapshot{
		Version:   SnapshotVersion,
		Tick:      b.Tick(),
		Resources: make(map[string]float64),
	}

	for _, r := range vitals.AllResources() {
		snap.Resources[r.String()] = b.Ledger().Get(r)
	}

	names := make(map[anatomy.SystemKind]string)
	for _, info := range body.SystemCatalog() {
		names[info.Kind] = info.Name
	}

	for _, sys := range b.Systems() {
		st := SystemState{Kind: sys.Kind().String(), Name: names[sys.Kind()]}
		for _, part := range sys.Parts() {
			n, ok := sys.Node(part)
			if !ok {
				continue
			}
			ns := NodeState{
				Part:    part.String(),
				Status:  n.Status().String(),
				Faulted: n.Faulted(),
			}
			for _, g := range n.Gauges() {
				ns.Gauges = append(ns.Gauges, GaugeState{
					Kind:    g.Kind.String(),
					Current: g.Current(),
					Max:     g.Max,
					Regen:   g.Regen,
				})
			}
			st.Nodes = append(st.Nodes, ns)
		}
		snap.Systems = append(snap.Systems, st)
	}

	return snap
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

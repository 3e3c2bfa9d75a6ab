// Package snapshot builds the versioned table-metadata document describing
// one state of the aggregate table.
//
// The document is write-once per run: exactly one current snapshot exists at
// a time, and a new run supersedes the document rather than mutating it. The
// snapshot chain holds a single entry; a multi-version history would extend
// the snapshots sequence with increasing ids without changing the contract.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FormatVersion is the table format version recorded in every document.
const FormatVersion = 2

// firstSnapshotID is the id of a from-scratch run's only snapshot.
const firstSnapshotID = 1

// Snapshot is one versioned, immutable pointer to a complete table state.
type Snapshot struct {
	SnapshotID   int64  `json:"snapshot-id"`
	TimestampMs  int64  `json:"timestamp-ms"`
	ManifestList string `json:"manifest-list"`
}

// TableMetadata is the externally visible metadata contract. Field names and
// shape are stable across runs; only the uuid and timestamps vary.
type TableMetadata struct {
	FormatVersion     int               `json:"format-version"`
	TableUUID         string            `json:"table-uuid"`
	Location          string            `json:"location"`
	CurrentSnapshotID int64             `json:"current-snapshot-id"`
	Snapshots         []Snapshot        `json:"snapshots"`
	Properties        map[string]string `json:"properties"`
}

// Builder produces one TableMetadata value per pipeline run.
type Builder struct {
	location  string
	codec     string
	tableUUID string
}

// Option configures a Builder.
type Option func(*Builder)

// WithTableUUID fixes the table UUID instead of generating one.
func WithTableUUID(id string) Option {
	return func(b *Builder) { b.tableUUID = id }
}

// NewBuilder creates a metadata builder for a table at the given storage
// location, written with the given compression codec.
func NewBuilder(location, codec string, opts ...Option) *Builder {
	b := &Builder{
		location: location,
		codec:    codec,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.tableUUID == "" {
		b.tableUUID = uuid.NewString()
	}
	return b
}

// Build returns the metadata document for a from-scratch run at the given
// wall-clock time. The result is fully determined by the builder's identity,
// location and now; Build performs no I/O.
func (b *Builder) Build(now time.Time) TableMetadata {
	ts := now.UnixMilli()
	return TableMetadata{
		FormatVersion:     FormatVersion,
		TableUUID:         b.tableUUID,
		Location:          b.location,
		CurrentSnapshotID: firstSnapshotID,
		Snapshots: []Snapshot{
			{
				SnapshotID:   firstSnapshotID,
				TimestampMs:  ts,
				ManifestList: fmt.Sprintf("%s/metadata/snap-%d.avro", b.location, firstSnapshotID),
			},
		},
		Properties: map[string]string{
			"write.format.default":            "parquet",
			"write.parquet.compression-codec": b.codec,
		},
	}
}

// Current returns the document's current snapshot.
func (m *TableMetadata) Current() *Snapshot {
	for i := range m.Snapshots {
		if m.Snapshots[i].SnapshotID == m.CurrentSnapshotID {
			return &m.Snapshots[i]
		}
	}
	return nil
}

// WriteFile persists the metadata document as indented JSON.
func WriteFile(path string, md TableMetadata) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write metadata file: %w", err)
	}
	return nil
}

// ReadFile loads a metadata document.
func ReadFile(path string) (TableMetadata, error) {
	var md TableMetadata

	data, err := os.ReadFile(path)
	if err != nil {
		return md, fmt.Errorf("read metadata file: %w", err)
	}
	if err := json.Unmarshal(data, &md); err != nil {
		return md, fmt.Errorf("parse metadata file: %w", err)
	}
	return md, nil
}

package models

import "time"

// Decision is the terminal outcome for a snapshot in a single reap pass.
type Decision string

const (
	DecisionDeleted     Decision = "deleted"
	DecisionWouldDelete Decision = "would-delete"
	DecisionRetained    Decision = "retained"
	DecisionErrored     Decision = "error"
)

// SnapshotInfo represents EBS snapshot information
type SnapshotInfo struct {
	SnapshotID  string
	Name        string
	VolumeID    string // empty when the snapshot reports no source volume
	Region      string
	StartTime   time.Time
	SizeGB      int
	Description string
}

// ReapResult records the decision taken for a single snapshot
type ReapResult struct {
	Snapshot SnapshotInfo
	Decision Decision
	Reason   string

	// Instance IDs the source volume is attached to, when the snapshot
	// was retained because its volume is in use
	AttachedTo []string

	// True when at least one of those attachments points at an instance
	// that was not in the running-instance set at scan time
	StoppedAttachment bool
}

// RunSummary aggregates a single reap pass over one region
type RunSummary struct {
	Region   string
	DryRun   bool
	Deleted  int
	Retained int
	Errored  int
}

// Total returns the number of snapshots evaluated in the pass
func (s RunSummary) Total() int {
	return s.Deleted + s.Retained + s.Errored
}

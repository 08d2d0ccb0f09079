// Package reaper implements the retention and orphan policy for EBS
// snapshots. A snapshot is deleted when it is strictly older than the
// retention threshold AND it is orphaned: it has no source volume, its
// volume has no attachments, or its volume no longer exists.
package reaper

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/inconshreveable/log15"

	"github.com/cloudkeep/snapreaper/internal/models"
	"github.com/cloudkeep/snapreaper/pkg/utils"
)

// DefaultRetentionDays is the age below which snapshots are never deleted
const DefaultRetentionDays = 30

// SnapshotAPI is the provider surface the reaper consumes
type SnapshotAPI interface {
	ListOwnedSnapshots(ctx context.Context) ([]models.SnapshotInfo, error)
	GetRunningInstanceIDs(ctx context.Context) (map[string]struct{}, error)
	LookupVolume(ctx context.Context, volumeID string) (models.VolumeLookup, error)
	DeleteSnapshot(ctx context.Context, snapshotID string) (alreadyGone bool, err error)
}

// Options configures a Reaper
type Options struct {
	// Region is recorded in the run summary. Informational only.
	Region string

	// RetentionDays is the age threshold in days.
	// Default: DefaultRetentionDays
	RetentionDays int

	// DryRun evaluates every snapshot without issuing any delete calls
	DryRun bool

	// Logger is a log15 logger. If nil a logfmt handler to stdout at
	// Info level is set up.
	Logger log15.Logger

	// Now overrides the clock. Used by tests.
	Now func() time.Time
}

// Reaper evaluates and deletes orphaned snapshots for one region
type Reaper struct {
	api           SnapshotAPI
	region        string
	retentionDays int
	dryRun        bool
	log           log15.Logger
	now           func() time.Time
}

// New returns a Reaper with any unset options defaulted
func New(api SnapshotAPI, opts Options) *Reaper {
	r := &Reaper{
		api:           api,
		region:        opts.Region,
		retentionDays: opts.RetentionDays,
		dryRun:        opts.DryRun,
		log:           opts.Logger,
		now:           opts.Now,
	}
	if r.retentionDays <= 0 {
		r.retentionDays = DefaultRetentionDays
	}
	if r.log == nil {
		r.log = log15.New()
		r.log.SetHandler(
			log15.LvlFilterHandler(
				log15.LvlInfo,
				log15.StreamHandler(os.Stdout, log15.LogfmtFormat()),
			),
		)
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Run performs a single reap pass: list all owned snapshots, list all
// running instance IDs, then evaluate each snapshot against the policy.
// A single snapshot's failure never aborts the pass; only the initial
// listings can. Both listings are fully drained before the first
// deletion so the pass never acts on a partial account view.
func (r *Reaper) Run(ctx context.Context) (models.RunSummary, []models.ReapResult, error) {
	summary := models.RunSummary{Region: r.region, DryRun: r.dryRun}

	snapshots, err := r.api.ListOwnedSnapshots(ctx)
	if err != nil {
		return summary, nil, fmt.Errorf("listing snapshots: %w", err)
	}

	running, err := r.api.GetRunningInstanceIDs(ctx)
	if err != nil {
		return summary, nil, fmt.Errorf("listing running instances: %w", err)
	}

	threshold := utils.RetentionThreshold(r.now(), r.retentionDays)

	r.log.Info("starting reap pass",
		"region", r.region,
		"snapshots", len(snapshots),
		"running_instances", len(running),
		"retention_days", r.retentionDays,
		"threshold", threshold.Format(time.RFC3339),
		"dry_run", r.dryRun,
	)

	results := make([]models.ReapResult, 0, len(snapshots))
	for _, snap := range snapshots {
		res := r.evaluate(ctx, snap, threshold, running)
		switch res.Decision {
		case models.DecisionDeleted, models.DecisionWouldDelete:
			summary.Deleted++
		case models.DecisionRetained:
			summary.Retained++
		case models.DecisionErrored:
			summary.Errored++
		}
		results = append(results, res)
	}

	r.log.Info("reap pass complete",
		"region", r.region,
		"deleted", summary.Deleted,
		"retained", summary.Retained,
		"errored", summary.Errored,
	)

	return summary, results, nil
}

// evaluate applies the policy to a single snapshot. The snapshot must be
// strictly older than the threshold; one exactly at the threshold is
// retained.
func (r *Reaper) evaluate(ctx context.Context, snap models.SnapshotInfo, threshold time.Time, running map[string]struct{}) models.ReapResult {
	res := models.ReapResult{Snapshot: snap}

	if !snap.StartTime.Before(threshold) {
		res.Decision = models.DecisionRetained
		res.Reason = "within retention period"
		r.log.Info("retained snapshot",
			"snapshot", snap.SnapshotID,
			"reason", res.Reason,
			"created", snap.StartTime.Format(time.RFC3339),
		)
		return res
	}

	if snap.VolumeID == "" {
		return r.delete(ctx, res, "not associated with any volume")
	}

	vol, err := r.api.LookupVolume(ctx, snap.VolumeID)
	if err != nil {
		res.Decision = models.DecisionErrored
		res.Reason = err.Error()
		r.log.Error("volume lookup failed",
			"snapshot", snap.SnapshotID,
			"volume", snap.VolumeID,
			"error", err,
		)
		return res
	}

	if !vol.Exists {
		return r.delete(ctx, res, "associated volume no longer exists")
	}

	if len(vol.Attachments) == 0 {
		return r.delete(ctx, res, "volume not attached to any instance")
	}

	// The volume is in use, keep the snapshot. The running-instance set
	// only flags attachments to non-running instances in the report; the
	// keep decision itself is attachment-based.
	res.Decision = models.DecisionRetained
	res.Reason = "volume in use"
	for _, att := range vol.Attachments {
		res.AttachedTo = append(res.AttachedTo, att.InstanceID)
		if _, ok := running[att.InstanceID]; !ok {
			res.StoppedAttachment = true
		}
	}
	r.log.Info("retained snapshot",
		"snapshot", snap.SnapshotID,
		"reason", res.Reason,
		"volume", snap.VolumeID,
		"attached_to", strings.Join(res.AttachedTo, ","),
		"stopped_attachment", res.StoppedAttachment,
	)
	return res
}

// delete carries out (or, under dry-run, only reports) the deletion of a
// snapshot already judged eligible. Delete failures are logged and
// recorded as errored; they never abort the pass.
func (r *Reaper) delete(ctx context.Context, res models.ReapResult, reason string) models.ReapResult {
	res.Reason = reason

	if r.dryRun {
		res.Decision = models.DecisionWouldDelete
		r.log.Info("would delete snapshot",
			"snapshot", res.Snapshot.SnapshotID,
			"reason", reason,
		)
		return res
	}

	alreadyGone, err := r.api.DeleteSnapshot(ctx, res.Snapshot.SnapshotID)
	if err != nil {
		res.Decision = models.DecisionErrored
		res.Reason = fmt.Sprintf("%s; delete failed: %v", reason, err)
		r.log.Error("delete failed",
			"snapshot", res.Snapshot.SnapshotID,
			"error", err,
		)
		return res
	}

	res.Decision = models.DecisionDeleted
	if alreadyGone {
		res.Reason = reason + " (already deleted)"
	}
	r.log.Info("deleted snapshot",
		"snapshot", res.Snapshot.SnapshotID,
		"reason", res.Reason,
	)
	return res
}

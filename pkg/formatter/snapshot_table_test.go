package formatter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cloudkeep/snapreaper/internal/models"
)

var scanTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestPrintReapTable(t *testing.T) {
	results := []models.ReapResult{
		{
			Snapshot: models.SnapshotInfo{
				SnapshotID: "snap-1",
				StartTime:  scanTime.AddDate(0, 0, -45),
				SizeGB:     8,
			},
			Decision: models.DecisionDeleted,
			Reason:   "not associated with any volume",
		},
		{
			Snapshot: models.SnapshotInfo{
				SnapshotID: "snap-3",
				Name:       "web-root",
				VolumeID:   "vol-b",
				StartTime:  scanTime.AddDate(0, 0, -10),
				SizeGB:     100,
			},
			Decision:          models.DecisionRetained,
			Reason:            "volume in use",
			AttachedTo:        []string{"i-1"},
			StoppedAttachment: true,
		},
	}

	var buf bytes.Buffer
	PrintReapTable(&buf, results, scanTime, 2*time.Second)
	out := buf.String()

	assert.Contains(t, out, "SNAPSHOT ID")
	assert.Contains(t, out, "snap-1")
	assert.Contains(t, out, "deleted")
	assert.Contains(t, out, "6 weeks")
	assert.Contains(t, out, "web-root")
	assert.Contains(t, out, "i-1 (not running)")
	assert.Contains(t, out, "Scan completed at 2026-03-01 12:00:00")
}

func TestPrintReapTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintReapTable(&buf, nil, scanTime, time.Second)
	assert.Contains(t, buf.String(), "No snapshots found.")
}

func TestPrintReapTableSortsOldestFirst(t *testing.T) {
	results := []models.ReapResult{
		{Snapshot: models.SnapshotInfo{SnapshotID: "snap-new", StartTime: scanTime.AddDate(0, 0, -1)}},
		{Snapshot: models.SnapshotInfo{SnapshotID: "snap-old", StartTime: scanTime.AddDate(0, 0, -90)}},
	}

	var buf bytes.Buffer
	PrintReapTable(&buf, results, scanTime, time.Second)
	out := buf.String()

	assert.Less(t, bytes.Index(buf.Bytes(), []byte("snap-old")), bytes.Index(buf.Bytes(), []byte("snap-new")))
	assert.Contains(t, out, "snap-new")
}

func TestPrintReapSummary(t *testing.T) {
	summaries := []models.RunSummary{
		{Region: "us-east-1", Deleted: 2, Retained: 1},
		{Region: "eu-west-1", Retained: 3, Errored: 1},
	}

	var buf bytes.Buffer
	PrintReapSummary(&buf, summaries)
	out := buf.String()

	assert.Contains(t, out, "us-east-1")
	assert.Contains(t, out, "eu-west-1")
	assert.Contains(t, out, "Total:")
	assert.NotContains(t, out, "Dry run")
}

func TestPrintReapSummaryDryRun(t *testing.T) {
	summaries := []models.RunSummary{
		{Region: "us-east-1", DryRun: true, Deleted: 2},
	}

	var buf bytes.Buffer
	PrintReapSummary(&buf, summaries)

	assert.Contains(t, buf.String(), "Dry run: no snapshots were deleted.")
}

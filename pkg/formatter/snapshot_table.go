package formatter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/cloudkeep/snapreaper/internal/models"
)

// PrintReapTable prints a formatted table with one row per evaluated snapshot
func PrintReapTable(w io.Writer, results []models.ReapResult, scanStartTime time.Time, scanDuration time.Duration) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No snapshots found.")
		return
	}

	// Sort by creation time (oldest first)
	sort.Slice(results, func(i, j int) bool {
		return results[i].Snapshot.StartTime.Before(results[j].Snapshot.StartTime)
	})

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintln(tw, "SNAPSHOT ID\tNAME\tAGE\tSIZE\tVOLUME\tATTACHED TO\tDECISION\tREASON")

	for _, res := range results {
		name := res.Snapshot.Name
		if name == "" {
			name = "-"
		}

		volume := res.Snapshot.VolumeID
		if volume == "" {
			volume = "-"
		}

		attached := "-"
		if len(res.AttachedTo) > 0 {
			attached = strings.Join(res.AttachedTo, ",")
			if res.StoppedAttachment {
				attached += " (not running)"
			}
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%d GB\t%s\t%s\t%s\t%s\n",
			res.Snapshot.SnapshotID,
			name,
			formatAge(res.Snapshot.StartTime, scanStartTime),
			res.Snapshot.SizeGB,
			volume,
			attached,
			res.Decision,
			res.Reason,
		)
	}

	tw.Flush()

	printTimestamp(w, scanStartTime, scanDuration)
}

// PrintReapSummary displays the aggregate counts per region
func PrintReapSummary(w io.Writer, summaries []models.RunSummary) {
	if len(summaries) == 0 {
		return
	}

	fmt.Fprintln(w, "\n## Snapshot Reap Summary")

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintln(tw, "REGION\tEVALUATED\tDELETED\tRETAINED\tERRORS")

	var totalDeleted, totalRetained, totalErrored int
	dryRun := false
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n",
			s.Region,
			s.Total(),
			s.Deleted,
			s.Retained,
			s.Errored,
		)
		totalDeleted += s.Deleted
		totalRetained += s.Retained
		totalErrored += s.Errored
		dryRun = dryRun || s.DryRun
	}

	fmt.Fprintf(tw, "Total:\t%d\t%d\t%d\t%d\n",
		totalDeleted+totalRetained+totalErrored,
		totalDeleted,
		totalRetained,
		totalErrored,
	)

	tw.Flush()

	if dryRun {
		fmt.Fprintln(w, "\nDry run: no snapshots were deleted.")
	}
}

// formatAge renders the snapshot age relative to scan time, e.g. "45 days"
func formatAge(created, scanTime time.Time) string {
	if created.IsZero() {
		return "-"
	}
	return strings.TrimSpace(humanize.RelTime(created, scanTime, "", ""))
}

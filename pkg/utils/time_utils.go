package utils

import "time"

// RetentionThreshold returns the cutoff before which a snapshot is old
// enough to be considered for deletion.
func RetentionThreshold(now time.Time, retentionDays int) time.Time {
	return now.UTC().AddDate(0, 0, -retentionDays)
}

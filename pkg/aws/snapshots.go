package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/cloudkeep/snapreaper/internal/models"
	"github.com/cloudkeep/snapreaper/pkg/utils"
)

// unknownSourceVolume is what EC2 reports as the volume ID for snapshots
// whose source volume is not tracked (e.g. copied snapshots). It never
// resolves to a real volume, so it is normalized to "no source volume".
const unknownSourceVolume = "vol-ffffffff"

// ListOwnedSnapshots returns all snapshots owned by the calling account.
// The listing is fully paginated before it is returned so callers never
// act on a partial account view.
func (c *Client) ListOwnedSnapshots(ctx context.Context) ([]models.SnapshotInfo, error) {
	input := &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
	}

	paginator := ec2.NewDescribeSnapshotsPaginator(c.ec2, input)

	var snapshots []models.SnapshotInfo
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EBS snapshots: %w", err)
		}

		for _, snap := range page.Snapshots {
			info := models.SnapshotInfo{
				SnapshotID:  aws.ToString(snap.SnapshotId),
				Name:        utils.GetName(snap.Tags),
				VolumeID:    sourceVolumeID(snap.VolumeId),
				Region:      c.region,
				Description: aws.ToString(snap.Description),
			}
			if snap.StartTime != nil {
				info.StartTime = snap.StartTime.UTC()
			}
			if snap.VolumeSize != nil {
				info.SizeGB = int(*snap.VolumeSize)
			}

			snapshots = append(snapshots, info)
		}
	}

	return snapshots, nil
}

// DeleteSnapshot deletes a single snapshot. A snapshot that is already
// gone (deleted concurrently or by a previous pass) is reported as
// alreadyGone rather than as an error.
func (c *Client) DeleteSnapshot(ctx context.Context, snapshotID string) (alreadyGone bool, err error) {
	_, err = c.ec2.DeleteSnapshot(ctx, &ec2.DeleteSnapshotInput{
		SnapshotId: aws.String(snapshotID),
	})
	if err != nil {
		if isAPIError(err, errCodeSnapshotNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("error deleting snapshot %s: %w", snapshotID, err)
	}
	return false, nil
}

func sourceVolumeID(volumeID *string) string {
	id := aws.ToString(volumeID)
	if id == unknownSourceVolume {
		return ""
	}
	return id
}

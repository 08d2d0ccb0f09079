package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/cloudkeep/snapreaper/internal/models"
)

// LookupVolume describes a single volume and returns a tagged outcome.
// A missing volume comes back as Exists=false with a nil error; only
// unexpected provider failures are returned as errors.
//
// Volumes are described one at a time because a bulk DescribeVolumes
// fails the whole request when any ID in it no longer exists.
func (c *Client) LookupVolume(ctx context.Context, volumeID string) (models.VolumeLookup, error) {
	out, err := c.ec2.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{
		VolumeIds: []string{volumeID},
	})
	if err != nil {
		if isAPIError(err, errCodeVolumeNotFound) {
			return models.VolumeLookup{VolumeID: volumeID}, nil
		}
		return models.VolumeLookup{}, fmt.Errorf("error describing volume %s: %w", volumeID, err)
	}

	lookup := models.VolumeLookup{VolumeID: volumeID}
	for _, vol := range out.Volumes {
		lookup.Exists = true
		lookup.State = string(vol.State)
		for _, att := range vol.Attachments {
			lookup.Attachments = append(lookup.Attachments, models.VolumeAttachment{
				InstanceID: aws.ToString(att.InstanceId),
				Device:     aws.ToString(att.Device),
				State:      string(att.State),
			})
		}
	}

	return lookup, nil
}

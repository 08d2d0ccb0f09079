package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// GetRunningInstanceIDs returns the set of IDs of all instances in the
// running state, fully paginated.
func (c *Client) GetRunningInstanceIDs(ctx context.Context) (map[string]struct{}, error) {
	// Filter only running instances
	filter := types.Filter{
		Name:   aws.String("instance-state-name"),
		Values: []string{"running"},
	}

	input := &ec2.DescribeInstancesInput{
		Filters: []types.Filter{filter},
	}

	paginator := ec2.NewDescribeInstancesPaginator(c.ec2, input)

	running := make(map[string]struct{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EC2 instances: %w", err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				if instance.InstanceId != nil {
					running[*instance.InstanceId] = struct{}{}
				}
			}
		}
	}

	return running, nil
}

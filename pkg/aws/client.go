package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// defaultMaxAttempts bounds SDK-level retries for throttling and 5xx
// responses. Business-level NotFound outcomes are classified by the
// callers and never reach the retryer.
const defaultMaxAttempts = 5

// ec2API is the subset of the EC2 client the reaper uses. The paginator
// client interfaces come from the SDK so the same fakes satisfy the
// DescribeSnapshots/DescribeInstances paginators in tests.
type ec2API interface {
	ec2.DescribeSnapshotsAPIClient
	ec2.DescribeInstancesAPIClient
	DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
	DeleteSnapshot(ctx context.Context, params *ec2.DeleteSnapshotInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSnapshotOutput, error)
}

type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Client wraps the EC2 and STS clients for a single region
type Client struct {
	ec2    ec2API
	sts    stsAPI
	region string
}

// NewClient creates a new Client for the given region
func NewClient(ctx context.Context, region string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), defaultMaxAttempts)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	return &Client{
		ec2:    ec2.NewFromConfig(cfg),
		sts:    sts.NewFromConfig(cfg),
		region: region,
	}, nil
}

// Region returns the region this client operates in
func (c *Client) Region() string {
	return c.region
}

// CallerAccount resolves the account ID of the calling identity
func (c *Client) CallerAccount(ctx context.Context) (string, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error resolving caller identity: %w", err)
	}
	return aws.ToString(out.Account), nil
}

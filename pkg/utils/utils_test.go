package utils

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
)

func TestGetName(t *testing.T) {
	tags := []types.Tag{
		{Key: aws.String("env"), Value: aws.String("prod")},
		{Key: aws.String("Name"), Value: aws.String("db-backup")},
	}
	assert.Equal(t, "db-backup", GetName(tags))
	assert.Equal(t, "", GetName(nil))
}

func TestGetTagValueNilValue(t *testing.T) {
	tags := []types.Tag{{Key: aws.String("Name")}}
	assert.Equal(t, "", GetTagValue(tags, "Name"))
	assert.Equal(t, "", GetTagValue(tags, "missing"))
}

func TestRetentionThreshold(t *testing.T) {
	now := time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC)
	want := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, want, RetentionThreshold(now, 30))
}

func TestRetentionThresholdConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2026, time.March, 31, 12, 0, 0, 0, loc)
	got := RetentionThreshold(now, 30)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, now.UTC().AddDate(0, 0, -30), got)
}

func TestIsValidRegion(t *testing.T) {
	assert.True(t, IsValidRegion("us-east-1"))
	assert.True(t, IsValidRegion("ap-northeast-2"))
	assert.False(t, IsValidRegion("moon-base-1"))
	assert.False(t, IsValidRegion(""))
}

func TestGetDefaultRegion(t *testing.T) {
	assert.Equal(t, "us-east-1", GetDefaultRegion())
}

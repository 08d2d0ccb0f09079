package aws

import (
	"errors"

	"github.com/aws/smithy-go"
)

// EC2 API error codes the reaper treats as expected conditions
const (
	errCodeVolumeNotFound   = "InvalidVolume.NotFound"
	errCodeSnapshotNotFound = "InvalidSnapshot.NotFound"
)

// isAPIError reports whether err is an API error with the given code
func isAPIError(err error, code string) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == code
}

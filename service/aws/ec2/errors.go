package awsec2

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
	"github.com/elC0mpa/costdrill/model"
)

// mapError translates EC2 API failures into the shared error types
func mapError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return &model.APIError{Message: err.Error()}
	}

	code := apiErr.ErrorCode()
	switch {
	case code == "InvalidInstanceID.NotFound" || code == "InvalidInstanceID.Malformed":
		return &model.ResourceNotFoundError{ResourceType: "EC2 instance", ResourceID: instanceIDFromMessage(apiErr.ErrorMessage())}
	case code == "InvalidVolume.NotFound":
		return &model.ResourceNotFoundError{ResourceType: "EBS volume", ResourceID: instanceIDFromMessage(apiErr.ErrorMessage())}
	case code == "UnauthorizedOperation":
		return &model.PermissionError{Service: "ec2", Action: "DescribeInstances", Details: apiErr.ErrorMessage()}
	case strings.HasPrefix(code, "Throttling") || code == "RequestLimitExceeded":
		return &model.RateLimitExceededError{RetryAfterSeconds: 60}
	case code == "UnrecognizedClientException" || code == "InvalidClientTokenId" ||
		code == "AuthFailure" || strings.HasPrefix(code, "ExpiredToken"):
		return &model.AuthenticationError{Message: apiErr.ErrorMessage()}
	default:
		return &model.APIError{Code: code, Message: apiErr.ErrorMessage()}
	}
}

// instanceIDFromMessage pulls the quoted resource id out of messages
// like "The instance ID 'i-0abc' does not exist"
func instanceIDFromMessage(msg string) string {
	start := strings.Index(msg, "'")
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], "'")
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

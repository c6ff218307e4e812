package awscostexplorer

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/smithy-go"
	"github.com/elC0mpa/costdrill/model"
)

const defaultRetryAfterSeconds = 60

// mapError funnels every upstream Cost Explorer error into the typed
// taxonomy. No retry happens here; callers decide based on the kind.
func mapError(err error) error {
	var dataUnavailable *types.DataUnavailableException
	if errors.As(err, &dataUnavailable) {
		return &model.DataNotAvailableError{Message: dataUnavailable.ErrorMessage()}
	}

	var limitExceeded *types.LimitExceededException
	if errors.As(err, &limitExceeded) {
		return &model.RateLimitExceededError{RetryAfterSeconds: defaultRetryAfterSeconds}
	}

	var invalidToken *types.InvalidNextTokenException
	if errors.As(err, &invalidToken) {
		return &model.APIError{Code: "InvalidNextToken", Message: "pagination state is inconsistent"}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException":
			// Cost Explorer denies all access until it is enabled for
			// the account, so this is distinct from a permission error
			return &model.CostExplorerNotEnabledError{}
		case "ThrottlingException", "Throttling", "TooManyRequestsException":
			return &model.RateLimitExceededError{RetryAfterSeconds: defaultRetryAfterSeconds}
		case "UnrecognizedClientException", "InvalidClientTokenId", "SignatureDoesNotMatch", "ExpiredToken", "ExpiredTokenException":
			return &model.AuthenticationError{Message: apiErr.ErrorMessage()}
		default:
			return &model.APIError{Code: apiErr.ErrorCode(), Message: apiErr.ErrorMessage()}
		}
	}

	return &model.APIError{Message: err.Error()}
}

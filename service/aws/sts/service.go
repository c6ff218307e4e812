package awssts

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/elC0mpa/costdrill/model"
)

func NewService(cfg aws.Config) IdentityService {
	return &service{client: sts.NewFromConfig(cfg)}
}

func NewServiceWithClient(client STSAPI) IdentityService {
	return &service{client: client}
}

func (s *service) GetCallerIdentity(ctx context.Context) (*sts.GetCallerIdentityOutput, error) {
	return s.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
}

func (s *service) GetAccountInfo(ctx context.Context) (*model.AccountInfo, error) {
	output, err := s.GetCallerIdentity(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return &model.AccountInfo{
		Provider:    "aws",
		AccountID:   aws.ToString(output.Account),
		AccountName: aws.ToString(output.Arn),
	}, nil
}

// ValidateCredentials performs a cheap identity call to fail fast before
// any billing query is attempted
func (s *service) ValidateCredentials(ctx context.Context) error {
	if _, err := s.GetCallerIdentity(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

func mapError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidClientTokenId", "SignatureDoesNotMatch", "ExpiredToken", "UnrecognizedClientException":
			return &model.AuthenticationError{Message: apiErr.ErrorMessage()}
		case "AccessDenied":
			return &model.PermissionError{Service: "sts", Action: "GetCallerIdentity", Details: apiErr.ErrorMessage()}
		}
		return &model.APIError{Code: apiErr.ErrorCode(), Message: apiErr.ErrorMessage()}
	}
	return &model.CredentialsNotFoundError{}
}

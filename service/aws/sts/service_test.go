package awssts

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/elC0mpa/costdrill/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSTS struct {
	output *sts.GetCallerIdentityOutput
	err    error
}

func (f *fakeSTS) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return f.output, f.err
}

type stubAPIError struct {
	code string
	msg  string
}

func (e *stubAPIError) Error() string                 { return e.msg }
func (e *stubAPIError) ErrorCode() string             { return e.code }
func (e *stubAPIError) ErrorMessage() string          { return e.msg }
func (e *stubAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

func TestGetAccountInfo(t *testing.T) {
	svc := NewServiceWithClient(&fakeSTS{
		output: &sts.GetCallerIdentityOutput{
			Account: aws.String("123456789012"),
			Arn:     aws.String("arn:aws:iam::123456789012:user/dev"),
		},
	})

	info, err := svc.GetAccountInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "aws", info.Provider)
	assert.Equal(t, "123456789012", info.AccountID)
	assert.Equal(t, "arn:aws:iam::123456789012:user/dev", info.AccountName)
}

func TestValidateCredentials(t *testing.T) {
	svc := NewServiceWithClient(&fakeSTS{output: &sts.GetCallerIdentityOutput{}})
	assert.NoError(t, svc.ValidateCredentials(context.Background()))
}

func TestValidateCredentialsExpiredToken(t *testing.T) {
	svc := NewServiceWithClient(&fakeSTS{err: &stubAPIError{code: "ExpiredToken", msg: "token expired"}})

	err := svc.ValidateCredentials(context.Background())
	var authErr *model.AuthenticationError
	assert.ErrorAs(t, err, &authErr)
}

func TestValidateCredentialsMissingCredentials(t *testing.T) {
	svc := NewServiceWithClient(&fakeSTS{err: errors.New("no EC2 IMDS role found")})

	err := svc.ValidateCredentials(context.Background())
	var credErr *model.CredentialsNotFoundError
	assert.ErrorAs(t, err, &credErr)
}

func TestGetAccountInfoAccessDenied(t *testing.T) {
	svc := NewServiceWithClient(&fakeSTS{err: &stubAPIError{code: "AccessDenied", msg: "denied"}})

	_, err := svc.GetAccountInfo(context.Background())
	var permErr *model.PermissionError
	require.ErrorAs(t, err, &permErr)
	assert.Equal(t, "sts", permErr.Service)
}

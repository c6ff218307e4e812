package awsec2

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/elC0mpa/costdrill/model"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEC2 struct {
	instancesInput *ec2.DescribeInstancesInput
	reservations   []types.Reservation
	describeErr    error
	volumes        []types.Volume
	volumesErr     error
}

func (f *fakeEC2) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.instancesInput = params
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &ec2.DescribeInstancesOutput{Reservations: f.reservations}, nil
}

func (f *fakeEC2) DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	if f.volumesErr != nil {
		return nil, f.volumesErr
	}
	return &ec2.DescribeVolumesOutput{Volumes: f.volumes}, nil
}

func sdkInstance(id string, state types.InstanceStateName) types.Instance {
	return types.Instance{
		InstanceId:   aws.String(id),
		InstanceType: types.InstanceTypeT3Large,
		State:        &types.InstanceState{Name: state},
		LaunchTime:   aws.Time(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)),
		Placement: &types.Placement{
			AvailabilityZone: aws.String("us-east-1a"),
			Tenancy:          types.TenancyDefault,
		},
		PlatformDetails:  aws.String("Linux/UNIX"),
		PrivateIpAddress: aws.String("10.0.0.5"),
		Tags: []types.Tag{
			{Key: aws.String("Name"), Value: aws.String("web-1")},
			{Key: aws.String("team"), Value: aws.String("platform")},
		},
		SecurityGroups: []types.GroupIdentifier{
			{GroupName: aws.String("web-sg")},
		},
		BlockDeviceMappings: []types.InstanceBlockDeviceMapping{
			{
				DeviceName: aws.String("/dev/xvda"),
				Ebs: &types.EbsInstanceBlockDevice{
					VolumeId:            aws.String("vol-1"),
					Status:              types.AttachmentStatusAttached,
					DeleteOnTermination: aws.Bool(true),
				},
			},
		},
	}
}

func TestListInstancesExcludesTerminatedByDefault(t *testing.T) {
	client := &fakeEC2{}
	svc := NewServiceWithClient(client, "us-east-1", logr.Discard())

	_, err := svc.ListInstances(context.Background(), false)
	require.NoError(t, err)

	require.NotNil(t, client.instancesInput)
	require.Len(t, client.instancesInput.Filters, 1)
	filter := client.instancesInput.Filters[0]
	assert.Equal(t, "instance-state-name", aws.ToString(filter.Name))
	assert.NotContains(t, filter.Values, "terminated")
	assert.Contains(t, filter.Values, "running")
	assert.Contains(t, filter.Values, "stopped")
}

func TestListInstancesIncludeTerminatedDropsFilter(t *testing.T) {
	client := &fakeEC2{}
	svc := NewServiceWithClient(client, "us-east-1", logr.Discard())

	_, err := svc.ListInstances(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, client.instancesInput.Filters)
}

func TestListInstancesParsesMetadata(t *testing.T) {
	client := &fakeEC2{
		reservations: []types.Reservation{
			{Instances: []types.Instance{sdkInstance("i-1", types.InstanceStateNameRunning)}},
		},
		volumes: []types.Volume{
			{
				VolumeId:   aws.String("vol-1"),
				Size:       aws.Int32(100),
				VolumeType: types.VolumeTypeGp3,
				Iops:       aws.Int32(3000),
			},
		},
	}
	svc := NewServiceWithClient(client, "us-east-1", logr.Discard())

	instances, err := svc.ListInstances(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, instances, 1)

	inst := instances[0]
	assert.Equal(t, "i-1", inst.InstanceID)
	assert.Equal(t, "t3.large", inst.InstanceType)
	assert.Equal(t, model.StateRunning, inst.State)
	assert.Equal(t, "us-east-1", inst.Region)
	assert.Equal(t, "us-east-1a", inst.AvailabilityZone)
	assert.Equal(t, "web-1", inst.Name())
	assert.Equal(t, "platform", inst.Tags["team"])
	assert.Equal(t, []string{"web-sg"}, inst.SecurityGroups)

	// volume details are enriched from DescribeVolumes
	require.Len(t, inst.EBSVolumes, 1)
	vol := inst.EBSVolumes[0]
	assert.Equal(t, "vol-1", vol.VolumeID)
	assert.Equal(t, int32(100), vol.SizeGB)
	assert.Equal(t, "gp3", vol.VolumeType)
	assert.True(t, vol.DeleteOnTermination)
	assert.Equal(t, "/dev/xvda", vol.DeviceName)
}

func TestListInstancesSurvivesVolumeLookupFailure(t *testing.T) {
	client := &fakeEC2{
		reservations: []types.Reservation{
			{Instances: []types.Instance{sdkInstance("i-1", types.InstanceStateNameRunning)}},
		},
		volumesErr: &stubAPIError{code: "RequestLimitExceeded", msg: "slow down"},
	}
	svc := NewServiceWithClient(client, "us-east-1", logr.Discard())

	instances, err := svc.ListInstances(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	// sizes stay zero when enrichment fails
	assert.Equal(t, int32(0), instances[0].EBSVolumes[0].SizeGB)
}

func TestGetInstanceNotFoundWhenAbsent(t *testing.T) {
	svc := NewServiceWithClient(&fakeEC2{}, "us-east-1", logr.Discard())

	_, err := svc.GetInstance(context.Background(), "i-missing")
	var notFound *model.ResourceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "i-missing", notFound.ResourceID)
}

func TestGetVolumesForInstance(t *testing.T) {
	client := &fakeEC2{
		volumes: []types.Volume{
			{
				VolumeId:   aws.String("vol-1"),
				Size:       aws.Int32(50),
				VolumeType: types.VolumeTypeGp2,
				State:      types.VolumeStateInUse,
				Attachments: []types.VolumeAttachment{
					{
						InstanceId:          aws.String("i-1"),
						Device:              aws.String("/dev/sdb"),
						DeleteOnTermination: aws.Bool(false),
					},
				},
			},
		},
	}
	svc := NewServiceWithClient(client, "us-east-1", logr.Discard())

	volumes, err := svc.GetVolumesForInstance(context.Background(), "i-1")
	require.NoError(t, err)
	require.Len(t, volumes, 1)
	assert.Equal(t, int32(50), volumes[0].SizeGB)
	assert.Equal(t, "/dev/sdb", volumes[0].DeviceName)
	assert.False(t, volumes[0].DeleteOnTermination)
}

type stubAPIError struct {
	code string
	msg  string
}

func (e *stubAPIError) Error() string                 { return e.msg }
func (e *stubAPIError) ErrorCode() string             { return e.code }
func (e *stubAPIError) ErrorMessage() string          { return e.msg }
func (e *stubAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want any
	}{
		{"instance not found", &stubAPIError{code: "InvalidInstanceID.NotFound", msg: "The instance ID 'i-0abc' does not exist"}, new(*model.ResourceNotFoundError)},
		{"unauthorized", &stubAPIError{code: "UnauthorizedOperation", msg: "denied"}, new(*model.PermissionError)},
		{"throttled", &stubAPIError{code: "RequestLimitExceeded", msg: "slow down"}, new(*model.RateLimitExceededError)},
		{"auth failure", &stubAPIError{code: "AuthFailure", msg: "bad creds"}, new(*model.AuthenticationError)},
		{"unknown", &stubAPIError{code: "Weird", msg: "odd"}, new(*model.APIError)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorAs(t, mapError(tc.in), tc.want)
		})
	}
}

func TestMapErrorExtractsResourceID(t *testing.T) {
	mapped := mapError(&stubAPIError{
		code: "InvalidInstanceID.NotFound",
		msg:  "The instance ID 'i-0abc123' does not exist",
	})

	var notFound *model.ResourceNotFoundError
	require.ErrorAs(t, mapped, &notFound)
	assert.Equal(t, "i-0abc123", notFound.ResourceID)
}
